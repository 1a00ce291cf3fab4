package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scoorly/scoorly-backend/internal/logger"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/service"
	"github.com/scoorly/scoorly-backend/internal/store"
)

type noopQueue struct{}

func (noopQueue) EnqueueResult(context.Context, *model.ResultSyncPayload) error { return nil }
func (noopQueue) EnqueueAnswer(context.Context, *model.AnswerSyncPayload) error { return nil }

func newScoreRouter(t *testing.T) (*gin.Engine, *service.QuizSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewQuizSessionService(store.NewMemoryStore(), noopQueue{}, 5*time.Minute, logger.Discard())
	h := NewScoreHandler(svc, "/dashboard")

	r := gin.New()
	score := r.Group("/api/v1/score")
	score.Use(middleware.ResolveClientID())
	{
		score.GET("/:quiz_type", h.GetScorePage)
		score.GET("/:quiz_type/access", h.CheckScoreAccess)
	}
	return r, svc
}

func getScore(r *gin.Engine, path, clientID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.HeaderClientID, clientID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScorePageRedirects(t *testing.T) {
	ctx := context.Background()

	t.Run("NoResultsRedirectsToDashboard", func(t *testing.T) {
		r, _ := newScoreRouter(t)
		w := getScore(r, "/api/v1/score/practice", "c1")
		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("redirect to %q, want /dashboard", loc)
		}
	})

	t.Run("UnknownQuizTypeRedirects", func(t *testing.T) {
		r, _ := newScoreRouter(t)
		w := getScore(r, "/api/v1/score/final", "c1")
		if w.Code != http.StatusFound {
			t.Errorf("status = %d, want 302", w.Code)
		}
	})

	t.Run("TypeMismatchRedirects", func(t *testing.T) {
		r, svc := newScoreRouter(t)
		if _, err := svc.Start(ctx, "c1", model.QuizTypeMock, "CDL"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.Complete(ctx, "c1", nil, 7, 300, 10); err != nil {
			t.Fatalf("complete: %v", err)
		}

		w := getScore(r, "/api/v1/score/practice?sessionId=s1", "c1")
		if w.Code != http.StatusFound {
			t.Errorf("status = %d, want 302", w.Code)
		}
	})

	t.Run("FreshResultsServeScorePage", func(t *testing.T) {
		r, svc := newScoreRouter(t)
		if _, err := svc.Start(ctx, "c1", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		sess, err := svc.Complete(ctx, "c1", nil, 8, 600, 10)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}

		w := getScore(r, "/api/v1/score/practice?sessionId="+sess.ID, "c1")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("MissingSessionIDRedirects", func(t *testing.T) {
		r, svc := newScoreRouter(t)
		if _, err := svc.Start(ctx, "c1", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.Complete(ctx, "c1", nil, 8, 600, 10); err != nil {
			t.Fatalf("complete: %v", err)
		}

		// Fresh results alone are not enough: a direct visit without the
		// session id in the URL bounces to the dashboard.
		w := getScore(r, "/api/v1/score/practice", "c1")
		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("redirect to %q, want /dashboard", loc)
		}
	})

	t.Run("OtherClientRedirects", func(t *testing.T) {
		r, svc := newScoreRouter(t)
		if _, err := svc.Start(ctx, "c1", model.QuizTypePractice, "NREMT"); err != nil {
			t.Fatalf("start: %v", err)
		}
		sess, err := svc.Complete(ctx, "c1", nil, 8, 600, 10)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}

		w := getScore(r, "/api/v1/score/practice?sessionId="+sess.ID, "c2")
		if w.Code != http.StatusFound {
			t.Errorf("status = %d, want 302", w.Code)
		}
	})

	t.Run("MissingClientIdentityRejected", func(t *testing.T) {
		r, _ := newScoreRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/score/practice", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestScoreAccessCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("AllowedAfterCompletion", func(t *testing.T) {
		r, svc := newScoreRouter(t)
		if _, err := svc.Start(ctx, "c1", model.QuizTypeMock, "CDL"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.Complete(ctx, "c1", nil, 9, 120, 10); err != nil {
			t.Fatalf("complete: %v", err)
		}

		w := getScore(r, "/api/v1/score/mock/access", "c1")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("InvalidTypeIsBadRequest", func(t *testing.T) {
		r, _ := newScoreRouter(t)
		w := getScore(r, "/api/v1/score/final/access", "c1")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
