package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/model"
	"github.com/scoorly/scoorly-backend/internal/response"
	"github.com/scoorly/scoorly-backend/internal/service"
)

// ScoreHandler gates access to score pages. A score page is only
// reachable right after finishing a quiz of the matching type; stale or
// direct visits bounce back to the dashboard.
type ScoreHandler struct {
	sessionService *service.QuizSessionService
	dashboardPath  string
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(sessionService *service.QuizSessionService, dashboardPath string) *ScoreHandler {
	return &ScoreHandler{
		sessionService: sessionService,
		dashboardPath:  dashboardPath,
	}
}

// GetScorePage godoc
// GET /api/v1/score/:quiz_type
// Validates score-page access for the given quiz type. On success the
// latest results are returned; on failure the client is redirected to
// the dashboard.
func (h *ScoreHandler) GetScorePage(c *gin.Context) {
	quizType := model.QuizType(c.Param("quiz_type"))
	if !quizType.Valid() {
		c.Redirect(http.StatusFound, h.dashboardPath)
		return
	}

	// A score URL is only reachable as the tail of a completed quiz, and the
	// player always navigates with its session id. A bare URL is a direct
	// visit and goes back to the dashboard.
	if c.Query("sessionId") == "" {
		c.Redirect(http.StatusFound, h.dashboardPath)
		return
	}

	clientID := middleware.GetClientID(c)

	if !h.sessionService.ValidateScoreAccess(c.Request.Context(), clientID, quizType) {
		c.Redirect(http.StatusFound, h.dashboardPath)
		return
	}

	results, err := h.sessionService.LastResults(c.Request.Context(), clientID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if results == nil {
		c.Redirect(http.StatusFound, h.dashboardPath)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// CheckScoreAccess godoc
// GET /api/v1/score/:quiz_type/access
// Returns the access decision without redirecting, for clients that
// gate navigation themselves.
func (h *ScoreHandler) CheckScoreAccess(c *gin.Context) {
	quizType := model.QuizType(c.Param("quiz_type"))
	if !quizType.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuizType)
		return
	}

	allowed := h.sessionService.ValidateScoreAccess(c.Request.Context(), middleware.GetClientID(c), quizType)

	response.Success(c, http.StatusOK, gin.H{
		"allowed":  allowed,
		"redirect": h.dashboardPath,
	})
}
