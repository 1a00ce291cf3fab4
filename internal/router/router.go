package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/handler"
	"github.com/scoorly/scoorly-backend/internal/middleware"
	"github.com/scoorly/scoorly-backend/internal/response"
	"github.com/scoorly/scoorly-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.QuizSessionHandler
	Score    *handler.ScoreHandler
	Exam     *handler.ExamHandler
	Bookmark *handler.BookmarkHandler
	Progress *handler.ProgressHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Client-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Catalog Group (Public, Cached) ─────────────────────────────
	catalog := router.Group("/api/v1/exams")
	catalog.Use(middleware.CacheControl(300))
	{
		catalog.GET("", handlers.Exam.ListExams)
		catalog.GET("/:exam_id", handlers.Exam.GetExam)
		catalog.GET("/:exam_id/questions", handlers.Exam.GetExamPayload)
		catalog.GET("/:exam_id/flashcards", handlers.Exam.GetFlashcards)
	}

	// Access grants need an account.
	router.POST("/api/v1/exams/:exam_id/access",
		middleware.RequireUserJWT(authService),
		handlers.Exam.GrantAccess,
	)

	// ─── 3. Session Group (Optional Auth + Client Identity) ────────────
	// Anonymous clients run quizzes too; a JWT only adds the remote
	// history mirror.
	sessions := router.Group("/api/v1/sessions")
	sessions.Use(middleware.OptionalUserJWT(authService), middleware.ResolveClientID())
	{
		sessions.POST("/start", handlers.Session.Start)
		sessions.GET("/current", handlers.Session.Current)
		sessions.POST("/answers", handlers.Session.RecordAnswer)
		sessions.POST("/complete", handlers.Session.Complete)
	}

	// ─── 4. Score Group (Optional Auth + Client Identity) ──────────────
	score := router.Group("/api/v1/score")
	score.Use(middleware.OptionalUserJWT(authService), middleware.ResolveClientID())
	{
		score.GET("/:quiz_type", handlers.Score.GetScorePage)
		score.GET("/:quiz_type/access", handlers.Score.CheckScoreAccess)
	}

	// ─── 5. User Data Group (JWT Required) ─────────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(middleware.RequireUserJWT(authService))
	{
		userAPI.PUT("/questions/:question_id/bookmark", handlers.Bookmark.Toggle)
		userAPI.GET("/bookmarks", handlers.Bookmark.List)
		userAPI.GET("/progress", handlers.Progress.GetProgress)
		userAPI.GET("/results", handlers.Progress.ListResults)
	}

	// ─── 6. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/quiz/stream", handlers.WS.QuizStream)
	}

	return router
}
