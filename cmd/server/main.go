package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/database"
	"github.com/scoorly/scoorly-backend/internal/handler"
	"github.com/scoorly/scoorly-backend/internal/logger"
	"github.com/scoorly/scoorly-backend/internal/repository"
	"github.com/scoorly/scoorly-backend/internal/router"
	"github.com/scoorly/scoorly-backend/internal/service"
	"github.com/scoorly/scoorly-backend/internal/store"
	"github.com/scoorly/scoorly-backend/internal/validator"
	"github.com/scoorly/scoorly-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Scoorly Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	flashcardRepo := repository.NewFlashcardRepository(pool)
	bookmarkRepo := repository.NewBookmarkRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	examService := service.NewExamService(examRepo, questionRepo, flashcardRepo, rdb, log)
	sessionStore := store.NewRedisStore(rdb)
	syncQueue := service.NewRedisSyncQueue(rdb)
	sessionService := service.NewQuizSessionService(sessionStore, syncQueue, cfg.ScoreAccessWindow, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Session:  handler.NewQuizSessionHandler(sessionService),
		Score:    handler.NewScoreHandler(sessionService, cfg.DashboardPath),
		Exam:     handler.NewExamHandler(examService),
		Bookmark: handler.NewBookmarkHandler(bookmarkRepo),
		Progress: handler.NewProgressHandler(progressRepo, resultRepo),
		WS:       handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	answerWorker := worker.NewAnswerWorker(pool, rdb, log)
	resultWorker := worker.NewResultWorker(pool, rdb, log)

	go answerWorker.Start(workerCtx)
	go resultWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published exam payloads into Redis BEFORE accepting
	// traffic, so the first quiz of the day never hits a cold cache.
	if err := examService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
