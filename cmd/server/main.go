package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/config"
	"github.com/berrymaze/game-backend/internal/database"
	"github.com/berrymaze/game-backend/internal/handler"
	"github.com/berrymaze/game-backend/internal/logger"
	"github.com/berrymaze/game-backend/internal/realtime"
	"github.com/berrymaze/game-backend/internal/repository"
	"github.com/berrymaze/game-backend/internal/router"
	"github.com/berrymaze/game-backend/internal/service"
	"github.com/berrymaze/game-backend/internal/validator"
	"github.com/berrymaze/game-backend/internal/worker"
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
		Msg("Starting BerryMaze Backend")

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
	gameRepo := repository.NewGameRepository(rdb, log)
	questionRepo := repository.NewQuestionRepository(pool)
	cardRepo := repository.NewCardRepository(pool)

	// ─── Initialize Realtime Hub ───────────────────────────────────────
	hub := realtime.NewHub(log)

	// ─── Initialize Services ──────────────────────────────────────────
	locks := service.NewSessionLocks()
	lobbyService := service.NewLobbyService(gameRepo, hub, locks, log)
	quizService := service.NewQuizService(gameRepo, questionRepo, gameRepo, hub, locks, cfg.QuestionDelay, log)
	cardService := service.NewCardService(gameRepo, hub, locks, quizService, log)
	turnService := service.NewTurnService(gameRepo, cardRepo, cardService, hub, locks, cfg.DrawDelay, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Game: handler.NewGameHandler(lobbyService),
		WS:   handler.NewWSHandler(hub, lobbyService, turnService, cardService, quizService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewQuizResultWorker(pool, rdb, log)
	go resultWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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

	// 2. Stop the background worker and wait for the queue to drain.
	workerCancel()
	select {
	case <-resultWorker.Done():
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Worker drain timed out")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
