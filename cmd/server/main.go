package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/rest"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/SAP-F-2025/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := logger.Slog()

	if err := run(cfg, logger, slogger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.SlogLogger, slogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Backend

	repo, err := newRepository(cfg, slogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close backend", "error", err)
		}
	}()

	var questions repositories.QuestionRepository = repo.Question()
	if cfg.CacheEnabled() {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		questions = cache.NewCachedQuestionRepository(questions, cache.NewRedisCache(redisClient, slogger), cfg.CacheTTL, slogger)
		logger.Info("Question listing cache enabled", "ttl", cfg.CacheTTL.String())
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher, using mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	// =========================================================================
	// Services

	sessions := services.NewSessionStore()
	go sessions.RunJanitor(ctx, janitorInterval, cfg.SessionIdleTimeout)

	questionService := services.NewQuestionService(questions, sessions, publisher, slogger)
	gradingService := services.NewGradingService(repo.Answer(), slogger)

	// =========================================================================
	// HTTP

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ContextLogger(logger), utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(questionService, gradingService, repo, validator.New(), logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Quiz service listening", "port", cfg.Port, "backend", cfg.BackendDriver)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Quiz service stopped")
	return nil
}

func newRepository(cfg *config.Config, logger *slog.Logger) (repositories.Repository, error) {
	if cfg.BackendDriver == config.DriverREST {
		return rest.NewBackend(rest.Config{
			BaseURL: cfg.BackendURL,
			Token:   cfg.BackendToken,
			Timeout: cfg.BackendTimeout,
			Logger:  logger,
		}), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return nil, err
	}
	return postgres.NewStore(db), nil
}
