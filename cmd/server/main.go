package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/cache"
	"github.com/prepiq/prepiq-service/internal/config"
	"github.com/prepiq/prepiq-service/internal/handlers"
	"github.com/prepiq/prepiq-service/internal/llm"
	"github.com/prepiq/prepiq-service/internal/repositories/postgres"
	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/session"
	"github.com/prepiq/prepiq-service/internal/utils"
	"github.com/prepiq/prepiq-service/internal/validator"
	"github.com/prepiq/prepiq-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis backs quiz config caching and session snapshots. Without it the
	// service still runs, holding that state in memory only.
	var cacheService cache.CacheService
	var snapshotStore session.SnapshotStore
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory session state", "error", err)
		snapshotStore = session.NewMemoryStore()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
		snapshotStore = session.NewCacheStore(cacheService)
	}

	publisher, err := config.LoadEventConfig().CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var generator llm.QuestionGenerator
	if cfg.OpenAIAPIKey != "" {
		generator, err = llm.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		if err != nil {
			logger.Error("Failed to create question generator", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set, serving questions from the built-in bank")
		generator = llm.NewBankGenerator()
	}

	repo := postgres.NewRepository(db)
	v := validator.New()

	quizService := services.NewQuizService(repo, generator, publisher, cacheService, v, logger)
	sessionManager := services.NewSessionManager(quizService, snapshotStore, publisher, logger)
	defer sessionManager.Close()
	scheduleService := services.NewScheduleService(repo, publisher, v, logger)
	analyticsService := services.NewAnalyticsService(repo, logger)
	exportService := services.NewExportService(repo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	hm := handlers.NewHandlerManager(
		quizService,
		sessionManager,
		scheduleService,
		analyticsService,
		exportService,
		logger,
	)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
