package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellness-server/internal/config"
	delivery "wellness-server/internal/delivery/http"
	"wellness-server/internal/delivery/http/middleware"
	"wellness-server/internal/logger"
	"wellness-server/internal/platform/cache"
	"wellness-server/internal/platform/database"
	"wellness-server/internal/repository"
	"wellness-server/internal/service"
	"wellness-server/pkg/ai"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	// --- Storage ---
	pool, err := database.NewPool(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.DBMaxConnections,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleMin) * time.Minute,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	if err := database.ApplyMigrations(pool, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	insightsCache := cache.New(redisClient, cfg.RedisCacheTTL, log)

	// --- Repositories ---
	habitRepo := repository.NewPgHabitRepository(pool, log)
	completionRepo := repository.NewPgCompletionRepository(pool, log)
	progressRepo := repository.NewPgProgressRepository(pool, log)
	achievementRepo := repository.NewPgAchievementRepository(pool, log)
	referenceRepo := repository.NewPgReferenceRepository(pool, log)
	conversationRepo := repository.NewPgConversationRepository(pool, log)

	// --- AI ---
	aiClient, err := ai.New(ai.Config{
		APIKey:     cfg.AIAPIKey,
		ModelName:  cfg.AIModel,
		BaseURL:    cfg.AIBaseURL,
		Timeout:    time.Duration(cfg.AITimeoutSec) * time.Second,
		MaxRetries: cfg.AIMaxAttempts,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize AI client", zap.Error(err))
	}

	// --- Services ---
	insightsService := service.NewInsightsService(habitRepo, completionRepo, progressRepo, referenceRepo, insightsCache, log)
	streakService := service.NewStreakService(completionRepo, progressRepo, log)
	completionService := service.NewCompletionService(habitRepo, completionRepo, progressRepo, achievementRepo, streakService, insightsService, log)
	habitService := service.NewHabitService(habitRepo, insightsService, log)
	coachService := service.NewCoachService(progressRepo, habitRepo, conversationRepo, insightsService, aiClient, cfg.CoachFreeDailyLimit, log)

	// --- HTTP Server ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	handler := delivery.NewHandler(habitService, completionService, insightsService, streakService, coachService, cfg.JWTSecret, log)
	handler.RegisterRoutes(router)

	prom := ginprometheus.NewPrometheus("gin")
	prom.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped gracefully")
}
