package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/quizmith/mcqs/configs"
	"github.com/quizmith/mcqs/internal/application/services"
	"github.com/quizmith/mcqs/internal/core/ports"
	"github.com/quizmith/mcqs/internal/infrastructure/ai"
	"github.com/quizmith/mcqs/internal/infrastructure/db"
	"github.com/quizmith/mcqs/internal/infrastructure/health"
	"github.com/quizmith/mcqs/internal/infrastructure/httpserver"
	"github.com/quizmith/mcqs/internal/infrastructure/redis"
	"github.com/quizmith/mcqs/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting MCQs quiz service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize repositories
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)
	visitorRepo := repositories.NewVisitorRepository(database, logger)
	baseQuestionRepo := repositories.NewQuestionRepository(database, logger)

	// Decorate question reads with the Redis cache
	redisCache := redis.NewRedisCache(redisClient, cfg.Cache.KeyPrefix)
	questionRepo := repositories.NewCachingQuestionRepository(baseQuestionRepo, redisCache, cfg.Cache.QuestionsTTL, logger)

	// Initialize the text generation client
	perplexity := ai.NewPerplexityClient(&cfg.Perplexity, logger)

	// Wire services
	questionService := services.NewQuestionService(questionRepo, logger)
	explanationService := services.NewExplanationService(questionRepo, perplexity, logger)
	visitorService := services.NewVisitorService(visitorRepo, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &cfg.RateLimit, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		QuestionService:    questionService,
		ExplanationService: explanationService,
		VisitorService:     visitorService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
