package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/chatlift/chatlift/internal/api"
	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/billing"
	"github.com/chatlift/chatlift/internal/chat"
	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/pkg/config"
	"github.com/chatlift/chatlift/pkg/crypto"
	"github.com/chatlift/chatlift/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Chatlift server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	if cfg.JWT.Secret == config.DevJWTSecret {
		logger.Warn("JWT_SECRET not set, using the development signing secret - all sessions are forgeable")
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, invitation emails disabled", "error", err)
		redisClient = nil
	}

	// Asynq client for background job enqueuing
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
		})
	}

	// Encryptor for widget AI-provider keys
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	if cfg.Encryption.Key == "" {
		logger.Warn("ENCRYPTION_KEY not set, using generated key - widget API keys will be unreadable after restart")
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	sessions := auth.NewSessionManager(jwtService, cfg.JWT.Expiry(), !cfg.Server.IsDevelopment())
	authService := auth.NewService(db, jwtService, cfg.Trial.Length())
	invitationService := auth.NewInvitationService(db, asynqClient, logger)
	widgetService := chat.NewWidgetService(db, encryptor)
	leadService := chat.NewLeadService(db)
	conversationService := chat.NewConversationService(db)
	billingService := billing.NewService(db, billing.NewStripeProvider(cfg.Stripe))

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:                  db,
		Redis:               redisClient,
		Logger:              logger,
		Sessions:            sessions,
		AuthService:         authService,
		InvitationService:   invitationService,
		WidgetService:       widgetService,
		LeadService:         leadService,
		ConversationService: conversationService,
		BillingService:      billingService,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		RateLimitReqs:       cfg.RateLimit.Requests,
		RateLimitSecs:       cfg.RateLimit.WindowSeconds,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
