package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/tasks"
	"github.com/chatlift/chatlift/pkg/config"
	"github.com/chatlift/chatlift/pkg/queue"
	"github.com/chatlift/chatlift/pkg/util"
)

// trialReminderCron fires once a day, early morning UTC.
const trialReminderCron = "0 6 * * *"

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

	logger.Info("starting Chatlift worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Create Asynq server and enqueue client
	srv := queue.NewServer(&cfg.Redis, 10)
	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	// Create task handler
	handler := tasks.NewHandler(db, logger, nil, cfg.Server.BaseURL)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	// Daily trial-reminder scheduler
	go runTrialReminderLoop(ctx, client, logger)

	logger.Info("worker started, waiting for tasks...")

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}

// runTrialReminderLoop enqueues one trial-reminder sweep per cron tick. The
// task itself finds every trial ending inside the reminder window, so a
// missed tick self-heals on the next one.
func runTrialReminderLoop(ctx context.Context, client *asynq.Client, logger *slog.Logger) {
	for {
		next, err := util.NextCronTime(trialReminderCron, time.Now())
		if err != nil {
			logger.Error("invalid trial reminder schedule", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		task, err := tasks.NewTrialReminderTask(tasks.TrialReminderPayload{WindowDays: 3})
		if err != nil {
			logger.Error("failed to build trial reminder task", "error", err)
			continue
		}
		if _, err := client.Enqueue(task, asynq.Queue("mail")); err != nil {
			logger.Error("failed to enqueue trial reminder", "error", err)
			continue
		}
		logger.Info("trial reminder sweep enqueued", "next_run", next)
	}
}
