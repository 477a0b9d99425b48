// Command nudger runs one nudge batch pass and exits. It is the cron
// entrypoint for deployments that prefer a process invocation over calling
// the HTTP batch endpoint. Running it more often than the configured
// cadences is safe; the per-plan interval throttle prevents double sends.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/benvon/launch-coach/internal/compose"
	"github.com/benvon/launch-coach/internal/config"
	"github.com/benvon/launch-coach/internal/database"
	"github.com/benvon/launch-coach/internal/logger"
	"github.com/benvon/launch-coach/internal/mail"
	"github.com/benvon/launch-coach/internal/scheduler"
	"github.com/benvon/launch-coach/internal/services/ai"
	"go.uber.org/zap"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	timeoutFlag := flag.Duration("timeout", 10*time.Minute, "Overall batch timeout")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_nudger",
		zap.Bool("debug_mode", debugMode),
		zap.Duration("timeout", *timeoutFlag),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	planRepo := database.NewPlanRepository(db)

	// The coaching comment on weekly summaries is optional; a missing API
	// key just means canned comments.
	var aiProvider ai.Provider
	if cfg.OpenAIKey != "" {
		aiProvider = ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		)
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_mailer", zap.Error(err))
	}

	templates, err := compose.Load(cfg.TemplatesPath)
	if err != nil {
		zapLogger.Fatal("failed_to_load_message_templates",
			zap.String("path", cfg.TemplatesPath),
			zap.Error(err),
		)
	}

	composer := compose.NewComposer(aiProvider, templates, zapLogger)
	composer.SetBaseURL(cfg.BaseURL)
	nudgeScheduler := scheduler.New(planRepo, composer, mailer, zapLogger, cfg.NudgeConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	result, err := nudgeScheduler.RunBatch(ctx, time.Now().UTC())
	if err != nil {
		zapLogger.Error("nudge_batch_failed", zap.Error(err))
		os.Exit(1)
	}

	zapLogger.Info("nudger_finished",
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	// A partially failed batch exits non-zero so the cron runner flags it;
	// the failed plans retry on the next cycle regardless.
	if result.Failed > 0 {
		os.Exit(2)
	}
}
