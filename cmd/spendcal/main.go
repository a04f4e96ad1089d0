package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/spendcal/spendcal/internal/calendar"
	"github.com/spendcal/spendcal/internal/classify"
	"github.com/spendcal/spendcal/internal/config"
	"github.com/spendcal/spendcal/internal/forecast"
	"github.com/spendcal/spendcal/internal/logger"
	"github.com/spendcal/spendcal/internal/models"
	"github.com/spendcal/spendcal/internal/server"
	"github.com/spendcal/spendcal/internal/storage"
	"github.com/spendcal/spendcal/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	store, err := storage.New(cfg.Storage.MaxEvents, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	feedClient := calendar.NewClient(
		cfg.Calendar.FeedURL,
		cfg.Calendar.Timeout,
		calendar.ClientConfig{
			MaxRetries:          cfg.Calendar.MaxRetries,
			RetryDelayBase:      cfg.Calendar.RetryDelayBase,
			MaxIdleConns:        cfg.Calendar.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.Calendar.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.Calendar.IdleConnTimeout,
		},
	)

	classifier := classify.New(nil)

	var telegramClient *telegram.Client
	if cfg.Telegram.Enabled {
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var apiServer *server.Server
	if cfg.Server.Enabled {
		apiServer = server.New(cfg.Server.Addr, store)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("HTTP server failed: %v", err)
				sigChan <- syscall.SIGTERM
			}
		}()
	}

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		if apiServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := apiServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down HTTP server: %v", err)
			}
		}
		cancel()
	}()

	if cfg.Telegram.Enabled && telegramClient != nil {
		telegramClient.ListenForCommands(ctx)
	}

	logger.Info("Starting sync service (interval: %v, lookahead: %d days, timeframe: %s)",
		cfg.Calendar.SyncInterval,
		cfg.Calendar.LookaheadDays,
		cfg.Forecast.Timeframe,
	)

	ticker := time.NewTicker(cfg.Calendar.SyncInterval)
	defer ticker.Stop()

	consecutiveFailures := 0

	handleCycleResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			logger.Error("Sync cycle failed: %v", err)
			if consecutiveFailures == 1 && cfg.Telegram.Enabled && telegramClient != nil {
				if sendErr := telegramClient.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
		} else {
			if consecutiveFailures > 0 && cfg.Telegram.Enabled && telegramClient != nil {
				if sendErr := telegramClient.SendRecovery(consecutiveFailures); sendErr != nil {
					logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
				}
			}
			consecutiveFailures = 0
		}
	}

	logger.Debug("Running initial sync cycle")
	handleCycleResult(runSyncCycle(ctx, feedClient, classifier, store, telegramClient, cfg))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return

		case <-ticker.C:
			logger.Debug("Starting scheduled sync cycle")
			handleCycleResult(runSyncCycle(ctx, feedClient, classifier, store, telegramClient, cfg))
			if err := store.RotateEvents(); err != nil {
				logger.Warn("Failed to rotate events: %v", err)
			}
		}
	}
}

func runSyncCycle(
	ctx context.Context,
	feedClient *calendar.Client,
	classifier *classify.Classifier,
	store *storage.Storage,
	telegramClient *telegram.Client,
	cfg *config.Config,
) error {
	startTime := time.Now()
	logger.Info("Starting sync cycle")

	from := startTime.AddDate(0, 0, -cfg.Calendar.LookbackDays)
	to := startTime.AddDate(0, 0, cfg.Calendar.LookaheadDays)

	logger.Debug("Fetching calendar events (window: %s to %s, limit: %d)",
		from.Format(time.RFC3339), to.Format(time.RFC3339), cfg.Calendar.Limit)
	events, err := feedClient.FetchEvents(ctx, from, to, cfg.Calendar.Limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	logger.Info("Fetched %d events from calendar feed", len(events))

	stored := 0
	for i := range events {
		analysis := classifier.Classify(events[i])
		if err := store.UpsertEvent(&events[i], &analysis); err != nil {
			logger.Warn("Failed to store event %s: %v", events[i].ID, err)
			continue
		}
		stored++
	}
	logger.Debug("Event processing complete: %d stored", stored)

	timeframe := forecast.ParseTimeframe(cfg.Forecast.Timeframe)
	windowEvents, err := store.EventsInRange(startTime, startTime.AddDate(0, 0, timeframe.Days()))
	if err != nil {
		return fmt.Errorf("failed to load forecast window: %w", err)
	}

	analysis := forecast.Analyze(windowEvents)
	predictions := forecast.Predict(analysis, timeframe)
	risk := forecast.AssessRisk(windowEvents, analysis)
	recommendations := forecast.Recommend(windowEvents, analysis, risk)

	logger.Info("Forecast: %d events, $%.2f predicted, risk %s (score %d)",
		len(windowEvents), predictions.TotalSpending, risk.Level, risk.Score)

	if cfg.Telegram.Enabled && telegramClient != nil {
		digest := telegram.Digest{
			Timeframe:   string(timeframe),
			Predictions: predictions,
			Risk:        risk,
			Advisories:  recommendations,
		}
		if err := telegramClient.SendDigest(digest); err != nil {
			logger.Error("Failed to send Telegram digest: %v", err)
		} else {
			logger.Info("Sent Telegram forecast digest")
			recordAdvisories(store, recommendations)
		}
	} else {
		logger.Debug("Telegram notifications disabled, skipping digest")
	}

	logger.Info("Sync cycle completed in %v", time.Since(startTime))

	return nil
}

// recordAdvisories persists the recommendations that went out in a digest.
func recordAdvisories(store *storage.Storage, recommendations []models.Recommendation) {
	now := time.Now()
	for _, rec := range recommendations {
		advisory := &models.Notification{
			ID:        uuid.New().String(),
			Type:      rec.Type,
			Title:     rec.Title,
			Message:   rec.Message,
			Priority:  rec.Priority,
			Timestamp: now,
		}
		if err := store.AddAdvisory(advisory); err != nil {
			logger.Warn("Failed to record advisory %q: %v", rec.Title, err)
		}
	}
}
