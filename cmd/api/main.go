package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stagekit/greenroom-api/internal/config"
	"github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/jobs"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/notifier"
	"github.com/stagekit/greenroom-api/internal/portal"
	"github.com/stagekit/greenroom-api/internal/server"
	"github.com/stagekit/greenroom-api/internal/storage/objectstore"
	"github.com/stagekit/greenroom-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.LogLevel)
	log := logger.Get()

	log.Info("Starting Greenroom API...")

	container, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	store, err := objectstore.NewMinioStore(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to initialize object store", "error", err)
		os.Exit(1)
	}

	notify := notifier.NewSMTPNotifier(cfg)
	links := portal.NewLinkBuilder(cfg.Portal.BaseURL, cfg.Portal.Secret, cfg.Portal.TokenTTL)

	policy := reminder.NewPolicy(reminder.Settings{
		SweepEnabled:    cfg.Reminders.SweepEnabled,
		Cooldown:        time.Duration(cfg.Reminders.CooldownHours) * time.Hour,
		DefaultLeadDays: cfg.Reminders.DefaultLeadDays,
	})
	delivery := reminder.NewDeliveryService(
		container.Reminders(),
		container.Speakers(),
		container.Events(),
		notify,
		links,
	)

	sweep := jobs.NewReminderSweep(container.Events(), container.Speakers(), policy, delivery)
	if cfg.Reminders.SweepEnabled {
		if err := sweep.Start(cfg.Reminders.SweepCronSpec); err != nil {
			log.Error("Failed to start reminder sweep", "error", err)
			os.Exit(1)
		}
	} else {
		log.Info("Reminder sweep is disabled")
	}

	srv := server.New(cfg, container, store, notify, links)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	sweep.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	if err := postgres.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
	}

	log.Info("Greenroom API stopped")
}
