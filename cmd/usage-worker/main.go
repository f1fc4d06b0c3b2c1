package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/bitefinderz-backend/internal/usage"
	"github.com/angelmondragon/bitefinderz-backend/pkg/bigquery"
	"github.com/angelmondragon/bitefinderz-backend/pkg/config"
	"github.com/angelmondragon/bitefinderz-backend/pkg/instance"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "usage-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "usage-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	requireResource(ctx, logg, "pubsub usage subscription", cfg.PubSub.UsageSubscription)
	requireResource(ctx, logg, "bigquery dataset", cfg.BigQuery.Dataset)
	requireResource(ctx, logg, "bigquery usage table", cfg.BigQuery.UsageTable)

	bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "error closing bigquery", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	subscription := pubsubClient.UsageSubscription()
	if subscription == nil {
		logg.Error(ctx, "usage subscription unavailable", errors.New("subscription handle is nil"))
		os.Exit(1)
	}

	writer, err := usage.NewWriter(bqClient, usage.WriterConfig{})
	if err != nil {
		logg.Error(ctx, "failed to create usage writer", err)
		os.Exit(1)
	}

	consumer, err := usage.NewConsumer(subscription, writer, logg)
	if err != nil {
		logg.Error(ctx, "failed to create usage consumer", err)
		os.Exit(1)
	}

	logg.Info(ctx, "usage worker started")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "usage consumer stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "usage worker stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, label string, value string) {
	if value == "" {
		logg.Error(ctx, "missing required configuration", errors.New(label+" is not configured"))
		os.Exit(1)
	}
}
