package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/bitefinderz-backend/api/controllers"
	"github.com/angelmondragon/bitefinderz-backend/api/routes"
	"github.com/angelmondragon/bitefinderz-backend/internal/cart"
	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
	"github.com/angelmondragon/bitefinderz-backend/internal/discount"
	"github.com/angelmondragon/bitefinderz-backend/internal/menu"
	"github.com/angelmondragon/bitefinderz-backend/internal/usage"
	"github.com/angelmondragon/bitefinderz-backend/pkg/config"
	"github.com/angelmondragon/bitefinderz-backend/pkg/db"
	"github.com/angelmondragon/bitefinderz-backend/pkg/env"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/metrics"
	"github.com/angelmondragon/bitefinderz-backend/pkg/migrate"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pubsub"
	"github.com/angelmondragon/bitefinderz-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ruleStore, err := discount.NewStore(
		discount.NewRepository(dbClient.DB()),
		logg,
		cfg.Discounts.RuleCacheTTL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create rule store", err)
		os.Exit(1)
	}

	cartSource, err := cart.NewLiveSource(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart source", err)
		os.Exit(1)
	}

	menuBuilder, err := menu.NewViewBuilder(
		ruleStore,
		catalog.NewRepository(dbClient.DB()),
		cartSource,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu builder", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var usagePublisher usage.Publisher
	if cfg.PubSub.UsageTopic != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		topicPublisher, err := usage.NewTopicPublisher(pubsubClient)
		if err != nil {
			logg.Error(context.Background(), "failed to bind usage topic", err)
			os.Exit(1)
		}
		defer topicPublisher.Stop()
		usagePublisher = topicPublisher
	}

	recorder, err := usage.NewRecorder(usage.NewRepository(dbClient.DB()), usagePublisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create usage recorder", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	resolutionMetrics := metrics.NewResolutionMetrics(registry)

	menuStreams, err := menu.NewServiceFactory(
		ruleStore,
		catalog.NewRepository(dbClient.DB()),
		cartSource,
		logg,
		resolutionMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu stream factory", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:        cfg,
			Logger:        logg,
			MenuBuilder:   menuBuilder,
			MenuStreams:   menuStreams,
			CartStore:     cartSource,
			UsageRecorder: recorder,
			Pingers:       pingers,
			Metrics:       registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
