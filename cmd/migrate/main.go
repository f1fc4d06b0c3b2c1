package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/bitefinderz-backend/pkg/config"
	"github.com/angelmondragon/bitefinderz-backend/pkg/db"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/migrate"
)

func main() {
	var (
		cmd     = flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
		dir     = flag.String("dir", migrate.DefaultDir, "migrations directory")
		name    = flag.String("name", "", "migration name (create only)")
		version = flag.String("version", "", "target version YYYYMMDDHHMMSS (version only)")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	// create and validate work on files alone, no DB needed.
	switch *cmd {
	case "create":
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			logg.Error(ctx, "failed to create migration", err)
			os.Exit(1)
		}
		fmt.Println("created", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			logg.Error(ctx, "migration validation failed", err)
			os.Exit(1)
		}
		fmt.Println("migrations ok")
		return
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to get sql handle", err)
		os.Exit(1)
	}

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, *dir, *cmd)
	case "version":
		if *version == "" {
			logg.Error(ctx, "missing flag", fmt.Errorf("-version is required for cmd=version"))
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, *version)
	default:
		logg.Error(ctx, "unknown command", fmt.Errorf("unsupported cmd %q", *cmd))
		os.Exit(1)
	}

	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
}
