// Command migrate runs Goose migrations against the configured database.
//
// Usage:
//
//	migrate up
//	migrate down
//	migrate status
//	migrate up-to <version>
//	migrate create <name>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bettersale/bettersale-backend/pkg/config"
	"github.com/bettersale/bettersale-backend/pkg/db"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/migrate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|status|up-to|create> [args]")
	}
	command := os.Args[1]
	args := os.Args[2:]

	if command == "create" {
		if len(args) != 1 {
			return fmt.Errorf("usage: migrate create <name>")
		}
		path, err := migrate.CreateSQLMigration(migrate.DefaultDir, args[0])
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{ServiceName: "bettersale-migrate", Level: zerolog.InfoLevel})

	ctx := context.Background()
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	if command == "up-to" {
		if len(args) != 1 {
			return fmt.Errorf("usage: migrate up-to <version>")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, client.Dialect(), migrate.DefaultDir, args[0])
	}
	return migrate.Run(ctx, sqlDB, client.Dialect(), migrate.DefaultDir, command, args...)
}
