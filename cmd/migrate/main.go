package main

import (
	"context"
	"fmt"
	"os"
	"time"

	mongomigration "staybook/internal/migrations/mongo"
	"staybook/pkg/config"

	"github.com/urfave/cli/v2"
)

const JobName = "mongo-migration"

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "create collections, JSON schema validators and indexes",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "timeout", Value: 2 * time.Minute, Usage: "abort the migration after this long"},
		},
		Action: migrate,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func migrate(c *cli.Context) error {
	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)
	if err := mongomigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	cfg.Log.Info("Migration completed successfully")
	return nil
}
