package main

import (
	"context"
	"fmt"

	"bloodmatch/internal/db"
	"bloodmatch/internal/seed"
	"bloodmatch/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with sample donors",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		donorRepo := store.NewDonorRepository(pool)

		logrus.Info("Seeding donors...")
		seeded, err := seed.SeedDonors(ctx, donorRepo)
		if err != nil {
			return fmt.Errorf("failed to seed donors: %w", err)
		}

		logrus.WithField("created", seeded).Info("Donors seeded successfully")

		return nil
	},
}
