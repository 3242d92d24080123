package main

import (
	"context"
	"fmt"

	"bloodmatch/internal/db"
	"bloodmatch/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var requestsCommand = &cli.Command{
	Name:  "requests",
	Usage: "Print the blood request log in submission order",
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

		requests, err := store.NewRequestRepository(pool).AllRequests(ctx)
		if err != nil {
			return err
		}

		_, err = pp.Println(requests)
		return err
	},
}
