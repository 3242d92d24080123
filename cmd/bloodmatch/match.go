package main

import (
	"context"
	"fmt"

	"bloodmatch/internal/db"
	"bloodmatch/internal/match"
	"bloodmatch/internal/store"
	"bloodmatch/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var matchCommand = &cli.Command{
	Name:  "match",
	Usage: "Print candidate donors for a stored request or an ad-hoc blood type and location",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "request-id",
			Usage: "ID of a stored blood request",
		},
		&cli.StringFlag{
			Name:    "blood-type",
			Aliases: []string{"b"},
			Usage:   "Blood type to match when no request id is given",
		},
		&cli.StringFlag{
			Name:    "location",
			Aliases: []string{"l"},
			Usage:   "Request location used for proximity",
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Refine by name or location substring",
		},
		&cli.StringFlag{
			Name:  "filter-blood-type",
			Usage: "Refine by exact donor blood type",
		},
		&cli.StringFlag{
			Name:  "filter-location",
			Usage: "Refine by exact donor location",
		},
	},
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

		request, err := matchRequest(ctx, c, store.NewRequestRepository(pool))
		if err != nil {
			return err
		}

		donors, err := store.NewDonorRepository(pool).AllDonors(ctx)
		if err != nil {
			return err
		}

		candidates, err := match.ComputeCandidates(request, donors)
		if err != nil {
			return err
		}

		matches := match.Refine(candidates, types.MatchFilters{
			Query:     c.String("query"),
			BloodType: c.String("filter-blood-type"),
			Location:  c.String("filter-location"),
		})

		_, err = pp.Println(types.MatchesResponse{
			RequestID: request.ID,
			Count:     len(matches),
			Matches:   matches,
		})
		return err
	},
}

func matchRequest(ctx context.Context, c *cli.Context, repo *store.RequestRepository) (*types.BloodRequest, error) {
	if id := c.String("request-id"); id != "" {
		return repo.Request(ctx, id)
	}

	if c.String("blood-type") == "" {
		return nil, fmt.Errorf("set --request-id or --blood-type")
	}

	bloodType, err := types.ParseBloodType(c.String("blood-type"))
	if err != nil {
		return nil, err
	}

	return &types.BloodRequest{
		BloodType: bloodType,
		Location:  c.String("location"),
	}, nil
}
