package seed

import (
	"context"
	"errors"
	"fmt"

	"bloodmatch/internal/utils"
	"bloodmatch/pkg/types"
)

// DonorSeeder is the slice of the donor store the seeder needs.
type DonorSeeder interface {
	Donor(ctx context.Context, donorID string) (*types.Donor, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
}

// SampleDonors is a small demo pool spread over a few cities and blood types.
// IDs are fixed so re-running the seed is a no-op.
//
// To generate new IDs: `go run ./cmd/bloodmatch nanoid`
func SampleDonors() []types.Donor {
	return []types.Donor{
		{
			ID:                "kY9pF34Qy6nB3Wwd25rq4f5zr3QA7YeE",
			Name:              "Ada Okafor",
			BloodType:         types.BloodTypeOPos,
			Age:               29,
			CountryCode:       "+234",
			PhoneNumber:       "8031234567",
			Email:             utils.StringPtr("ada.okafor@example.com"),
			Location:          "Lagos",
			DonationFrequency: "Every 3 months",
			History:           []string{"Donated 1 unit on 2024-02-10"},
		},
		{
			ID:                "EBY3ABp3e2zS8iq9y7AjzQHb6BAEcn6z",
			Name:              "Bola Adeyemi",
			BloodType:         types.BloodTypeOPos,
			Age:               35,
			CountryCode:       "+234",
			PhoneNumber:       "8039876543",
			Location:          "Abuja",
			DonationFrequency: "Every 6 months",
		},
		{
			ID:                "J4A3DdvHyrNktBXtnjfObINf5AjxvUlK",
			Name:              "Chidi Eze",
			BloodType:         types.BloodTypeANeg,
			Age:               42,
			CountryCode:       "+234",
			PhoneNumber:       "8051112222",
			Email:             utils.StringPtr("chidi.eze@example.com"),
			Location:          "Lagos",
			DonationFrequency: "Once a year",
		},
		{
			ID:                "siC47wqaMl9Xvq2ZG4MzAOUQklImCvBP",
			Name:              "Dami Bello",
			BloodType:         types.BloodTypeBPos,
			Age:               24,
			CountryCode:       "+234",
			PhoneNumber:       "8062223333",
			Location:          "Port-Harcourt",
			DonationFrequency: "Occasionally",
		},
		{
			ID:                "t4R5YhuIG43KIjFAHQsiJoUGm1YtmaD7",
			Name:              "Efe Omoregie",
			BloodType:         types.BloodTypeABPos,
			Age:               51,
			CountryCode:       "+234",
			PhoneNumber:       "8073334444",
			Location:          "Benin City",
			DonationFrequency: "Every 6 months",
			Status:            "Temporarily Unavailable",
		},
		{
			ID:                "v3dNi8LfppWTv5aspzhU8QrTzhJqmHUo",
			Name:              "Funke Lawal",
			BloodType:         types.BloodTypeONeg,
			Age:               38,
			CountryCode:       "+234",
			PhoneNumber:       "8084445555",
			Location:          "Ibadan",
			DonationFrequency: "Every 3 months",
			History:           []string{"Donated 2 units on 2023-11-04", "Donated 1 unit on 2024-03-15"},
		},
		{
			ID:                "Ze95b9eGe0vRBbgi09qynDAkY8ISwYDF",
			Name:              "Grace Musa",
			BloodType:         types.BloodTypeAPos,
			Age:               31,
			CountryCode:       "+234",
			PhoneNumber:       "8095556666",
			Email:             utils.StringPtr("grace.musa@example.com"),
			Location:          "Kano",
			DonationFrequency: "Once a year",
		},
		{
			ID:                "HL3tVTNYTHPzpppp6uEp3c4dsa7lC360",
			Name:              "Hassan Ali",
			BloodType:         types.BloodTypeBNeg,
			Age:               46,
			CountryCode:       "+234",
			PhoneNumber:       "8106667777",
			Location:          "Abuja",
			DonationFrequency: "Every 6 months",
		},
	}
}

// SeedDonors inserts every sample donor that is not in the store yet and
// returns how many were created.
func SeedDonors(ctx context.Context, repo DonorSeeder) (int, error) {
	seeded := 0
	for _, sample := range SampleDonors() {
		_, err := repo.Donor(ctx, sample.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrDonorNotFound) {
			return seeded, fmt.Errorf("failed to fetch seed donor %s: %w", sample.ID, err)
		}

		donor := sample
		if err := repo.CreateDonor(ctx, &donor); err != nil {
			return seeded, fmt.Errorf("failed to create seed donor %s: %w", sample.ID, err)
		}
		seeded++
	}

	return seeded, nil
}
