package seed

import (
	"context"
	"errors"
	"testing"

	"bloodmatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDonorSeeder struct {
	donors  map[string]*types.Donor
	created []string
	getErr  error
}

func (f *fakeDonorSeeder) Donor(_ context.Context, donorID string) (*types.Donor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.donors[donorID]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return d, nil
}

func (f *fakeDonorSeeder) CreateDonor(_ context.Context, donor *types.Donor) error {
	f.donors[donor.ID] = donor
	f.created = append(f.created, donor.ID)
	return nil
}

func TestSampleDonors(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range SampleDonors() {
		assert.Len(t, d.ID, 32, d.Name)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.True(t, d.BloodType.Valid(), d.Name)
		assert.NotEmpty(t, d.Location, d.Name)
	}
}

func TestSeedDonors(t *testing.T) {
	ctx := context.Background()
	samples := SampleDonors()

	repo := &fakeDonorSeeder{donors: map[string]*types.Donor{
		samples[0].ID: &samples[0],
	}}

	seeded, err := SeedDonors(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, len(samples)-1, seeded)
	assert.NotContains(t, repo.created, samples[0].ID)

	seeded, err = SeedDonors(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, seeded)
}

func TestSeedDonors_LookupError(t *testing.T) {
	repo := &fakeDonorSeeder{donors: map[string]*types.Donor{}, getErr: errors.New("connection reset")}

	seeded, err := SeedDonors(context.Background(), repo)
	require.Error(t, err)
	assert.Zero(t, seeded)
	assert.Empty(t, repo.created)
}
