package store

import (
	"bloodmatch/internal/utils"
	"bloodmatch/pkg/types"
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donorTableName = "donors"

var donorColumns = utils.StructTagValues(types.Donor{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

// AllDonors returns every registered donor in registration order.
func (r *DonorRepository) AllDonors(ctx context.Context) ([]*types.Donor, error) {
	query, args, err := allDonorsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors query: %w", err)
	}

	var donors = make([]*types.Donor, 0)
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	return donors, nil
}

func (r *DonorRepository) Donor(ctx context.Context, donorID string) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"id": donorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor: %w", err)
	}

	return &donor, nil
}

// DonorByContact returns the earliest registered donor using the given
// country code and phone number.
func (r *DonorRepository) DonorByContact(ctx context.Context, countryCode, phoneNumber string) (*types.Donor, error) {
	query, args, err := donorByContactQuery(countryCode, phoneNumber).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor by contact query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor by contact: %w", err)
	}

	return &donor, nil
}

func (r *DonorRepository) CreateDonor(ctx context.Context, donor *types.Donor) error {
	prepareDonorForCreate(donor, time.Now())

	query, args, err := psql().
		Insert(donorTableName).
		SetMap(utils.StructToMap(donor)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create donor")
}

// UpdateDonor overwrites a donor's profile. History and created_at are kept.
func (r *DonorRepository) UpdateDonor(ctx context.Context, donorID string, donor *types.Donor) error {
	donor.ID = donorID
	donor.UpdatedAt = time.Now()
	if strings.TrimSpace(donor.Status) == "" {
		donor.Status = types.DefaultDonorStatus
	}

	query, args, err := updateDonorQuery(donorID, donor).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donor query for donor %s: %w", donorID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}

// AppendHistory adds an entry to the end of a donor's donation history.
func (r *DonorRepository) AppendHistory(ctx context.Context, donorID, entry string) error {
	query, args, err := appendHistoryQuery(donorID, entry, time.Now()).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate append history query for donor %s: %w", donorID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append donation history: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}

func (r *DonorRepository) CountDonors(ctx context.Context) (int, error) {
	return count(ctx, r.pool, donorTableName)
}

func allDonorsQuery() sq.SelectBuilder {
	return psql().
		Select(donorColumns...).
		From(donorTableName).
		OrderBy("created_at ASC", "id ASC")
}

func donorByContactQuery(countryCode, phoneNumber string) sq.SelectBuilder {
	return psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"country_code": countryCode, "phone_number": phoneNumber}).
		OrderBy("created_at ASC").
		Limit(1)
}

func updateDonorQuery(donorID string, donor *types.Donor) sq.UpdateBuilder {
	return psql().
		Update(donorTableName).
		SetMap(utils.StructToMap(donor, "id", "created_at", "history")).
		Where(sq.Eq{"id": donorID})
}

func appendHistoryQuery(donorID, entry string, now time.Time) sq.UpdateBuilder {
	return psql().
		Update(donorTableName).
		Set("history", sq.Expr("array_append(history, ?)", entry)).
		Set("updated_at", now).
		Where(sq.Eq{"id": donorID})
}

func prepareDonorForCreate(donor *types.Donor, now time.Time) {
	if donor.ID == "" {
		donor.ID = utils.NanoID()
	}
	donor.CreatedAt = now
	donor.UpdatedAt = now

	if strings.TrimSpace(donor.Status) == "" {
		donor.Status = types.DefaultDonorStatus
	}

	if donor.History == nil {
		donor.History = []string{}
	}
}
