package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func count(ctx context.Context, pool *pgxpool.Pool, table string) (int, error) {
	query, args, err := psql().Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate count query for %s: %w", table, err)
	}

	var n int
	err = pool.QueryRow(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return n, nil
}
