package db

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaNameReg = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CreateSchema creates the schema and tables used by the application.
// Safe to call multiple times.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, schemaName string) error {
	ddl, err := SchemaDDL(schemaName)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func SchemaDDL(schemaName string) (string, error) {
	if !schemaNameReg.MatchString(schemaName) {
		return "", fmt.Errorf("invalid schema name %q", schemaName)
	}

	return fmt.Sprintf(schemaTemplate, schemaName), nil
}

const schemaTemplate = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

-- Donors
CREATE TABLE IF NOT EXISTS %[1]s.donors (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    blood_type TEXT NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    age INTEGER NOT NULL DEFAULT 0,
    country_code TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    email TEXT,
    location TEXT NOT NULL DEFAULT '',
    donation_frequency TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'Active Donor',
    history TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_donors_blood_type ON %[1]s.donors(blood_type);
CREATE INDEX IF NOT EXISTS idx_donors_contact ON %[1]s.donors(country_code, phone_number);

-- Blood requests
CREATE TABLE IF NOT EXISTS %[1]s.blood_requests (
    id TEXT PRIMARY KEY,
    blood_type TEXT NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 10),
    urgency TEXT NOT NULL,
    country_code TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    email TEXT,
    location TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
