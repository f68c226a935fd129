package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const propertiesSchema = `
CREATE TABLE IF NOT EXISTS properties (
	id           TEXT PRIMARY KEY,
	city         TEXT NOT NULL DEFAULT '',
	neighborhood TEXT NOT NULL DEFAULT '',
	record       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_properties_city ON properties (city);
CREATE INDEX IF NOT EXISTS idx_properties_neighborhood ON properties (neighborhood);
CREATE INDEX IF NOT EXISTS idx_properties_updated_at ON properties (updated_at DESC);
`

// EnsureSchema creates the properties table and indexes if missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, propertiesSchema); err != nil {
		return fmt.Errorf("ensure properties schema: %w", err)
	}
	return nil
}
