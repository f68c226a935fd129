package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/persistence"
)

// propertiesRepo implements PropertiesRepo for PostgreSQL.
type propertiesRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPropertiesRepo creates a PostgreSQL properties repository.
func NewPropertiesRepo(db *sqlx.DB, timeout time.Duration) persistence.PropertiesRepo {
	return &propertiesRepo{
		db:      db,
		timeout: timeout,
	}
}

// Insert adds a new property record. The full record is stored as
// JSONB alongside denormalized city and neighborhood columns.
func (r *propertiesRepo) Insert(ctx context.Context, record domain.PropertyRecord) (persistence.StoredProperty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return persistence.StoredProperty{}, fmt.Errorf("marshal property record: %w", err)
	}

	query := `
		INSERT INTO properties (id, city, neighborhood, record)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	stored := persistence.StoredProperty{
		ID:           record.ID,
		City:         record.City(),
		Neighborhood: record.Neighborhood(),
		Record:       record,
	}

	err = r.db.QueryRowxContext(ctx, query,
		record.ID, stored.City, stored.Neighborhood, recordJSON).
		Scan(&stored.CreatedAt, &stored.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return persistence.StoredProperty{}, fmt.Errorf("%w: %s", persistence.ErrDuplicate, record.ID)
		}
		return persistence.StoredProperty{}, fmt.Errorf("insert property: %w", err)
	}

	return stored, nil
}

// Upsert inserts a property record or replaces an existing one.
func (r *propertiesRepo) Upsert(ctx context.Context, record domain.PropertyRecord) (persistence.StoredProperty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return persistence.StoredProperty{}, fmt.Errorf("marshal property record: %w", err)
	}

	query := `
		INSERT INTO properties (id, city, neighborhood, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET city = EXCLUDED.city,
		    neighborhood = EXCLUDED.neighborhood,
		    record = EXCLUDED.record,
		    updated_at = now()
		RETURNING created_at, updated_at`

	stored := persistence.StoredProperty{
		ID:           record.ID,
		City:         record.City(),
		Neighborhood: record.Neighborhood(),
		Record:       record,
	}

	err = r.db.QueryRowxContext(ctx, query,
		record.ID, stored.City, stored.Neighborhood, recordJSON).
		Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return persistence.StoredProperty{}, fmt.Errorf("upsert property: %w", err)
	}

	return stored, nil
}

// Get retrieves a single property by ID.
func (r *propertiesRepo) Get(ctx context.Context, id string) (persistence.StoredProperty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, city, neighborhood, record, created_at, updated_at
		FROM properties
		WHERE id = $1`

	row := r.db.QueryRowxContext(ctx, query, id)
	stored, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.StoredProperty{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
		}
		return persistence.StoredProperty{}, fmt.Errorf("get property: %w", err)
	}

	return stored, nil
}

// List retrieves properties matching the filter, newest first.
func (r *propertiesRepo) List(ctx context.Context, filter persistence.ListFilter) ([]persistence.StoredProperty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, city, neighborhood, record, created_at, updated_at
		FROM properties
		WHERE ($1 = '' OR city = $1)
		  AND ($2 = '' OR neighborhood = $2)
		ORDER BY updated_at DESC
		LIMIT $3`

	rows, err := r.db.QueryxContext(ctx, query, filter.City, filter.Neighborhood, limit)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var result []persistence.StoredProperty
	for rows.Next() {
		stored, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		result = append(result, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}

	return result, nil
}

// Delete removes a property by ID.
func (r *propertiesRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (persistence.StoredProperty, error) {
	var stored persistence.StoredProperty
	var recordJSON []byte

	err := row.Scan(&stored.ID, &stored.City, &stored.Neighborhood,
		&recordJSON, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return persistence.StoredProperty{}, err
	}

	if err := json.Unmarshal(recordJSON, &stored.Record); err != nil {
		return persistence.StoredProperty{}, fmt.Errorf("unmarshal property record: %w", err)
	}

	return stored, nil
}
