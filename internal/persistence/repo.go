// Package persistence defines the storage contracts for property
// records. The postgres subpackage provides the production
// implementation.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/righthome/righthome/internal/domain"
)

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("property not found")

// ErrDuplicate is returned when inserting a property whose ID already
// exists.
var ErrDuplicate = errors.New("property already exists")

// StoredProperty is a persisted property record. City and Neighborhood
// are denormalized for listing queries; the full record lives in a
// JSONB column.
type StoredProperty struct {
	ID           string                `json:"id" db:"id"`
	City         string                `json:"city" db:"city"`
	Neighborhood string                `json:"neighborhood" db:"neighborhood"`
	Record       domain.PropertyRecord `json:"record" db:"-"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

// ListFilter narrows List queries. Zero values mean no constraint.
type ListFilter struct {
	City         string
	Neighborhood string
	Limit        int
}

// PropertiesRepo stores and retrieves property records.
type PropertiesRepo interface {
	Insert(ctx context.Context, record domain.PropertyRecord) (StoredProperty, error)
	Upsert(ctx context.Context, record domain.PropertyRecord) (StoredProperty, error)
	Get(ctx context.Context, id string) (StoredProperty, error)
	List(ctx context.Context, filter ListFilter) ([]StoredProperty, error)
	Delete(ctx context.Context, id string) error
}
