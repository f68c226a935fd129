package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/persistence"
)

func newMockRepo(t *testing.T) (persistence.PropertiesRepo, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewPropertiesRepo(db, 5*time.Second), mock
}

func TestPropertiesRepo_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)
	record := domain.SampleRecord("prop123", "Mission District")
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
		WithArgs("prop123", "San Francisco", "Mission District", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	stored, err := repo.Insert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "prop123", stored.ID)
	assert.Equal(t, "San Francisco", stored.City)
	assert.Equal(t, "Mission District", stored.Neighborhood)
	assert.Equal(t, now, stored.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertiesRepo_Insert_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	record := domain.SampleRecord("prop123", "Mission District")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Insert(context.Background(), record)
	assert.ErrorIs(t, err, persistence.ErrDuplicate)
}

func TestPropertiesRepo_Upsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	record := domain.SampleRecord("prop123", "Mission District")
	created := time.Now().Add(-time.Hour)
	updated := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs("prop123", "San Francisco", "Mission District", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	stored, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, updated, stored.UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertiesRepo_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	record := domain.SampleRecord("prop123", "Mission District")
	recordJSON, err := json.Marshal(record)
	require.NoError(t, err)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "city", "neighborhood", "record", "created_at", "updated_at"}).
		AddRow("prop123", "San Francisco", "Mission District", recordJSON, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).
		WithArgs("prop123").
		WillReturnRows(rows)

	stored, err := repo.Get(context.Background(), "prop123")
	require.NoError(t, err)
	assert.Equal(t, "prop123", stored.Record.ID)
	require.NotNil(t, stored.Record.Location)
	assert.Equal(t, 85.0, stored.Record.Location.WalkabilityScore)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertiesRepo_Get_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "city", "neighborhood", "record", "created_at", "updated_at"}))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestPropertiesRepo_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	first, err := json.Marshal(domain.SampleRecord("prop1", "Mission District"))
	require.NoError(t, err)
	second, err := json.Marshal(domain.SampleRecord("prop2", "SoMa"))
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "city", "neighborhood", "record", "created_at", "updated_at"}).
		AddRow("prop1", "San Francisco", "Mission District", first, now, now).
		AddRow("prop2", "San Francisco", "SoMa", second, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM properties")).
		WithArgs("San Francisco", "", 100).
		WillReturnRows(rows)

	stored, err := repo.List(context.Background(), persistence.ListFilter{City: "San Francisco"})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "prop1", stored[0].ID)
	assert.Equal(t, "SoMa", stored[1].Neighborhood)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertiesRepo_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties")).
		WithArgs("prop123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "prop123"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}
