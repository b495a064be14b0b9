package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugsim/backend/libs/db"
	"plugsim/backend/services/generator/internal/dataset"
)

func newSQLiteRepo(t *testing.T) *DatasetRepository {
	t.Helper()
	conn, driver, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo := NewDatasetRepository(conn, driver)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestInsertDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	ds := dataset.New("")
	ds.Append("2022-01-01", "00:00", [3]float64{0, 0, 0})
	ds.Append("2022-01-01", "12:00", [3]float64{31.5, 60.25, 70})

	require.NoError(t, repo.InsertDataset(ctx, "run-a", ds))
	require.NoError(t, repo.InsertDataset(ctx, "run-b", ds))

	n, err := repo.CountRows(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := repo.exportedRows(ctx, "run-b")
	require.NoError(t, err)
	assert.Equal(t, ds.Rows(), rows)
}

func TestInsertDatasetRollsBackOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	ds := dataset.New("")
	ds.Append("2022-01-01", "00:00", [3]float64{1, 2, 3})
	require.NoError(t, repo.InsertDataset(ctx, "run", ds))

	ds.Append("2022-01-01", "00:15", [3]float64{4, 5, 6})
	require.Error(t, repo.InsertDataset(ctx, "run", ds))

	n, err := repo.CountRows(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRebind(t *testing.T) {
	pg := NewDatasetRepository(nil, db.DriverPostgres)
	assert.Equal(t, "VALUES ($1, $2)", pg.rebind("VALUES (?, ?)"))

	lite := NewDatasetRepository(nil, db.DriverSQLite)
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}
