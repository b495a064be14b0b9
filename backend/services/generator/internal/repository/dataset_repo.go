package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"plugsim/backend/libs/db"
	"plugsim/backend/services/generator/internal/dataset"
)

const schema = `
	CREATE TABLE IF NOT EXISTS pv_production (
		run_id   TEXT NOT NULL,
		id       INTEGER NOT NULL,
		date     TEXT NOT NULL,
		time     TEXT NOT NULL,
		pwr_1min DOUBLE PRECISION NOT NULL,
		pwr_2min DOUBLE PRECISION NOT NULL,
		pwr_3min DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, id)
	)
`

// DatasetRepository exports generated datasets into the pv_production table.
type DatasetRepository struct {
	db     *sql.DB
	driver string
}

// NewDatasetRepository returns repository for a database opened with driver.
func NewDatasetRepository(conn *sql.DB, driver string) *DatasetRepository {
	return &DatasetRepository{db: conn, driver: driver}
}

// EnsureSchema creates the table when missing.
func (r *DatasetRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// InsertDataset stores every row of ds under runID in a single transaction.
func (r *DatasetRepository) InsertDataset(ctx context.Context, runID string, ds *dataset.Dataset) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, r.rebind(`
		INSERT INTO pv_production (run_id, id, date, time, pwr_1min, pwr_2min, pwr_3min)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range ds.Rows() {
		if _, err = stmt.ExecContext(ctx, runID, row.ID, row.Date, row.Time, row.Pwr1Min, row.Pwr2Min, row.Pwr3Min); err != nil {
			return fmt.Errorf("insert row %d: %w", row.ID, err)
		}
	}
	return tx.Commit()
}

// CountRows returns how many rows were exported for runID.
func (r *DatasetRepository) CountRows(ctx context.Context, runID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM pv_production WHERE run_id = ?`), runID).Scan(&n)
	return n, err
}

// exportedRows returns the stored rows of runID ordered by id.
func (r *DatasetRepository) exportedRows(ctx context.Context, runID string) ([]dataset.Row, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT id, date, time, pwr_1min, pwr_2min, pwr_3min
		FROM pv_production
		WHERE run_id = ?
		ORDER BY id
	`), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Row
	for rows.Next() {
		var row dataset.Row
		if err := rows.Scan(&row.ID, &row.Date, &row.Time, &row.Pwr1Min, &row.Pwr2Min, &row.Pwr3Min); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// rebind turns ? placeholders into $n for postgres.
func (r *DatasetRepository) rebind(query string) string {
	if r.driver != db.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
