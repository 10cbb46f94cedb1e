// Package postgres persists evaluation results.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hamlet/ports"
)

// ResultRepository stores run summaries and per-bin scores.
type ResultRepository struct {
	db *sqlx.DB
}

var _ ports.ResultSink = (*ResultRepository)(nil)

// NewResultRepository creates a repository over an open connection.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// EnsureSchema creates the result tables if they do not exist.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS eval_runs (
			run_id      TEXT PRIMARY KEY,
			method      TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			num_bins    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS eval_bin_scores (
			run_id           TEXT NOT NULL REFERENCES eval_runs(run_id),
			cell_id          TEXT NOT NULL,
			log_like         DOUBLE PRECISION,
			max_mag_exceeded BOOLEAN,
			PRIMARY KEY (run_id, cell_id)
		);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure result schema: %w", err)
	}
	return nil
}

// SaveRun persists one scored run in a single transaction.
func (r *ResultRepository) SaveRun(ctx context.Context, rec ports.RunRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO eval_runs (run_id, method, started_at, num_bins) VALUES ($1, $2, $3, $4)`,
		rec.RunID.String(), rec.Method, rec.StartedAt, rec.NumBins)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO eval_bin_scores (run_id, cell_id, log_like, max_mag_exceeded) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer stmt.Close()

	for _, score := range rec.Scores {
		var logLike interface{}
		if score.HasLogLike {
			logLike = score.LogLikelihood
		}
		var maxMag interface{}
		if score.HasMaxMagCheck {
			maxMag = score.MaxMagExceeded
		}
		if _, err := stmt.ExecContext(ctx, rec.RunID.String(), string(score.Cell), logLike, maxMag); err != nil {
			return fmt.Errorf("failed to insert score for cell %s: %w", score.Cell, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}
