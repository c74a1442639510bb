package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// RecordImportRun stores the outcome of an import and returns it with its id.
func (db *DB) RecordImportRun(ctx context.Context, run models.ImportRun) (*models.ImportRun, error) {
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_runs (run_id, profile_id, source, status, sessions_read,
		 sessions_created, sessions_updated, sets_saved, duration_ms, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		run.RunID, run.ProfileID, run.Source, run.Status, run.SessionsRead,
		run.SessionsCreated, run.SessionsUpdated, run.SetsSaved, run.DurationMs, run.Error,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting import run: %w", translate(err))
	}
	return &run, nil
}

// ListImportRuns returns a profile's most recent imports, newest first.
func (db *DB) ListImportRuns(ctx context.Context, profileID, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, run_id, profile_id, source, status, sessions_read, sessions_created,
		 sessions_updated, sets_saved, duration_ms, error_message, created_at
		 FROM import_runs
		 WHERE profile_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import runs: %w", err)
	}
	defer rows.Close()

	result := []models.ImportRun{}
	for rows.Next() {
		var r models.ImportRun
		if err := rows.Scan(&r.ID, &r.RunID, &r.ProfileID, &r.Source, &r.Status, &r.SessionsRead,
			&r.SessionsCreated, &r.SessionsUpdated, &r.SetsSaved, &r.DurationMs, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning import run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
