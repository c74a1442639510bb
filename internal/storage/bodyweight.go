package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// UpsertBodyweight records the bodyweight of a profile for a day, replacing any earlier entry.
func (db *DB) UpsertBodyweight(ctx context.Context, profileID int, day time.Time, bodyweight float64) (*models.BodyweightLog, error) {
	var loggedAt time.Time
	var bw float64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO bodyweight_logs (profile_id, logged_at, bodyweight) VALUES ($1, $2, $3)
		 ON CONFLICT (profile_id, logged_at) DO UPDATE SET bodyweight = EXCLUDED.bodyweight, updated_at = NOW()
		 RETURNING logged_at, bodyweight::float8`,
		profileID, day, bodyweight,
	).Scan(&loggedAt, &bw)
	if err != nil {
		return nil, fmt.Errorf("upserting bodyweight: %w", translate(err))
	}
	return &models.BodyweightLog{ProfileID: profileID, LoggedAt: loggedAt.Format(dateLayout), Bodyweight: bw}, nil
}

// ListBodyweight returns entries logged within [from, to], oldest first.
func (db *DB) ListBodyweight(ctx context.Context, profileID int, from, to time.Time) ([]models.BodyweightLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT logged_at, bodyweight::float8 FROM bodyweight_logs
		 WHERE profile_id = $1 AND logged_at BETWEEN $2 AND $3
		 ORDER BY logged_at`,
		profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying bodyweight: %w", err)
	}
	defer rows.Close()

	result := []models.BodyweightLog{}
	for rows.Next() {
		var d time.Time
		entry := models.BodyweightLog{ProfileID: profileID}
		if err := rows.Scan(&d, &entry.Bodyweight); err != nil {
			return nil, fmt.Errorf("scanning bodyweight: %w", err)
		}
		entry.LoggedAt = d.Format(dateLayout)
		result = append(result, entry)
	}
	return result, rows.Err()
}
