package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// ListProfiles returns all profiles ordered by id.
func (db *DB) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, created_at FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	result := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProfile returns a profile by id, or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, id int) (*models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying profile %d: %w", id, translate(err))
	}
	return &p, nil
}

// EnsureProfile finds or creates a profile by name and returns its id.
func (db *DB) EnsureProfile(ctx context.Context, name string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = profiles.updated_at
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring profile %q: %w", name, err)
	}
	return id, nil
}

// LastSessionAt returns when the profile last trained: the latest ended_at,
// falling back to started_at for unfinished sessions. Nil when there are none.
func (db *DB) LastSessionAt(ctx context.Context, profileID int) (*time.Time, error) {
	var at *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(ended_at, started_at)
		 FROM sessions
		 WHERE profile_id = $1
		 ORDER BY ended_at DESC NULLS LAST, started_at DESC
		 LIMIT 1`, profileID,
	).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying last session: %w", err)
	}
	return at, nil
}
