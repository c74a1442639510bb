package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// ListExercises returns the exercise catalog ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, muscle_group, is_compound, equipment FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.IsCompound, &e.Equipment); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise returns an exercise by id, or ErrNotFound.
func (db *DB) GetExercise(ctx context.Context, id int) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, muscle_group, is_compound, equipment FROM exercises WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.IsCompound, &e.Equipment)
	if err != nil {
		return nil, fmt.Errorf("querying exercise %d: %w", id, translate(err))
	}
	return &e, nil
}

// CreateExercise inserts an exercise. A duplicate name yields ErrConflict.
func (db *DB) CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, muscle_group, is_compound, equipment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		e.Name, e.MuscleGroup, e.IsCompound, e.Equipment,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise %q: %w", e.Name, translate(err))
	}
	return &e, nil
}

// EnsureExercises inserts any catalog entries that are missing and returns
// the id of every catalog exercise keyed by name.
func (db *DB) EnsureExercises(ctx context.Context, catalog []models.Exercise) (map[string]int, error) {
	for _, e := range catalog {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO exercises (name, muscle_group, is_compound, equipment)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO NOTHING`,
			e.Name, e.MuscleGroup, e.IsCompound, e.Equipment)
		if err != nil {
			return nil, fmt.Errorf("ensuring exercise %q: %w", e.Name, err)
		}
	}

	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM exercises`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning exercise id: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}
