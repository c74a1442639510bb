package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

const sessionColumns = `s.id, s.profile_id, s.workout_id, w.name, s.started_at, s.ended_at, s.notes`

func scanSession(row pgx.Row, s *models.Session) error {
	return row.Scan(&s.ID, &s.ProfileID, &s.WorkoutID, &s.WorkoutName, &s.StartedAt, &s.EndedAt, &s.Notes)
}

// CreateSession starts a session. A zero StartedAt means now.
func (db *DB) CreateSession(ctx context.Context, s models.Session) (*models.Session, error) {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (profile_id, workout_id, started_at, notes)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		s.ProfileID, s.WorkoutID, s.StartedAt, s.Notes,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", translate(err))
	}
	return db.getSessionRow(ctx, s.ID)
}

func (db *DB) getSessionRow(ctx context.Context, id int) (*models.Session, error) {
	var s models.Session
	err := scanSession(db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions s
		 LEFT JOIN workouts w ON s.workout_id = w.id
		 WHERE s.id = $1`, id), &s)
	if err != nil {
		return nil, fmt.Errorf("querying session %d: %w", id, translate(err))
	}
	return &s, nil
}

// GetSession returns a session with its sets ordered by exercise and set number.
func (db *DB) GetSession(ctx context.Context, id int) (*models.Session, error) {
	s, err := db.getSessionRow(ctx, id)
	if err != nil {
		return nil, err
	}
	sets, err := db.ListSessionSets(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Sets = sets
	return s, nil
}

// ListSessionSets returns the logged sets of a session.
func (db *DB) ListSessionSets(ctx context.Context, sessionID int) ([]models.SessionSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, exercise_id, set_number, actual_reps, actual_weight::float8, rir
		 FROM session_sets
		 WHERE session_id = $1
		 ORDER BY exercise_id, set_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	result := []models.SessionSet{}
	for rows.Next() {
		var ss models.SessionSet
		if err := rows.Scan(&ss.ID, &ss.SessionID, &ss.ExerciseID, &ss.SetNumber,
			&ss.ActualReps, &ss.ActualWeight, &ss.RIR); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		result = append(result, ss)
	}
	return result, rows.Err()
}

// ListSessions returns a profile's sessions started within [from, to], newest first.
func (db *DB) ListSessions(ctx context.Context, profileID int, from, to time.Time) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions s
		 LEFT JOIN workouts w ON s.workout_id = w.id
		 WHERE s.profile_id = $1 AND s.started_at BETWEEN $2 AND $3
		 ORDER BY s.started_at DESC`,
		profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// FinishSession stamps ended_at and replaces the notes.
func (db *DB) FinishSession(ctx context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE sessions SET ended_at = $2, notes = $3, updated_at = NOW() WHERE id = $1`,
		id, endedAt, notes)
	if err != nil {
		return nil, fmt.Errorf("finishing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("finishing session %d: %w", id, ErrNotFound)
	}
	return db.getSessionRow(ctx, id)
}

// FindSession returns the latest session a profile logged for a workout, or nil.
// When scheduledFor is non-zero only sessions started on that UTC date match.
func (db *DB) FindSession(ctx context.Context, profileID, workoutID int, scheduledFor time.Time) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + `
		 FROM sessions s
		 LEFT JOIN workouts w ON s.workout_id = w.id
		 WHERE s.profile_id = $1 AND s.workout_id = $2`
	args := []any{profileID, workoutID}
	if !scheduledFor.IsZero() {
		query += ` AND (s.started_at AT TIME ZONE 'UTC')::date = $3`
		args = append(args, scheduledFor)
	}
	query += ` ORDER BY s.started_at DESC LIMIT 1`

	var s models.Session
	if err := scanSession(db.Pool.QueryRow(ctx, query, args...), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	return db.GetSession(ctx, s.ID)
}

// UpsertSessionSets saves sets keyed by (session, exercise, set_number): existing
// rows are updated, new ones inserted. Any failure rolls back the whole batch.
func (db *DB) UpsertSessionSets(ctx context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error) {
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		for _, ss := range sets {
			tag, err := tx.Exec(ctx,
				`UPDATE session_sets
				 SET actual_reps = $4, actual_weight = $5, rir = $6, updated_at = NOW()
				 WHERE session_id = $1 AND exercise_id = $2 AND set_number = $3`,
				sessionID, ss.ExerciseID, ss.SetNumber, ss.ActualReps, ss.ActualWeight, ss.RIR)
			if err != nil {
				return fmt.Errorf("updating set %d/%d: %w", ss.ExerciseID, ss.SetNumber, translate(err))
			}
			if tag.RowsAffected() > 0 {
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO session_sets (session_id, exercise_id, set_number, actual_reps, actual_weight, rir)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				sessionID, ss.ExerciseID, ss.SetNumber, ss.ActualReps, ss.ActualWeight, ss.RIR); err != nil {
				return fmt.Errorf("inserting set %d/%d: %w", ss.ExerciseID, ss.SetNumber, translate(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.ListSessionSets(ctx, sessionID)
}

// FindSessionAt returns the profile's session that started exactly at startedAt, or nil.
func (db *DB) FindSessionAt(ctx context.Context, profileID int, startedAt time.Time) (*models.Session, error) {
	var s models.Session
	err := scanSession(db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions s
		 LEFT JOIN workouts w ON s.workout_id = w.id
		 WHERE s.profile_id = $1 AND s.started_at = $2
		 ORDER BY s.id LIMIT 1`,
		profileID, startedAt), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up session at %s: %w", startedAt.Format(time.RFC3339), err)
	}
	return &s, nil
}
