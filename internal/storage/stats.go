package storage

import (
	"context"
	"fmt"
	"time"
)

// completedSet restricts session_sets to rows where both reps and weight were logged.
const completedSet = `ss.actual_reps IS NOT NULL AND ss.actual_weight IS NOT NULL`

// epley is the Epley e1RM of a set. The numeric cast keeps reps/30 from
// collapsing to integer division.
const epley = `ss.actual_weight * (1 + ss.actual_reps::numeric / 30)`

// ExerciseE1RM is the best estimated one-rep max for an exercise in a window.
type ExerciseE1RM struct {
	ExerciseID   int     `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Value        float64 `json:"value"`
}

// ExerciseRef selects an exercise by id or by name. ID wins when both are set.
type ExerciseRef struct {
	ID   int
	Name string
}

// E1RMPoint is the best e1RM of one exercise on one calendar day (UTC).
type E1RMPoint struct {
	PerformedAt string  `json:"performed_at"`
	E1RM        float64 `json:"e1rm"`
}

// MuscleGroupSets counts completed sets for a muscle group.
type MuscleGroupSets struct {
	MuscleGroup string `json:"muscle_group"`
	Sets        int    `json:"sets"`
}

// WeeklyTonnage is the total tonnage of one ISO week.
type WeeklyTonnage struct {
	WeekStart string  `json:"week_start"`
	Tonnage   float64 `json:"tonnage"`
}

// SumTonnage returns Σ reps × weight over completed sets of sessions started in [start, end).
func (db *DB) SumTonnage(ctx context.Context, profileID int, start, end time.Time) (float64, error) {
	var tonnage float64
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(ss.actual_reps * ss.actual_weight), 0)::float8
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet,
		profileID, start, end,
	).Scan(&tonnage)
	if err != nil {
		return 0, fmt.Errorf("summing tonnage: %w", err)
	}
	return tonnage, nil
}

// CountCompletedSets counts completed sets of sessions started in [start, end).
func (db *DB) CountCompletedSets(ctx context.Context, profileID int, start, end time.Time) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*)::int
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet,
		profileID, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting completed sets: %w", err)
	}
	return n, nil
}

// CountPrescribedSets counts the prescriptions of the workouts behind sessions
// started in [start, end). Sessions without a workout prescribe nothing.
func (db *DB) CountPrescribedSets(ctx context.Context, profileID int, start, end time.Time) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(p.id)::int
		 FROM sessions s
		 JOIN workouts w ON s.workout_id = w.id
		 JOIN workout_exercises we ON we.workout_id = w.id
		 JOIN prescriptions p ON p.workout_exercise_id = we.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3`,
		profileID, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting prescribed sets: %w", err)
	}
	return n, nil
}

// TopE1RM returns up to limit exercises ranked by their best e1RM in the window.
// Ties are broken by exercise id so repeated calls return the same order.
func (db *DB) TopE1RM(ctx context.Context, profileID int, start, end time.Time, limit int) ([]ExerciseE1RM, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.name, MAX(`+epley+`)::float8 AS best_e1rm
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 JOIN exercises e ON ss.exercise_id = e.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet+`
		 GROUP BY e.id, e.name
		 ORDER BY best_e1rm DESC, e.id ASC
		 LIMIT $4`,
		profileID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top e1rm: %w", err)
	}
	defer rows.Close()

	result := []ExerciseE1RM{}
	for rows.Next() {
		var r ExerciseE1RM
		if err := rows.Scan(&r.ExerciseID, &r.ExerciseName, &r.Value); err != nil {
			return nil, fmt.Errorf("scanning top e1rm: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// E1RMSeries returns the daily best e1RM of one exercise, oldest day first.
func (db *DB) E1RMSeries(ctx context.Context, profileID int, ref ExerciseRef, start, end time.Time) ([]E1RMPoint, error) {
	filter := `ss.exercise_id = $4`
	var arg any = ref.ID
	if ref.ID <= 0 {
		filter = `ss.exercise_id = (SELECT id FROM exercises WHERE name = $4)`
		arg = ref.Name
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT (s.started_at AT TIME ZONE 'UTC')::date AS performed_at,
		        MAX(`+epley+`)::float8
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+filter+`
		   AND `+completedSet+`
		 GROUP BY performed_at
		 ORDER BY performed_at ASC`,
		profileID, start, end, arg)
	if err != nil {
		return nil, fmt.Errorf("querying e1rm series: %w", err)
	}
	defer rows.Close()

	result := []E1RMPoint{}
	for rows.Next() {
		var p E1RMPoint
		var d time.Time
		if err := rows.Scan(&d, &p.E1RM); err != nil {
			return nil, fmt.Errorf("scanning e1rm point: %w", err)
		}
		p.PerformedAt = d.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}

// CompletedSetsByMuscle counts completed sets per muscle group, largest first.
func (db *DB) CompletedSetsByMuscle(ctx context.Context, profileID int, start, end time.Time) ([]MuscleGroupSets, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.muscle_group, COUNT(*)::int AS completed_sets
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 JOIN exercises e ON ss.exercise_id = e.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet+`
		 GROUP BY e.muscle_group
		 ORDER BY completed_sets DESC, e.muscle_group ASC`,
		profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sets per muscle: %w", err)
	}
	defer rows.Close()

	result := []MuscleGroupSets{}
	for rows.Next() {
		var m MuscleGroupSets
		if err := rows.Scan(&m.MuscleGroup, &m.Sets); err != nil {
			return nil, fmt.Errorf("scanning sets per muscle: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// CompletedReps returns the rep count of every completed set in the window.
func (db *DB) CompletedReps(ctx context.Context, profileID int, start, end time.Time) ([]int, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ss.actual_reps
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet,
		profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying completed reps: %w", err)
	}
	defer rows.Close()

	var result []int
	for rows.Next() {
		var reps int
		if err := rows.Scan(&reps); err != nil {
			return nil, fmt.Errorf("scanning completed reps: %w", err)
		}
		result = append(result, reps)
	}
	return result, rows.Err()
}

// WeeklyTonnage returns tonnage per ISO week (Monday start, UTC). Weeks without
// completed sets are absent.
func (db *DB) WeeklyTonnage(ctx context.Context, profileID int, start, end time.Time) ([]WeeklyTonnage, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc('week', s.started_at AT TIME ZONE 'UTC')::date AS week_start,
		        SUM(ss.actual_reps * ss.actual_weight)::float8
		 FROM session_sets ss
		 JOIN sessions s ON ss.session_id = s.id
		 WHERE s.profile_id = $1 AND s.started_at >= $2 AND s.started_at < $3
		   AND `+completedSet+`
		 GROUP BY week_start
		 ORDER BY week_start ASC`,
		profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying weekly tonnage: %w", err)
	}
	defer rows.Close()

	result := []WeeklyTonnage{}
	for rows.Next() {
		var w WeeklyTonnage
		var d time.Time
		if err := rows.Scan(&d, &w.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning weekly tonnage: %w", err)
		}
		w.WeekStart = d.Format("2006-01-02")
		result = append(result, w)
	}
	return result, rows.Err()
}
