package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

const dateLayout = "2006-01-02"

// DayPlan lists the workouts scheduled on one date.
type DayPlan struct {
	Date     string           `json:"date"`
	Workouts []models.Workout `json:"workouts"`
}

// WeekPlan is seven consecutive days of scheduled workouts.
type WeekPlan struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  []DayPlan `json:"days"`
}

// CreateWorkout inserts a workout with its exercises and prescriptions in a
// single transaction and returns the stored workout.
func (db *DB) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	scheduled, err := time.Parse(dateLayout, w.ScheduledFor)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled_for: %w", err)
	}

	err = db.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO workouts (profile_id, name, scheduled_for) VALUES ($1, $2, $3) RETURNING id`,
			w.ProfileID, w.Name, scheduled,
		).Scan(&w.ID); err != nil {
			return fmt.Errorf("inserting workout: %w", translate(err))
		}

		for i := range w.Exercises {
			we := &w.Exercises[i]
			if err := tx.QueryRow(ctx,
				`INSERT INTO workout_exercises (workout_id, exercise_id, order_index) VALUES ($1, $2, $3) RETURNING id`,
				w.ID, we.ExerciseID, we.OrderIndex,
			).Scan(&we.ID); err != nil {
				return fmt.Errorf("inserting workout exercise: %w", translate(err))
			}

			for j := range we.Prescriptions {
				p := &we.Prescriptions[j]
				if err := tx.QueryRow(ctx,
					`INSERT INTO prescriptions (workout_exercise_id, set_number, target_reps, target_weight, rir, tempo)
					 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
					we.ID, p.SetNumber, p.TargetReps, p.TargetWeight, p.RIR, p.Tempo,
				).Scan(&p.ID); err != nil {
					return fmt.Errorf("inserting prescription: %w", translate(err))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetWorkout(ctx, w.ID)
}

// GetWorkout returns a workout with exercises ordered by order_index and
// prescriptions ordered by set number.
func (db *DB) GetWorkout(ctx context.Context, id int) (*models.Workout, error) {
	var w models.Workout
	var scheduled time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT id, profile_id, name, scheduled_for FROM workouts WHERE id = $1`, id,
	).Scan(&w.ID, &w.ProfileID, &w.Name, &scheduled)
	if err != nil {
		return nil, fmt.Errorf("querying workout %d: %w", id, translate(err))
	}
	w.ScheduledFor = scheduled.Format(dateLayout)

	rows, err := db.Pool.Query(ctx, planSelect+`
		 WHERE w.id = $1
		 ORDER BY we.order_index, we.id, p.set_number`, id)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	workouts, _, err := scanPlanRows(rows)
	if err != nil {
		return nil, err
	}
	w.Exercises = []models.WorkoutExercise{}
	if len(workouts) == 1 {
		w.Exercises = workouts[0].Exercises
	}
	return &w, nil
}

// WeekPlan returns the workouts a profile has scheduled over the seven days
// starting at start.
func (db *DB) WeekPlan(ctx context.Context, profileID int, start time.Time) (*WeekPlan, error) {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	rows, err := db.Pool.Query(ctx, planSelect+`
		 WHERE w.profile_id = $1 AND w.scheduled_for BETWEEN $2 AND $3
		 ORDER BY w.scheduled_for, w.id, we.order_index, we.id, p.set_number`,
		profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying week plan: %w", err)
	}
	defer rows.Close()

	workouts, _, err := scanPlanRows(rows)
	if err != nil {
		return nil, err
	}

	plan := &WeekPlan{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
		Days:  make([]DayPlan, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		day := DayPlan{Date: date, Workouts: []models.Workout{}}
		for _, w := range workouts {
			if w.ScheduledFor == date {
				day.Workouts = append(day.Workouts, w)
			}
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}

// planSelect flattens workouts → exercises → prescriptions into one row per
// prescription; exercises without prescriptions still produce a row.
const planSelect = `SELECT w.id, w.profile_id, w.name, w.scheduled_for,
		        we.id, we.order_index,
		        e.id, e.name, e.muscle_group, e.is_compound,
		        p.id, p.set_number, p.target_reps, p.target_weight::float8, p.rir, p.tempo
		 FROM workouts w
		 LEFT JOIN workout_exercises we ON we.workout_id = w.id
		 LEFT JOIN exercises e ON we.exercise_id = e.id
		 LEFT JOIN prescriptions p ON p.workout_exercise_id = we.id`

// scanPlanRows folds planSelect rows back into nested workouts, preserving row order.
func scanPlanRows(rows pgx.Rows) ([]models.Workout, int, error) {
	var workouts []models.Workout
	workoutIdx := make(map[int]int)
	exerciseIdx := make(map[int]int)
	n := 0

	for rows.Next() {
		n++
		var (
			wID, profileID int
			wName          string
			scheduled      time.Time
			weID, order    *int
			eID            *int
			eName, muscle  *string
			compound       *bool
			pID, setNumber *int
			targetReps     *int
			targetWeight   *float64
			rir            *int
			tempo          *string
		)
		if err := rows.Scan(&wID, &profileID, &wName, &scheduled,
			&weID, &order, &eID, &eName, &muscle, &compound,
			&pID, &setNumber, &targetReps, &targetWeight, &rir, &tempo); err != nil {
			return nil, 0, fmt.Errorf("scanning plan row: %w", err)
		}

		wi, ok := workoutIdx[wID]
		if !ok {
			workouts = append(workouts, models.Workout{
				ID:           wID,
				ProfileID:    profileID,
				Name:         wName,
				ScheduledFor: scheduled.Format(dateLayout),
				Exercises:    []models.WorkoutExercise{},
			})
			wi = len(workouts) - 1
			workoutIdx[wID] = wi
		}
		if weID == nil {
			continue
		}

		ei, ok := exerciseIdx[*weID]
		if !ok {
			we := models.WorkoutExercise{
				ID:            *weID,
				OrderIndex:    deref(order),
				ExerciseID:    deref(eID),
				Prescriptions: []models.Prescription{},
			}
			if eName != nil {
				we.Name = *eName
			}
			if muscle != nil {
				we.MuscleGroup = *muscle
			}
			if compound != nil {
				we.IsCompound = *compound
			}
			workouts[wi].Exercises = append(workouts[wi].Exercises, we)
			ei = len(workouts[wi].Exercises) - 1
			exerciseIdx[*weID] = ei
		}
		if pID == nil {
			continue
		}

		p := models.Prescription{
			ID:         *pID,
			SetNumber:  deref(setNumber),
			TargetReps: deref(targetReps),
			RIR:        rir,
			Tempo:      tempo,
		}
		if targetWeight != nil {
			p.TargetWeight = *targetWeight
		}
		workouts[wi].Exercises[ei].Prescriptions = append(workouts[wi].Exercises[ei].Prescriptions, p)
	}
	return workouts, n, rows.Err()
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
