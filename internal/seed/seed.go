// Package seed loads the demo exercise catalog, weekly plan and sample
// sessions. Running it twice leaves the database unchanged.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

const (
	dateLayout   = "2006-01-02"
	sampleNotes  = "Sample session for charts"
	unitsKey     = "units"
	defaultUnits = "lbs"
)

// Store is the persistence the seeder needs. *storage.DB implements it.
type Store interface {
	EnsureProfile(ctx context.Context, name string) (int, error)
	EnsureExercises(ctx context.Context, catalog []models.Exercise) (map[string]int, error)
	EnsureSetting(ctx context.Context, key, value string) error
	WeekPlan(ctx context.Context, profileID int, start time.Time) (*storage.WeekPlan, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	FindSession(ctx context.Context, profileID, workoutID int, scheduledFor time.Time) (*models.Session, error)
	CreateSession(ctx context.Context, s models.Session) (*models.Session, error)
	UpsertSessionSets(ctx context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error)
	FinishSession(ctx context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error)
}

// Result counts what a run created.
type Result struct {
	Profiles  int
	Exercises int
	Workouts  int
	Sessions  int
}

// Seeder plans the current ISO week for every demo profile.
type Seeder struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store Store, log *slog.Logger) *Seeder {
	return &Seeder{store: store, log: log, now: time.Now}
}

// SetClock overrides the clock that picks the week to plan.
func (s *Seeder) SetClock(now func() time.Time) {
	s.now = now
}

// Run seeds profiles, exercises, this week's plan, one sample session per
// profile and the units setting.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	exerciseIDs, err := s.store.EnsureExercises(ctx, Catalog)
	if err != nil {
		return nil, err
	}
	res.Exercises = len(exerciseIDs)

	weekStart := stats.StartOfISOWeek(s.now())
	for _, name := range Profiles {
		profileID, err := s.store.EnsureProfile(ctx, name)
		if err != nil {
			return nil, err
		}
		res.Profiles++

		created, err := s.seedWeekPlan(ctx, profileID, name, exerciseIDs, weekStart)
		if err != nil {
			return nil, fmt.Errorf("seeding plan for %s: %w", name, err)
		}
		res.Workouts += created

		ok, err := s.seedSampleSession(ctx, profileID, weekStart)
		if err != nil {
			return nil, fmt.Errorf("seeding sample session for %s: %w", name, err)
		}
		if ok {
			res.Sessions++
		}
	}

	if err := s.store.EnsureSetting(ctx, unitsKey, defaultUnits); err != nil {
		return nil, err
	}

	s.log.Info("seed complete",
		"week_start", weekStart.Format(dateLayout),
		"profiles", res.Profiles,
		"exercises", res.Exercises,
		"workouts_created", res.Workouts,
		"sessions_created", res.Sessions,
	)
	return res, nil
}

// seedWeekPlan creates every template missing from the week and returns how many it created.
func (s *Seeder) seedWeekPlan(ctx context.Context, profileID int, profileName string, exerciseIDs map[string]int, weekStart time.Time) (int, error) {
	plan, err := s.store.WeekPlan(ctx, profileID, weekStart)
	if err != nil {
		return 0, err
	}
	existing := make(map[string]bool)
	for _, day := range plan.Days {
		for _, w := range day.Workouts {
			existing[day.Date+"|"+w.Name] = true
		}
	}

	created := 0
	for _, tpl := range Templates {
		scheduledFor := weekStart.AddDate(0, 0, tpl.DayOffset).Format(dateLayout)
		if existing[scheduledFor+"|"+tpl.Name] {
			continue
		}
		w := BuildWorkout(tpl, profileID, profileName, exerciseIDs, scheduledFor)
		if _, err := s.store.CreateWorkout(ctx, w); err != nil {
			return created, fmt.Errorf("creating %s: %w", tpl.Name, err)
		}
		created++
	}
	return created, nil
}

// BuildWorkout expands a template into a workout with one prescription per set.
// Exercises missing from exerciseIDs are skipped.
func BuildWorkout(tpl Template, profileID int, profileName string, exerciseIDs map[string]int, scheduledFor string) models.Workout {
	w := models.Workout{
		ProfileID:    profileID,
		Name:         tpl.Name,
		ScheduledFor: scheduledFor,
		Exercises:    []models.WorkoutExercise{},
	}
	for _, ex := range tpl.Exercises {
		id, ok := exerciseIDs[ex.Name]
		if !ok {
			continue
		}
		weight, ok := WeightPresets[profileName][ex.Name]
		if !ok {
			weight = defaultWeight
		}
		we := models.WorkoutExercise{ExerciseID: id, OrderIndex: len(w.Exercises)}
		for set := 1; set <= ex.Sets; set++ {
			rir := ex.RIR
			we.Prescriptions = append(we.Prescriptions, models.Prescription{
				SetNumber:    set,
				TargetReps:   ex.Reps,
				TargetWeight: weight,
				RIR:          &rir,
			})
		}
		w.Exercises = append(w.Exercises, we)
	}
	return w
}

// seedSampleSession logs the Monday workout as fully completed, three days
// before the week starts, so the charts have data on a fresh install.
func (s *Seeder) seedSampleSession(ctx context.Context, profileID int, weekStart time.Time) (bool, error) {
	plan, err := s.store.WeekPlan(ctx, profileID, weekStart)
	if err != nil {
		return false, err
	}
	if len(plan.Days) == 0 || len(plan.Days[0].Workouts) == 0 {
		return false, nil
	}
	workout := plan.Days[0].Workouts[0]

	existing, err := s.store.FindSession(ctx, profileID, workout.ID, time.Time{})
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	day := weekStart.AddDate(0, 0, -3)
	startedAt := day.Add(17 * time.Hour)
	workoutID := workout.ID
	session, err := s.store.CreateSession(ctx, models.Session{
		ProfileID: profileID,
		WorkoutID: &workoutID,
		StartedAt: startedAt,
	})
	if err != nil {
		return false, err
	}

	var sets []models.SessionSet
	for _, we := range workout.Exercises {
		for _, p := range we.Prescriptions {
			reps, weight := p.TargetReps, p.TargetWeight
			sets = append(sets, models.SessionSet{
				SessionID:    session.ID,
				ExerciseID:   we.ExerciseID,
				SetNumber:    p.SetNumber,
				ActualReps:   &reps,
				ActualWeight: &weight,
			})
		}
	}
	if len(sets) > 0 {
		if _, err := s.store.UpsertSessionSets(ctx, session.ID, sets); err != nil {
			return false, err
		}
	}

	notes := sampleNotes
	if _, err := s.store.FinishSession(ctx, session.ID, startedAt.Add(time.Hour), &notes); err != nil {
		return false, err
	}
	return true, nil
}
