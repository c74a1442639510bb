// Package stats derives training statistics from logged sessions.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

var (
	// ErrProfileNotFound is returned when the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUnsupportedGranularity is returned for any volume granularity other than "week".
	ErrUnsupportedGranularity = errors.New("unsupported granularity")
	// ErrExerciseRequired is returned when neither an exercise id nor a name is given.
	ErrExerciseRequired = errors.New("exercise_id or exercise_name is required")
)

// topExercises is how many lifts the overview ranks.
const topExercises = 3

// Store is the read side the engine aggregates over. *storage.DB implements it.
type Store interface {
	GetProfile(ctx context.Context, id int) (*models.Profile, error)
	LastSessionAt(ctx context.Context, profileID int) (*time.Time, error)
	SumTonnage(ctx context.Context, profileID int, start, end time.Time) (float64, error)
	CountCompletedSets(ctx context.Context, profileID int, start, end time.Time) (int, error)
	CountPrescribedSets(ctx context.Context, profileID int, start, end time.Time) (int, error)
	TopE1RM(ctx context.Context, profileID int, start, end time.Time, limit int) ([]storage.ExerciseE1RM, error)
	E1RMSeries(ctx context.Context, profileID int, ref storage.ExerciseRef, start, end time.Time) ([]storage.E1RMPoint, error)
	CompletedSetsByMuscle(ctx context.Context, profileID int, start, end time.Time) ([]storage.MuscleGroupSets, error)
	CompletedReps(ctx context.Context, profileID int, start, end time.Time) ([]int, error)
	WeeklyTonnage(ctx context.Context, profileID int, start, end time.Time) ([]storage.WeeklyTonnage, error)
}

// Overview is the headline block of the stats dashboard.
type Overview struct {
	WindowWeeks         int                    `json:"window_weeks"`
	Tonnage             float64                `json:"tonnage"`
	AdherencePercentage *int                   `json:"adherence_percentage"`
	BestE1RM            *storage.ExerciseE1RM  `json:"best_e1rm"`
	TopExercises        []storage.ExerciseE1RM `json:"top_exercises"`
}

// Summary is the profile card shown on the home page.
type Summary struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	LastSessionAt       *time.Time `json:"last_session_at"`
	LastWeekTonnage     float64    `json:"last_week_tonnage"`
	AdherencePercentage *int       `json:"adherence_percentage"`
}

// Engine computes statistics. It holds no mutable state after construction
// and is safe for concurrent use.
type Engine struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// New creates an Engine. A zero timeout leaves query deadlines to the caller's context.
func New(store Store, timeout time.Duration, log *slog.Logger) *Engine {
	return &Engine{store: store, timeout: timeout, now: time.Now, log: log}
}

// SetClock replaces the clock used to resolve windows. Call before serving.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Epley returns weight × (1 + reps/30).
func Epley(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// Adherence returns completed/prescribed as a rounded percentage clamped to
// [0, 100], or nil when nothing was prescribed.
func Adherence(completed, prescribed int) *int {
	if prescribed <= 0 {
		return nil
	}
	pct := int(math.Round(float64(completed) / float64(prescribed) * 100))
	pct = max(0, min(pct, 100))
	return &pct
}

func (e *Engine) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Engine) ensureProfile(ctx context.Context, profileID int) (*models.Profile, error) {
	p, err := e.store.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("profile %d: %w", profileID, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// Overview returns tonnage, adherence and the top lifts over the last weeks ISO weeks.
func (e *Engine) Overview(ctx context.Context, profileID, weeks int) (*Overview, error) {
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())

	tonnage, err := e.store.SumTonnage(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	completed, err := e.store.CountCompletedSets(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	prescribed, err := e.store.CountPrescribedSets(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	top, err := e.store.TopE1RM(ctx, profileID, w.Start, w.Until(), topExercises)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []storage.ExerciseE1RM{}
	}

	o := &Overview{
		WindowWeeks:         w.Weeks,
		Tonnage:             tonnage,
		AdherencePercentage: Adherence(completed, prescribed),
		TopExercises:        top,
	}
	if len(top) > 0 {
		best := top[0]
		o.BestE1RM = &best
	}
	e.log.Debug("overview computed", "profile_id", profileID, "weeks", w.Weeks,
		"completed", completed, "prescribed", prescribed)
	return o, nil
}

// VolumeTrend returns weekly tonnage, oldest week first, omitting empty weeks.
// Only the "week" granularity is supported; an empty string means "week".
func (e *Engine) VolumeTrend(ctx context.Context, profileID, weeks int, granularity string) ([]storage.WeeklyTonnage, error) {
	if granularity != "" && granularity != "week" {
		return nil, fmt.Errorf("%q: %w", granularity, ErrUnsupportedGranularity)
	}
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())
	trend, err := e.store.WeeklyTonnage(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	if trend == nil {
		trend = []storage.WeeklyTonnage{}
	}
	return trend, nil
}

// E1RMProgression returns the daily best e1RM of one exercise, oldest day first.
func (e *Engine) E1RMProgression(ctx context.Context, profileID int, ref storage.ExerciseRef, weeks int) ([]storage.E1RMPoint, error) {
	if ref.ID <= 0 && ref.Name == "" {
		return nil, ErrExerciseRequired
	}
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())
	series, err := e.store.E1RMSeries(ctx, profileID, ref, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	if series == nil {
		series = []storage.E1RMPoint{}
	}
	return series, nil
}

// SetsPerMuscle counts completed sets per muscle group, largest first.
func (e *Engine) SetsPerMuscle(ctx context.Context, profileID, weeks int) ([]storage.MuscleGroupSets, error) {
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())
	groups, err := e.store.CompletedSetsByMuscle(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []storage.MuscleGroupSets{}
	}
	return groups, nil
}

// Intensity buckets completed sets by rep count. All four buckets are always returned.
func (e *Engine) Intensity(ctx context.Context, profileID, weeks int) ([]BucketCount, error) {
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())
	reps, err := e.store.CompletedReps(ctx, profileID, w.Start, w.Until())
	if err != nil {
		return nil, err
	}
	return Distribute(reps), nil
}

// Summary reports the last session and the rolling seven-day tonnage and adherence.
func (e *Engine) Summary(ctx context.Context, profileID int) (*Summary, error) {
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	p, err := e.ensureProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	end := e.now().UTC()
	start := end.AddDate(0, 0, -7)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	last, err := e.store.LastSessionAt(ctx, profileID)
	if err != nil {
		return nil, err
	}
	tonnage, err := e.store.SumTonnage(ctx, profileID, start, end)
	if err != nil {
		return nil, err
	}
	completed, err := e.store.CountCompletedSets(ctx, profileID, start, end)
	if err != nil {
		return nil, err
	}
	prescribed, err := e.store.CountPrescribedSets(ctx, profileID, start, end)
	if err != nil {
		return nil, err
	}

	return &Summary{
		ID:                  p.ID,
		Name:                p.Name,
		LastSessionAt:       last,
		LastWeekTonnage:     tonnage,
		AdherencePercentage: Adherence(completed, prescribed),
	}, nil
}
