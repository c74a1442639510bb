// Package importer loads workout history exported from other apps into
// LiftLog sessions.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Store is the persistence an import needs. *storage.DB implements it.
type Store interface {
	EnsureProfile(ctx context.Context, name string) (int, error)
	EnsureExercises(ctx context.Context, catalog []models.Exercise) (map[string]int, error)
	FindSessionAt(ctx context.Context, profileID int, startedAt time.Time) (*models.Session, error)
	CreateSession(ctx context.Context, s models.Session) (*models.Session, error)
	UpsertSessionSets(ctx context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error)
	FinishSession(ctx context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error)
	RecordImportRun(ctx context.Context, run models.ImportRun) (*models.ImportRun, error)
}

// SourceAlpha tags runs read from Alpha Progression exports.
const SourceAlpha = "alpha_progression"

// Options control how an export is mapped onto a profile.
type Options struct {
	Profile  string
	Location *time.Location
	// Warmups keeps warmup sets. They are numbered after the working sets.
	Warmups bool
	DryRun  bool
}

// Stats counts what an import touched.
type Stats struct {
	RunID           string
	SessionsRead    int
	SessionsCreated int
	SessionsUpdated int
	SetsSaved       int
	WarmupsSkipped  int
	NewExercises    []string
}

// Importer writes parsed sessions through a Store.
type Importer struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// ImportAlpha reads an Alpha Progression CSV export and saves every session
// for opts.Profile. Sessions are keyed by their start time, so importing the
// same export twice updates sets in place instead of duplicating them.
func (imp *Importer) ImportAlpha(ctx context.Context, r io.Reader, opts Options) (*Stats, error) {
	if strings.TrimSpace(opts.Profile) == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	sessions, err := ParseAlpha(r, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	started := time.Now()
	st := &Stats{RunID: uuid.NewString(), SessionsRead: len(sessions)}
	log := imp.log.With("run_id", st.RunID, "profile", opts.Profile)
	log.Info("import started", "sessions", len(sessions), "dry_run", opts.DryRun)

	if opts.DryRun {
		for _, s := range sessions {
			sets, skipped := flatten(s, nil, opts.Warmups)
			st.SetsSaved += len(sets)
			st.WarmupsSkipped += skipped
		}
		return st, nil
	}

	profileID, err := imp.store.EnsureProfile(ctx, opts.Profile)
	if err != nil {
		return nil, err
	}

	before, err := imp.store.EnsureExercises(ctx, nil)
	if err != nil {
		return nil, err
	}
	catalog := exercisesOf(sessions)
	exerciseIDs, err := imp.store.EnsureExercises(ctx, catalog)
	if err != nil {
		return nil, err
	}
	for _, e := range catalog {
		if _, ok := before[e.Name]; !ok {
			st.NewExercises = append(st.NewExercises, e.Name)
		}
	}

	err = imp.saveSessions(ctx, log, profileID, sessions, exerciseIDs, opts, st)
	imp.record(log, profileID, st, time.Since(started), err)
	if err != nil {
		return st, err
	}

	log.Info("import finished",
		"created", st.SessionsCreated, "updated", st.SessionsUpdated,
		"sets", st.SetsSaved, "new_exercises", len(st.NewExercises))
	return st, nil
}

func (imp *Importer) saveSessions(ctx context.Context, log *slog.Logger, profileID int, sessions []LoggedSession, exerciseIDs map[string]int, opts Options, st *Stats) error {
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := imp.saveSession(ctx, log, profileID, s, exerciseIDs, opts, st); err != nil {
			return fmt.Errorf("session %q at %s: %w", s.Name, s.StartedAt.Format("2006-01-02 15:04"), err)
		}
	}
	return nil
}

// record writes the run to the import history. A failure here is logged and
// never masks the import's own result.
func (imp *Importer) record(log *slog.Logger, profileID int, st *Stats, took time.Duration, importErr error) {
	run := models.ImportRun{
		RunID:           st.RunID,
		ProfileID:       profileID,
		Source:          SourceAlpha,
		Status:          "success",
		SessionsRead:    st.SessionsRead,
		SessionsCreated: st.SessionsCreated,
		SessionsUpdated: st.SessionsUpdated,
		SetsSaved:       st.SetsSaved,
		DurationMs:      int(took.Milliseconds()),
	}
	if importErr != nil {
		msg := importErr.Error()
		run.Status = "error"
		run.Error = &msg
	}
	// Recorded even when ctx was cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := imp.store.RecordImportRun(ctx, run); err != nil {
		log.Warn("recording import run failed", "error", err)
	}
}

func (imp *Importer) saveSession(ctx context.Context, log *slog.Logger, profileID int, s LoggedSession, exerciseIDs map[string]int, opts Options, st *Stats) error {
	startedAt := s.StartedAt.UTC()
	existing, err := imp.store.FindSessionAt(ctx, profileID, startedAt)
	if err != nil {
		return err
	}
	sessionID := 0
	if existing != nil {
		sessionID = existing.ID
		st.SessionsUpdated++
	} else {
		created, err := imp.store.CreateSession(ctx, models.Session{ProfileID: profileID, StartedAt: startedAt})
		if err != nil {
			return err
		}
		sessionID = created.ID
		st.SessionsCreated++
	}

	sets, skipped := flatten(s, exerciseIDs, opts.Warmups)
	st.WarmupsSkipped += skipped
	if len(sets) > 0 {
		if _, err := imp.store.UpsertSessionSets(ctx, sessionID, sets); err != nil {
			return err
		}
		st.SetsSaved += len(sets)
	}

	notes := s.Name
	if _, err := imp.store.FinishSession(ctx, sessionID, startedAt.Add(s.Duration), &notes); err != nil {
		return err
	}
	log.Debug("session imported", "session_id", sessionID, "sets", len(sets))
	return nil
}

// flatten turns a session's exercise blocks into session sets. Warmups are
// dropped unless keep is set, in which case they follow the working sets.
func flatten(s LoggedSession, exerciseIDs map[string]int, keep bool) ([]models.SessionSet, int) {
	var out []models.SessionSet
	skipped := 0
	for _, ex := range s.Exercises {
		var working, warmups []LoggedSet
		for _, set := range ex.Sets {
			if set.Warmup {
				warmups = append(warmups, set)
			} else {
				working = append(working, set)
			}
		}
		if !keep {
			skipped += len(warmups)
			warmups = nil
		}

		n := 0
		for _, set := range append(working, warmups...) {
			n++
			reps, weight := set.Reps, set.Weight
			out = append(out, models.SessionSet{
				ExerciseID:   exerciseIDs[ex.Name],
				SetNumber:    n,
				ActualReps:   &reps,
				ActualWeight: &weight,
				RIR:          set.RIR,
			})
		}
	}
	return out, skipped
}

// exercisesOf lists each exercise in the export once, in first-seen order.
func exercisesOf(sessions []LoggedSession) []models.Exercise {
	seen := map[string]bool{}
	var out []models.Exercise
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			if seen[ex.Name] {
				continue
			}
			seen[ex.Name] = true
			e := models.Exercise{Name: ex.Name, MuscleGroup: GuessMuscleGroup(ex.Name)}
			if ex.Equipment != "" {
				equipment := ex.Equipment
				e.Equipment = &equipment
			}
			out = append(out, e)
		}
	}
	return out
}

// muscleKeywords maps name fragments to muscle groups, most specific first.
var muscleKeywords = []struct {
	keyword string
	group   string
}{
	{"calf", "Calves"},
	{"leg curl", "Hamstrings"},
	{"romanian", "Hamstrings"},
	{"deadlift", "Hamstrings"},
	{"hyperextension", "Hamstrings"},
	{"leg extension", "Quads"},
	{"hip thrust", "Glutes"},
	{"glute", "Glutes"},
	{"squat", "Legs"},
	{"lunge", "Legs"},
	{"leg press", "Legs"},
	{"leg raise", "Abs"},
	{"crunch", "Abs"},
	{"face pull", "Upper Back"},
	{"shrug", "Upper Back"},
	{"lateral raise", "Shoulders"},
	{"overhead press", "Shoulders"},
	{"shoulder", "Shoulders"},
	{"triceps", "Triceps"},
	{"pushdown", "Triceps"},
	{"skull", "Triceps"},
	{"dip", "Triceps"},
	{"curl", "Biceps"},
	{"bench", "Chest"},
	{"chest", "Chest"},
	{"fly", "Chest"},
	{"push-up", "Chest"},
	{"row", "Back"},
	{"pulldown", "Back"},
	{"pull-up", "Back"},
	{"chin-up", "Back"},
}

// GuessMuscleGroup picks a muscle group for an exercise that is not in the
// catalog yet. Unmatched names fall back to "Other".
func GuessMuscleGroup(name string) string {
	lower := strings.ToLower(name)
	for _, k := range muscleKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.group
		}
	}
	return "Other"
}
