package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

// memStore is an in-memory Store and stats.Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	pingErr    error
	profiles   map[int]models.Profile
	exercises  map[int]models.Exercise
	workouts   map[int]models.Workout
	sessions   map[int]models.Session
	settings   map[string]string
	bodyweight map[int][]models.BodyweightLog
	imports    map[int][]models.ImportRun
	nextID     int
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[int]models.Profile{
			1: {ID: 1, Name: "Male"},
			2: {ID: 2, Name: "Female"},
		},
		exercises: map[int]models.Exercise{
			1: {ID: 1, Name: "Squat", MuscleGroup: "legs", IsCompound: true},
			2: {ID: 2, Name: "Bench Press", MuscleGroup: "chest", IsCompound: true},
		},
		workouts:   map[int]models.Workout{},
		sessions:   map[int]models.Session{},
		settings:   map[string]string{},
		bodyweight: map[int][]models.BodyweightLog{},
		imports:    map[int][]models.ImportRun{},
		nextID:     100,
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) ListProfiles(context.Context) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Profile{}
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetProfile(_ context.Context, id int) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) WeekPlan(_ context.Context, profileID int, start time.Time) (*storage.WeekPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan := &storage.WeekPlan{
		Start: start.Format(dateLayout),
		End:   start.AddDate(0, 0, 6).Format(dateLayout),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		day := storage.DayPlan{Date: date, Workouts: []models.Workout{}}
		for _, w := range m.workouts {
			if w.ProfileID == profileID && w.ScheduledFor == date {
				day.Workouts = append(day.Workouts, w)
			}
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}

func (m *memStore) ListSessions(_ context.Context, profileID int, from, to time.Time) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Session{}
	for _, s := range m.sessions {
		if s.ProfileID == profileID && !s.StartedAt.Before(from) && !s.StartedAt.After(to) {
			s.Sets = nil
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (m *memStore) ListBodyweight(_ context.Context, profileID int, from, to time.Time) ([]models.BodyweightLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BodyweightLog{}
	for _, b := range m.bodyweight[profileID] {
		if b.LoggedAt >= from.Format(dateLayout) && b.LoggedAt <= to.Format(dateLayout) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) UpsertBodyweight(_ context.Context, profileID int, day time.Time, bw float64) (*models.BodyweightLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profileID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	entry := models.BodyweightLog{ProfileID: profileID, LoggedAt: day.Format(dateLayout), Bodyweight: bw}
	logs := m.bodyweight[profileID]
	for i := range logs {
		if logs[i].LoggedAt == entry.LoggedAt {
			logs[i] = entry
			return &entry, nil
		}
	}
	m.bodyweight[profileID] = append(logs, entry)
	return &entry, nil
}

func (m *memStore) ListImportRuns(_ context.Context, profileID, limit int) ([]models.ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := m.imports[profileID]
	out := []models.ImportRun{}
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

func (m *memStore) ListExercises(context.Context) ([]models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Exercise{}
	for _, e := range m.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetExercise(_ context.Context, id int) (*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) CreateExercise(_ context.Context, e models.Exercise) (*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.exercises {
		if existing.Name == e.Name {
			return nil, storage.ErrConflict
		}
	}
	e.ID = m.id()
	m.exercises[e.ID] = e
	return &e, nil
}

func (m *memStore) CreateWorkout(_ context.Context, w models.Workout) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[w.ProfileID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	for i := range w.Exercises {
		e, ok := m.exercises[w.Exercises[i].ExerciseID]
		if !ok {
			return nil, storage.ErrInvalidReference
		}
		w.Exercises[i].ID = m.id()
		w.Exercises[i].Name = e.Name
		w.Exercises[i].MuscleGroup = e.MuscleGroup
		for j := range w.Exercises[i].Prescriptions {
			w.Exercises[i].Prescriptions[j].ID = m.id()
		}
	}
	w.ID = m.id()
	m.workouts[w.ID] = w
	return &w, nil
}

func (m *memStore) GetWorkout(_ context.Context, id int) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func (m *memStore) CreateSession(_ context.Context, s models.Session) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[s.ProfileID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	s.ID = m.id()
	m.sessions[s.ID] = s
	return &s, nil
}

func (m *memStore) GetSession(_ context.Context, id int) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	s.Sets = sortedSets(s.Sets)
	return &s, nil
}

func (m *memStore) FindSession(_ context.Context, profileID, workoutID int, scheduledFor time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.Session
	for _, s := range m.sessions {
		if s.ProfileID != profileID || s.WorkoutID == nil || *s.WorkoutID != workoutID {
			continue
		}
		if !scheduledFor.IsZero() && s.StartedAt.UTC().Format(dateLayout) != scheduledFor.Format(dateLayout) {
			continue
		}
		if found == nil || s.StartedAt.After(found.StartedAt) {
			s := s
			found = &s
		}
	}
	return found, nil
}

func (m *memStore) UpsertSessionSets(_ context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[sessionID]
	merged := append([]models.SessionSet(nil), s.Sets...)
	for _, in := range sets {
		if _, ok := m.exercises[in.ExerciseID]; !ok {
			return nil, storage.ErrInvalidReference
		}
		replaced := false
		for i := range merged {
			if merged[i].ExerciseID == in.ExerciseID && merged[i].SetNumber == in.SetNumber {
				in.ID = merged[i].ID
				merged[i] = in
				replaced = true
			}
		}
		if !replaced {
			in.ID = m.id()
			merged = append(merged, in)
		}
	}
	s.Sets = merged
	m.sessions[sessionID] = s
	return sortedSets(merged), nil
}

func (m *memStore) FinishSession(_ context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Join(errors.New("finishing session"), storage.ErrNotFound)
	}
	s.EndedAt = &endedAt
	s.Notes = notes
	m.sessions[id] = s
	return &s, nil
}

func (m *memStore) ListSettings(context.Context) ([]models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Setting{}
	for k, v := range m.settings {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memStore) PutSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func sortedSets(sets []models.SessionSet) []models.SessionSet {
	out := append([]models.SessionSet{}, sets...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExerciseID != out[j].ExerciseID {
			return out[i].ExerciseID < out[j].ExerciseID
		}
		return out[i].SetNumber < out[j].SetNumber
	})
	return out
}

// completed walks the completed sets of a profile's sessions started in [start, end).
func (m *memStore) completed(profileID int, start, end time.Time, fn func(models.Session, models.SessionSet)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ProfileID != profileID || s.StartedAt.Before(start) || !s.StartedAt.Before(end) {
			continue
		}
		for _, ss := range s.Sets {
			if ss.Completed() {
				fn(s, ss)
			}
		}
	}
}

func (m *memStore) LastSessionAt(context.Context, int) (*time.Time, error) { return nil, nil }

func (m *memStore) SumTonnage(_ context.Context, profileID int, start, end time.Time) (float64, error) {
	var total float64
	m.completed(profileID, start, end, func(_ models.Session, ss models.SessionSet) { total += ss.Tonnage() })
	return total, nil
}

func (m *memStore) CountCompletedSets(_ context.Context, profileID int, start, end time.Time) (int, error) {
	n := 0
	m.completed(profileID, start, end, func(models.Session, models.SessionSet) { n++ })
	return n, nil
}

func (m *memStore) CountPrescribedSets(context.Context, int, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (m *memStore) TopE1RM(context.Context, int, time.Time, time.Time, int) ([]storage.ExerciseE1RM, error) {
	return []storage.ExerciseE1RM{}, nil
}

func (m *memStore) E1RMSeries(context.Context, int, storage.ExerciseRef, time.Time, time.Time) ([]storage.E1RMPoint, error) {
	return []storage.E1RMPoint{}, nil
}

func (m *memStore) CompletedSetsByMuscle(context.Context, int, time.Time, time.Time) ([]storage.MuscleGroupSets, error) {
	return []storage.MuscleGroupSets{}, nil
}

func (m *memStore) CompletedReps(_ context.Context, profileID int, start, end time.Time) ([]int, error) {
	var reps []int
	m.completed(profileID, start, end, func(_ models.Session, ss models.SessionSet) { reps = append(reps, *ss.ActualReps) })
	return reps, nil
}

func (m *memStore) WeeklyTonnage(_ context.Context, profileID int, start, end time.Time) ([]storage.WeeklyTonnage, error) {
	byWeek := map[string]float64{}
	m.completed(profileID, start, end, func(s models.Session, ss models.SessionSet) {
		byWeek[stats.StartOfISOWeek(s.StartedAt).Format(dateLayout)] += ss.Tonnage()
	})
	out := []storage.WeeklyTonnage{}
	for week, t := range byWeek {
		out = append(out, storage.WeeklyTonnage{WeekStart: week, Tonnage: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out, nil
}
