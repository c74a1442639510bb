package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setKey struct{ exercise, number int }

type memStore struct {
	profiles  map[string]int
	exercises map[string]models.Exercise
	sessions  []models.Session
	sets      map[int]map[setKey]models.SessionSet
	runs      []models.ImportRun
	failOn    int
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		profiles:  map[string]int{},
		exercises: map[string]models.Exercise{},
		sets:      map[int]map[setKey]models.SessionSet{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) EnsureProfile(_ context.Context, name string) (int, error) {
	if id, ok := m.profiles[name]; ok {
		return id, nil
	}
	m.profiles[name] = m.id()
	return m.profiles[name], nil
}

func (m *memStore) EnsureExercises(_ context.Context, catalog []models.Exercise) (map[string]int, error) {
	for _, e := range catalog {
		if _, ok := m.exercises[e.Name]; !ok {
			e.ID = m.id()
			m.exercises[e.Name] = e
		}
	}
	out := make(map[string]int, len(m.exercises))
	for name, e := range m.exercises {
		out[name] = e.ID
	}
	return out, nil
}

func (m *memStore) FindSessionAt(_ context.Context, profileID int, startedAt time.Time) (*models.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ProfileID == profileID && m.sessions[i].StartedAt.Equal(startedAt) {
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateSession(_ context.Context, s models.Session) (*models.Session, error) {
	s.ID = m.id()
	m.sessions = append(m.sessions, s)
	return &s, nil
}

func (m *memStore) UpsertSessionSets(_ context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error) {
	if m.failOn != 0 && sessionID == m.failOn {
		return nil, errors.New("disk full")
	}
	if m.sets[sessionID] == nil {
		m.sets[sessionID] = map[setKey]models.SessionSet{}
	}
	for _, ss := range sets {
		ss.SessionID = sessionID
		m.sets[sessionID][setKey{ss.ExerciseID, ss.SetNumber}] = ss
	}
	return sets, nil
}

func (m *memStore) FinishSession(_ context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].EndedAt = &endedAt
			m.sessions[i].Notes = notes
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memStore) RecordImportRun(_ context.Context, run models.ImportRun) (*models.ImportRun, error) {
	run.ID = m.id()
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *memStore) setCount() int {
	n := 0
	for _, s := range m.sets {
		n += len(s)
	}
	return n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImportAlphaIdempotent(t *testing.T) {
	store := newMemStore()
	imp := New(store, discardLogger())
	ctx := context.Background()
	opts := Options{Profile: "Male", Location: time.UTC}

	first, err := imp.ImportAlpha(ctx, strings.NewReader(sampleExport), opts)
	require.NoError(t, err)
	assert.NotEmpty(t, first.RunID)
	assert.Equal(t, 2, first.SessionsRead)
	assert.Equal(t, 2, first.SessionsCreated)
	assert.Equal(t, 0, first.SessionsUpdated)
	assert.Equal(t, 20, first.SetsSaved)
	assert.Equal(t, 8, first.WarmupsSkipped)
	assert.Len(t, first.NewExercises, 7)

	second, err := imp.ImportAlpha(ctx, strings.NewReader(sampleExport), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.SessionsCreated)
	assert.Equal(t, 2, second.SessionsUpdated)
	assert.Empty(t, second.NewExercises)

	assert.Len(t, store.sessions, 2)
	assert.Equal(t, 20, store.setCount())

	require.Len(t, store.runs, 2)
	assert.Equal(t, first.RunID, store.runs[0].RunID)
	assert.Equal(t, SourceAlpha, store.runs[0].Source)
	assert.Equal(t, "success", store.runs[0].Status)
	assert.Equal(t, 20, store.runs[0].SetsSaved)
	assert.Equal(t, 2, store.runs[1].SessionsUpdated)
}

func TestImportAlphaRecordsFailure(t *testing.T) {
	store := newMemStore()
	// Profile, then seven exercises, then the first session.
	store.failOn = 9
	st, err := New(store, discardLogger()).ImportAlpha(context.Background(),
		strings.NewReader(sampleExport), Options{Profile: "Male"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, st.SessionsCreated)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, "error", run.Status)
	require.NotNil(t, run.Error)
	assert.Contains(t, *run.Error, "disk full")
}

func TestImportAlphaSessionShape(t *testing.T) {
	store := newMemStore()
	_, err := New(store, discardLogger()).ImportAlpha(context.Background(),
		strings.NewReader(sampleExport), Options{Profile: "Male"})
	require.NoError(t, err)

	legs := store.sessions[0]
	assert.Nil(t, legs.WorkoutID)
	assert.Equal(t, time.Date(2026, 2, 19, 4, 54, 0, 0, time.UTC), legs.StartedAt)
	require.NotNil(t, legs.EndedAt)
	assert.Equal(t, time.Date(2026, 2, 19, 5, 56, 0, 0, time.UTC), *legs.EndedAt)
	require.NotNil(t, legs.Notes)
	assert.Equal(t, "Legs · Day 2 · Week 4 · Push-Pull-Legs", *legs.Notes)

	hack := store.exercises["Hack Squats"]
	assert.Equal(t, "Legs", hack.MuscleGroup)
	require.NotNil(t, hack.Equipment)
	assert.Equal(t, "Machine", *hack.Equipment)

	first := store.sets[legs.ID][setKey{hack.ID, 1}]
	require.NotNil(t, first.ActualReps)
	assert.Equal(t, 8, *first.ActualReps)
	assert.Equal(t, 115.0, *first.ActualWeight)
	assert.Equal(t, 1, *first.RIR)
}

func TestImportAlphaKeepsWarmups(t *testing.T) {
	store := newMemStore()
	st, err := New(store, discardLogger()).ImportAlpha(context.Background(),
		strings.NewReader(sampleExport), Options{Profile: "Male", Warmups: true})
	require.NoError(t, err)
	assert.Equal(t, 28, st.SetsSaved)
	assert.Zero(t, st.WarmupsSkipped)

	hack := store.exercises["Hack Squats"]
	legs := store.sessions[0]
	wu := store.sets[legs.ID][setKey{hack.ID, 4}]
	require.NotNil(t, wu.ActualWeight)
	assert.Equal(t, 37.5, *wu.ActualWeight)
	assert.Nil(t, wu.RIR)
}

func TestImportAlphaDryRun(t *testing.T) {
	store := newMemStore()
	st, err := New(store, discardLogger()).ImportAlpha(context.Background(),
		strings.NewReader(sampleExport), Options{Profile: "Male", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 20, st.SetsSaved)
	assert.Zero(t, st.SessionsCreated)
	assert.Empty(t, store.profiles)
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.runs)
}

func TestImportAlphaRequiresProfile(t *testing.T) {
	_, err := New(newMemStore(), discardLogger()).ImportAlpha(context.Background(),
		strings.NewReader(sampleExport), Options{Profile: "  "})
	assert.Error(t, err)
}

func TestGuessMuscleGroup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hack Squats", "Legs"},
		{"Standing Calf Raises", "Calves"},
		{"Hyperextensions on Roman Chair", "Hamstrings"},
		{"Hanging Leg Raises", "Abs"},
		{"Incline Bench Press", "Chest"},
		{"Lying Leg Curl", "Hamstrings"},
		{"EZ Bar Curl", "Biceps"},
		{"Seated Cable Row", "Back"},
		{"Farmer's Walk", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessMuscleGroup(tt.name))
		})
	}
}
