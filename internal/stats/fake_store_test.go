package stats

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

type fakeSet struct {
	profileID  int
	exerciseID int
	startedAt  time.Time
	reps       *int
	weight     *float64
}

// fakeStore answers the aggregate queries from in-memory rows using the same
// rules as the SQL in storage.
type fakeStore struct {
	mu         sync.Mutex
	profiles   map[int]models.Profile
	exercises  map[int]models.Exercise
	sets       []fakeSet
	prescribed []fakeSet // one entry per prescribed set, keyed by session start
	lastAt     map[int]time.Time
	seriesErr  error
	seriesHits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[int]models.Profile{1: {ID: 1, Name: "Male"}},
		exercises: map[int]models.Exercise{
			1: {ID: 1, Name: "Squat", MuscleGroup: "legs"},
			2: {ID: 2, Name: "Bench Press", MuscleGroup: "chest"},
			3: {ID: 3, Name: "Deadlift", MuscleGroup: "back"},
			4: {ID: 4, Name: "Row", MuscleGroup: "back"},
		},
		lastAt: map[int]time.Time{},
	}
}

func (f *fakeStore) log(profileID, exerciseID int, at time.Time, reps int, weight float64) {
	f.sets = append(f.sets, fakeSet{profileID: profileID, exerciseID: exerciseID, startedAt: at, reps: &reps, weight: &weight})
}

func (f *fakeStore) completedIn(profileID int, start, end time.Time) []fakeSet {
	var out []fakeSet
	for _, s := range f.sets {
		if s.profileID != profileID || s.startedAt.Before(start) || !s.startedAt.Before(end) {
			continue
		}
		if s.reps == nil || s.weight == nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (f *fakeStore) GetProfile(_ context.Context, id int) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) LastSessionAt(_ context.Context, profileID int) (*time.Time, error) {
	at, ok := f.lastAt[profileID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (f *fakeStore) SumTonnage(_ context.Context, profileID int, start, end time.Time) (float64, error) {
	var total float64
	for _, s := range f.completedIn(profileID, start, end) {
		total += float64(*s.reps) * *s.weight
	}
	return total, nil
}

func (f *fakeStore) CountCompletedSets(_ context.Context, profileID int, start, end time.Time) (int, error) {
	return len(f.completedIn(profileID, start, end)), nil
}

func (f *fakeStore) CountPrescribedSets(_ context.Context, profileID int, start, end time.Time) (int, error) {
	n := 0
	for _, p := range f.prescribed {
		if p.profileID == profileID && !p.startedAt.Before(start) && p.startedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) TopE1RM(_ context.Context, profileID int, start, end time.Time, limit int) ([]storage.ExerciseE1RM, error) {
	best := map[int]float64{}
	for _, s := range f.completedIn(profileID, start, end) {
		if v := Epley(*s.weight, *s.reps); v > best[s.exerciseID] {
			best[s.exerciseID] = v
		}
	}
	out := []storage.ExerciseE1RM{}
	for id, v := range best {
		out = append(out, storage.ExerciseE1RM{ExerciseID: id, ExerciseName: f.exercises[id].Name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].ExerciseID < out[j].ExerciseID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) E1RMSeries(ctx context.Context, profileID int, ref storage.ExerciseRef, start, end time.Time) ([]storage.E1RMPoint, error) {
	f.mu.Lock()
	f.seriesHits++
	err := f.seriesErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	id := ref.ID
	if id <= 0 {
		for _, e := range f.exercises {
			if e.Name == ref.Name {
				id = e.ID
			}
		}
	}
	byDay := map[string]float64{}
	for _, s := range f.completedIn(profileID, start, end) {
		if s.exerciseID != id {
			continue
		}
		day := s.startedAt.UTC().Format("2006-01-02")
		if v := Epley(*s.weight, *s.reps); v > byDay[day] {
			byDay[day] = v
		}
	}
	out := []storage.E1RMPoint{}
	for day, v := range byDay {
		out = append(out, storage.E1RMPoint{PerformedAt: day, E1RM: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt < out[j].PerformedAt })
	return out, nil
}

func (f *fakeStore) CompletedSetsByMuscle(_ context.Context, profileID int, start, end time.Time) ([]storage.MuscleGroupSets, error) {
	counts := map[string]int{}
	for _, s := range f.completedIn(profileID, start, end) {
		counts[f.exercises[s.exerciseID].MuscleGroup]++
	}
	out := []storage.MuscleGroupSets{}
	for g, n := range counts {
		out = append(out, storage.MuscleGroupSets{MuscleGroup: g, Sets: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sets != out[j].Sets {
			return out[i].Sets > out[j].Sets
		}
		return out[i].MuscleGroup < out[j].MuscleGroup
	})
	return out, nil
}

func (f *fakeStore) CompletedReps(_ context.Context, profileID int, start, end time.Time) ([]int, error) {
	var out []int
	for _, s := range f.completedIn(profileID, start, end) {
		out = append(out, *s.reps)
	}
	return out, nil
}

func (f *fakeStore) WeeklyTonnage(_ context.Context, profileID int, start, end time.Time) ([]storage.WeeklyTonnage, error) {
	byWeek := map[string]float64{}
	for _, s := range f.completedIn(profileID, start, end) {
		byWeek[StartOfISOWeek(s.startedAt).Format("2006-01-02")] += float64(*s.reps) * *s.weight
	}
	out := []storage.WeeklyTonnage{}
	for week, t := range byWeek {
		out = append(out, storage.WeeklyTonnage{WeekStart: week, Tonnage: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out, nil
}
