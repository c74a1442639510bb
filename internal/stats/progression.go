package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/meltforce/liftlog/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ProgressionRow is one day of the merged top-lift chart. Values holds an
// entry only for exercises trained that day.
type ProgressionRow struct {
	PerformedAt string             `json:"performed_at"`
	Values      map[string]float64 `json:"values"`
}

// TopProgression fetches the e1RM series of the window's top lifts concurrently
// and merges them into one table keyed by date, oldest first.
func (e *Engine) TopProgression(ctx context.Context, profileID, weeks int) ([]ProgressionRow, error) {
	ctx, cancel := e.queryContext(ctx)
	defer cancel()
	if _, err := e.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	w := ResolveWindow(weeks, e.now())

	top, err := e.store.TopE1RM(ctx, profileID, w.Start, w.Until(), topExercises)
	if err != nil {
		return nil, err
	}

	series := make([][]storage.E1RMPoint, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, ex := range top {
		g.Go(func() error {
			points, err := e.store.E1RMSeries(gctx, profileID, storage.ExerciseRef{ID: ex.ExerciseID}, w.Start, w.Until())
			if err != nil {
				return fmt.Errorf("series for %s: %w", ex.ExerciseName, err)
			}
			series[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(top))
	for i, ex := range top {
		names[i] = ex.ExerciseName
	}
	return mergeSeries(names, series), nil
}

func mergeSeries(names []string, series [][]storage.E1RMPoint) []ProgressionRow {
	byDate := make(map[string]map[string]float64)
	for i, points := range series {
		for _, p := range points {
			values, ok := byDate[p.PerformedAt]
			if !ok {
				values = make(map[string]float64)
				byDate[p.PerformedAt] = values
			}
			values[names[i]] = p.E1RM
		}
	}

	rows := make([]ProgressionRow, 0, len(byDate))
	for date, values := range byDate {
		rows = append(rows, ProgressionRow{PerformedAt: date, Values: values})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PerformedAt < rows[j].PerformedAt })
	return rows
}
