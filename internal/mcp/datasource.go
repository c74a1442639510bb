package mcp

import (
	"context"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource is what the MCP tools read from. Local serves straight from the
// database; HTTPClient goes through a remote LiftLog REST API.
type DataSource interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	Summary(ctx context.Context, profileID int) (*stats.Summary, error)
	Overview(ctx context.Context, profileID, weeks int) (*stats.Overview, error)
	VolumeTrend(ctx context.Context, profileID, weeks int, granularity string) ([]storage.WeeklyTonnage, error)
	E1RMProgression(ctx context.Context, profileID int, ref storage.ExerciseRef, weeks int) ([]storage.E1RMPoint, error)
	TopProgression(ctx context.Context, profileID, weeks int) ([]stats.ProgressionRow, error)
	SetsPerMuscle(ctx context.Context, profileID, weeks int) ([]storage.MuscleGroupSets, error)
	Intensity(ctx context.Context, profileID, weeks int) ([]stats.BucketCount, error)
}

// ProfileLister lists profiles. *storage.DB implements it.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

// Local answers tools from the analytics engine and the profile table.
type Local struct {
	*stats.Engine
	Profiles ProfileLister
}

var (
	_ DataSource = Local{}
	_ DataSource = (*HTTPClient)(nil)
)

// NewLocal wires a DataSource over an open database.
func NewLocal(engine *stats.Engine, db *storage.DB) Local {
	return Local{Engine: engine, Profiles: db}
}

func (l Local) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return l.Profiles.ListProfiles(ctx)
}
