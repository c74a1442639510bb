package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

// --- Tool definitions ---

func profileOption() mcp.ToolOption {
	return mcp.WithNumber("profile_id", mcp.Required(), mcp.Description("Profile id (see list_profiles)"))
}

func weeksOption(def int) mcp.ToolOption {
	return mcp.WithNumber("weeks",
		mcp.Description("Number of ISO weeks ending with the current one. Values below 1 are treated as 1 and values above 520 as 520."),
		mcp.DefaultNumber(float64(def)),
	)
}

var toolListProfiles = mcp.NewTool("list_profiles",
	mcp.WithDescription("List training profiles. Every other tool is scoped to one profile_id."),
)

var toolGetProfileSummary = mcp.NewTool("get_profile_summary",
	mcp.WithDescription("Profile card: last session time, tonnage of the last 7 days and adherence over the same period."),
	profileOption(),
)

var toolGetOverview = mcp.NewTool("get_overview",
	mcp.WithDescription("Training overview for a window of ISO weeks: total tonnage (reps × weight), adherence percentage (completed / prescribed sets, null when nothing was prescribed), best estimated 1RM and the top 3 exercises by Epley e1RM."),
	profileOption(),
	weeksOption(stats.DefaultOverviewWeeks),
)

var toolGetVolumeTrend = mcp.NewTool("get_volume_trend",
	mcp.WithDescription("Weekly tonnage, oldest week first. Weeks without completed sets are omitted rather than reported as zero."),
	profileOption(),
	weeksOption(stats.DefaultVolumeWeeks),
)

var toolGetE1RMProgression = mcp.NewTool("get_e1rm_progression",
	mcp.WithDescription("Daily best estimated one-rep max (Epley) for one exercise. Pass exercise_id or exercise_name."),
	profileOption(),
	mcp.WithNumber("exercise_id", mcp.Description("Exercise id")),
	mcp.WithString("exercise_name", mcp.Description("Exact exercise name, e.g. 'Back Squat'")),
	weeksOption(stats.DefaultE1RMWeeks),
)

var toolGetTopProgression = mcp.NewTool("get_top_progression",
	mcp.WithDescription("e1RM progression of the top 3 exercises merged into one table keyed by date. A missing value means the lift was not trained that day."),
	profileOption(),
	weeksOption(stats.DefaultE1RMWeeks),
)

var toolGetSetsPerMuscle = mcp.NewTool("get_sets_per_muscle",
	mcp.WithDescription("Completed sets per muscle group, largest first."),
	profileOption(),
	weeksOption(stats.DefaultMuscleWeeks),
)

var toolGetIntensityDistribution = mcp.NewTool("get_intensity_distribution",
	mcp.WithDescription("Completed sets per rep-range bucket: 5-8, 8-12 (9-12 reps), 12-15 (13-15 reps) and 15+. Sets under 5 reps are not counted."),
	profileOption(),
	weeksOption(stats.DefaultIntensityWeeks),
)

// --- Tool handlers ---

// toolResult serializes v, turning domain errors into tool errors the model can read.
func (h *handlers) toolResult(tool string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrProfileNotFound):
			return mcp.NewToolResultError("profile not found; call list_profiles for valid ids"), nil
		case errors.Is(err, stats.ErrExerciseRequired):
			return mcp.NewToolResultError("exercise_id or exercise_name is required"), nil
		case errors.Is(err, stats.ErrUnsupportedGranularity):
			return mcp.NewToolResultError("granularity must be \"week\""), nil
		}
		h.log.Error("mcp tool failed", "tool", tool, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func requireProfile(req mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	id, err := req.RequireInt("profile_id")
	if err != nil || id <= 0 {
		return 0, mcp.NewToolResultError("profile_id must be a positive integer")
	}
	return id, nil
}

func (h *handlers) listProfiles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles, err := h.ds.ListProfiles(ctx)
	return h.toolResult("list_profiles", profiles, err)
}

func (h *handlers) getProfileSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	summary, err := h.ds.Summary(ctx, id)
	return h.toolResult("get_profile_summary", summary, err)
}

func (h *handlers) getOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	o, err := h.ds.Overview(ctx, id, req.GetInt("weeks", stats.DefaultOverviewWeeks))
	return h.toolResult("get_overview", o, err)
}

func (h *handlers) getVolumeTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	trend, err := h.ds.VolumeTrend(ctx, id, req.GetInt("weeks", stats.DefaultVolumeWeeks), "week")
	return h.toolResult("get_volume_trend", trend, err)
}

func (h *handlers) getE1RMProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	ref := storage.ExerciseRef{
		ID:   req.GetInt("exercise_id", 0),
		Name: req.GetString("exercise_name", ""),
	}
	points, err := h.ds.E1RMProgression(ctx, id, ref, req.GetInt("weeks", stats.DefaultE1RMWeeks))
	return h.toolResult("get_e1rm_progression", points, err)
}

func (h *handlers) getTopProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	rows, err := h.ds.TopProgression(ctx, id, req.GetInt("weeks", stats.DefaultE1RMWeeks))
	return h.toolResult("get_top_progression", rows, err)
}

func (h *handlers) getSetsPerMuscle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	groups, err := h.ds.SetsPerMuscle(ctx, id, req.GetInt("weeks", stats.DefaultMuscleWeeks))
	return h.toolResult("get_sets_per_muscle", groups, err)
}

func (h *handlers) getIntensityDistribution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireProfile(req)
	if bad != nil {
		return bad, nil
	}
	buckets, err := h.ds.Intensity(ctx, id, req.GetInt("weeks", stats.DefaultIntensityWeeks))
	return h.toolResult("get_intensity_distribution", buckets, err)
}
