package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/stats"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) profileCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profiles, err := h.ds.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, profiles)
}

// intensityBuckets documents the rep ranges used by get_intensity_distribution.
func (h *handlers) intensityBuckets(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type bucket struct {
		Label   string `json:"label"`
		MinReps int    `json:"min_reps"`
		MaxReps *int   `json:"max_reps"`
	}
	out := make([]bucket, 0, len(stats.Buckets))
	for _, b := range stats.Buckets {
		entry := bucket{Label: b.Label, MinReps: b.Min}
		if !b.OpenEnded() {
			hi := b.Max
			entry.MaxReps = &hi
		}
		out = append(out, entry)
	}
	return jsonResource(req.Params.URI, out)
}
