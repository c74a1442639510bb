package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training analytics. Call list_profiles first; every other tool takes a profile_id. Weights are in the units stored by the app (see the units setting). Windows are whole ISO weeks (Monday start, UTC) ending with the current week."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListProfiles, Handler: h.listProfiles},
		server.ServerTool{Tool: toolGetProfileSummary, Handler: h.getProfileSummary},
		server.ServerTool{Tool: toolGetOverview, Handler: h.getOverview},
		server.ServerTool{Tool: toolGetVolumeTrend, Handler: h.getVolumeTrend},
		server.ServerTool{Tool: toolGetE1RMProgression, Handler: h.getE1RMProgression},
		server.ServerTool{Tool: toolGetTopProgression, Handler: h.getTopProgression},
		server.ServerTool{Tool: toolGetSetsPerMuscle, Handler: h.getSetsPerMuscle},
		server.ServerTool{Tool: toolGetIntensityDistribution, Handler: h.getIntensityDistribution},
	)

	s.AddResources(
		server.ServerResource{Resource: resProfiles, Handler: h.profileCatalog},
		server.ServerResource{Resource: resIntensityBuckets, Handler: h.intensityBuckets},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resProfiles = mcp.NewResource(
	"liftlog://profiles",
	"Profiles",
	mcp.WithResourceDescription("All training profiles with their ids"),
	mcp.WithMIMEType("application/json"),
)

var resIntensityBuckets = mcp.NewResource(
	"liftlog://intensity_buckets",
	"Intensity Buckets",
	mcp.WithResourceDescription("Rep ranges used by the intensity distribution"),
	mcp.WithMIMEType("application/json"),
)
