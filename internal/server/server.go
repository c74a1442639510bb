package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the handlers need. *storage.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	ListProfiles(ctx context.Context) ([]models.Profile, error)
	GetProfile(ctx context.Context, id int) (*models.Profile, error)
	WeekPlan(ctx context.Context, profileID int, start time.Time) (*storage.WeekPlan, error)
	ListSessions(ctx context.Context, profileID int, from, to time.Time) ([]models.Session, error)
	ListBodyweight(ctx context.Context, profileID int, from, to time.Time) ([]models.BodyweightLog, error)
	UpsertBodyweight(ctx context.Context, profileID int, day time.Time, bodyweight float64) (*models.BodyweightLog, error)
	ListImportRuns(ctx context.Context, profileID, limit int) ([]models.ImportRun, error)

	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id int) (*models.Exercise, error)
	CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error)

	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	GetWorkout(ctx context.Context, id int) (*models.Workout, error)

	CreateSession(ctx context.Context, s models.Session) (*models.Session, error)
	GetSession(ctx context.Context, id int) (*models.Session, error)
	FindSession(ctx context.Context, profileID, workoutID int, scheduledFor time.Time) (*models.Session, error)
	UpsertSessionSets(ctx context.Context, sessionID int, sets []models.SessionSet) ([]models.SessionSet, error)
	FinishSession(ctx context.Context, id int, endedAt time.Time, notes *string) (*models.Session, error)

	ListSettings(ctx context.Context) ([]models.Setting, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Stats is the analytics surface. *stats.Engine implements it.
type Stats interface {
	Overview(ctx context.Context, profileID, weeks int) (*stats.Overview, error)
	VolumeTrend(ctx context.Context, profileID, weeks int, granularity string) ([]storage.WeeklyTonnage, error)
	E1RMProgression(ctx context.Context, profileID int, ref storage.ExerciseRef, weeks int) ([]storage.E1RMPoint, error)
	TopProgression(ctx context.Context, profileID, weeks int) ([]stats.ProgressionRow, error)
	SetsPerMuscle(ctx context.Context, profileID, weeks int) ([]storage.MuscleGroupSets, error)
	Intensity(ctx context.Context, profileID, weeks int) ([]stats.BucketCount, error)
	Summary(ctx context.Context, profileID int) (*stats.Summary, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	stats   Stats
	metrics *metrics.Manager
	log     *slog.Logger
	apiKey  string
	whois   WhoIsClient
	now     func() time.Time
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey leaves
// the write routes unauthenticated.
func New(store Store, engine Stats, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		stats:   engine,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		now:     time.Now,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables tailnet identity lookup for request logs.
func (s *Server) SetTailscale(c WhoIsClient) {
	s.whois = c
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	// Metrics wrap the recoverer so panics are counted as 500s.
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(Recoverer(s.metrics, s.log))
	s.router.Use(s.tailscaleIdentity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)
		r.Get("/profiles/{id}/week", s.handleWeekPlan)
		r.Get("/profiles/{id}/sessions", s.handleListSessions)
		r.Get("/profiles/{id}/summary", s.handleSummary)
		r.Get("/profiles/{id}/bodyweight", s.handleListBodyweight)
		r.Get("/profiles/{id}/imports", s.handleListImports)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/sessions/lookup", s.handleLookupSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/settings", s.handleListSettings)

		r.Route("/stats/profiles/{id}", func(r chi.Router) {
			r.Get("/overview", s.handleOverview)
			r.Get("/volume", s.handleVolume)
			r.Get("/e1rm", s.handleE1RM)
			r.Get("/e1rm/top", s.handleTopE1RM)
			r.Get("/sets-per-muscle", s.handleSetsPerMuscle)
			r.Get("/intensity", s.handleIntensity)
		})

		// Write endpoints (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/profiles/{id}/bodyweight", s.handleLogBodyweight)
			r.Post("/exercises", s.handleCreateExercise)
			r.Post("/workouts", s.handleCreateWorkout)
			r.Post("/sessions", s.handleCreateSession)
			r.Post("/sessions/{id}/sets/bulk", s.handleBulkSets)
			r.Post("/sessions/{id}/finish", s.handleFinishSession)
			r.Put("/settings/{key}", s.handlePutSetting)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
