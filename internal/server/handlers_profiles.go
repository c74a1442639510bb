package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, profiles)
}

// handleWeekPlan returns seven days of workouts from ?start, or from this ISO week's Monday.
func (s *Server) handleWeekPlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start, ok, err := queryDate(r, "start")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		start = stats.StartOfISOWeek(s.now())
	}

	plan, err := s.store.WeekPlan(r.Context(), id, startOfDay(start))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

// handleListSessions defaults to four ISO weeks back through the end of today.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from, ok, err := queryDate(r, "from")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ok {
		from = startOfDay(from)
	} else {
		from = stats.StartOfISOWeek(s.now().AddDate(0, 0, -28))
	}
	to, ok, err := queryDate(r, "to")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		to = s.now()
	}

	sessions, err := s.store.ListSessions(r.Context(), id, from, endOfDay(to))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, sessions)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.stats.Summary(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, summary)
}

// handleListBodyweight defaults to the last 90 days.
func (s *Server) handleListBodyweight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.GetProfile(r.Context(), id); err != nil {
		s.fail(w, r, entityError("Profile", err))
		return
	}
	from, ok, err := queryDate(r, "from")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		from = s.now().AddDate(0, 0, -90)
	}
	to, ok, err := queryDate(r, "to")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		to = s.now()
	}

	logs, err := s.store.ListBodyweight(r.Context(), id, startOfDay(from), startOfDay(to))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, logs)
}

type bodyweightRequest struct {
	LoggedAt   string  `json:"logged_at" validate:"omitempty,datetime=2006-01-02"`
	Bodyweight float64 `json:"bodyweight" validate:"gt=0,lt=1000"`
}

func (s *Server) handleLogBodyweight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req bodyweightRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	day := startOfDay(s.now())
	if req.LoggedAt != "" {
		day, _ = time.Parse(dateLayout, req.LoggedAt)
	}

	entry, err := s.store.UpsertBodyweight(r.Context(), id, day, req.Bodyweight)
	if errors.Is(err, storage.ErrInvalidReference) {
		err = &httpError{status: http.StatusNotFound, message: "Profile not found"}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, entry)
}

// handleListImports returns the profile's import history, newest first.
// ?limit caps the rows (default 20, at most 200).
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.GetProfile(r.Context(), id); err != nil {
		s.fail(w, r, entityError("Profile", err))
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(w, r, badRequest("limit must be a positive integer"))
			return
		}
		limit = min(n, 200)
	}

	runs, err := s.store.ListImportRuns(r.Context(), id, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, runs)
}
