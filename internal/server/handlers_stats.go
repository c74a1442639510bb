package server

import (
	"net/http"

	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWindow(r, stats.DefaultOverviewWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	overview, err := s.stats.Overview(r.Context(), id, weeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, overview)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWeeks(r, stats.DefaultVolumeWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = "week"
	}
	trend, err := s.stats.VolumeTrend(r.Context(), id, weeks, granularity)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, trend)
}

// handleE1RM accepts either ?exercise_id or ?exercise_name.
func (s *Server) handleE1RM(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	exerciseID, err := queryPositiveInt(r, "exercise_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWeeks(r, stats.DefaultE1RMWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ref := storage.ExerciseRef{ID: exerciseID, Name: r.URL.Query().Get("exercise_name")}
	series, err := s.stats.E1RMProgression(r.Context(), id, ref, weeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, series)
}

func (s *Server) handleTopE1RM(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWeeks(r, stats.DefaultE1RMWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, err := s.stats.TopProgression(r.Context(), id, weeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

func (s *Server) handleSetsPerMuscle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWeeks(r, stats.DefaultMuscleWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	groups, err := s.stats.SetsPerMuscle(r.Context(), id, weeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, groups)
}

func (s *Server) handleIntensity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "profile")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weeks, err := queryWeeks(r, stats.DefaultIntensityWeeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	buckets, err := s.stats.Intensity(r.Context(), id, weeks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, buckets)
}
