package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

type createSessionRequest struct {
	ProfileID int        `json:"profile_id" validate:"gt=0"`
	WorkoutID int        `json:"workout_id" validate:"gt=0"`
	StartedAt *time.Time `json:"started_at"`
	Notes     *string    `json:"notes" validate:"omitempty,max=2000"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	startedAt := s.now().UTC()
	if req.StartedAt != nil {
		startedAt = req.StartedAt.UTC()
	}
	workoutID := req.WorkoutID

	session, err := s.store.CreateSession(r.Context(), models.Session{
		ProfileID: req.ProfileID,
		WorkoutID: &workoutID,
		StartedAt: startedAt,
		Notes:     req.Notes,
	})
	if errors.Is(err, storage.ErrInvalidReference) {
		err = badRequest("Unknown profile or workout")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, session)
}

// handleLookupSession finds the session a profile logged for a workout,
// answering data: null when there is none.
func (s *Server) handleLookupSession(w http.ResponseWriter, r *http.Request) {
	profileID, err := queryPositiveInt(r, "profile_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	workoutID, err := queryPositiveInt(r, "workout_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if profileID == 0 || workoutID == 0 {
		s.fail(w, r, badRequest("profile_id and workout_id are required"))
		return
	}
	scheduledFor, _, err := queryDate(r, "scheduled_for")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	session, err := s.store.FindSession(r.Context(), profileID, workoutID, scheduledFor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "session")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, entityError("Session", err))
		return
	}
	writeData(w, http.StatusOK, session)
}

type setRequest struct {
	ExerciseID   looseNumber `json:"exercise_id"`
	SetNumber    looseNumber `json:"set_number"`
	ActualReps   looseNumber `json:"actual_reps"`
	ActualWeight looseNumber `json:"actual_weight"`
	RIR          looseNumber `json:"rir"`
}

type bulkSetsRequest struct {
	Sets []setRequest `json:"sets"`
}

// setInput is a normalized setRequest, checked by the validator.
type setInput struct {
	ExerciseID   *int     `json:"exercise_id" validate:"required,gt=0,lte=2147483647"`
	SetNumber    *int     `json:"set_number" validate:"required,gt=0,lte=2147483647"`
	ActualReps   *int     `json:"actual_reps" validate:"omitempty,gte=0,lte=2147483647"`
	ActualWeight *float64 `json:"actual_weight" validate:"omitempty,gte=0,lte=9999.99"`
	RIR          *int     `json:"rir" validate:"omitempty,gte=0,lte=10"`
}

type bulkSetsInput struct {
	Sets []setInput `json:"sets" validate:"required,min=1,dive"`
}

// normalize converts loose numbers, collecting type issues before the
// validator checks ranges.
func (b bulkSetsRequest) normalize() (bulkSetsInput, []Issue) {
	var issues []Issue
	in := bulkSetsInput{Sets: make([]setInput, 0, len(b.Sets))}
	collect := func(issue *Issue) {
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	for i, raw := range b.Sets {
		path := func(field string) string { return fmt.Sprintf("sets.%d.%s", i, field) }
		var set setInput
		var issue *Issue
		set.ExerciseID, issue = raw.ExerciseID.intValue(path("exercise_id"))
		collect(issue)
		set.SetNumber, issue = raw.SetNumber.intValue(path("set_number"))
		collect(issue)
		set.ActualReps, issue = raw.ActualReps.intValue(path("actual_reps"))
		collect(issue)
		set.ActualWeight, issue = raw.ActualWeight.floatValue(path("actual_weight"))
		collect(issue)
		set.RIR, issue = raw.RIR.intValue(path("rir"))
		collect(issue)
		in.Sets = append(in.Sets, set)
	}
	return in, issues
}

// handleBulkSets saves a batch of sets for a session in one transaction and
// returns every set of the session.
func (s *Server) handleBulkSets(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "session")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.GetSession(r.Context(), id); err != nil {
		s.fail(w, r, entityError("Session", err))
		return
	}

	var req bulkSetsRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, issues := req.normalize()
	if len(issues) > 0 {
		s.fail(w, r, invalid(issues))
		return
	}
	if err := validateStruct(in); err != nil {
		s.fail(w, r, err)
		return
	}

	sets := make([]models.SessionSet, 0, len(in.Sets))
	for _, set := range in.Sets {
		sets = append(sets, models.SessionSet{
			SessionID:    id,
			ExerciseID:   *set.ExerciseID,
			SetNumber:    *set.SetNumber,
			ActualReps:   set.ActualReps,
			ActualWeight: set.ActualWeight,
			RIR:          set.RIR,
		})
	}

	saved, err := s.store.UpsertSessionSets(r.Context(), id, sets)
	if errors.Is(err, storage.ErrInvalidReference) {
		err = badRequest("Unknown exercise")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, saved)
}

type finishSessionRequest struct {
	EndedAt *time.Time `json:"ended_at"`
	Notes   *string    `json:"notes" validate:"omitempty,max=2000"`
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "session")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req finishSessionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	endedAt := s.now().UTC()
	if req.EndedAt != nil {
		endedAt = req.EndedAt.UTC()
	}

	session, err := s.store.FinishSession(r.Context(), id, endedAt, req.Notes)
	if err != nil {
		s.fail(w, r, entityError("Session", err))
		return
	}
	writeData(w, http.StatusOK, session)
}
