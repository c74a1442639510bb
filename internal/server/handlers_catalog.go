package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, exercises)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "exercise")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.store.GetExercise(r.Context(), id)
	if err != nil {
		s.fail(w, r, entityError("Exercise", err))
		return
	}
	writeData(w, http.StatusOK, e)
}

type createExerciseRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	MuscleGroup string  `json:"muscle_group" validate:"required,max=50"`
	IsCompound  bool    `json:"is_compound"`
	Equipment   *string `json:"equipment" validate:"omitempty,max=50"`
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.store.CreateExercise(r.Context(), models.Exercise{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		IsCompound:  req.IsCompound,
		Equipment:   req.Equipment,
	})
	if err != nil {
		s.fail(w, r, entityError("Exercise", err))
		return
	}
	writeData(w, http.StatusCreated, e)
}

type prescriptionRequest struct {
	SetNumber    int     `json:"set_number" validate:"gt=0"`
	TargetReps   int     `json:"target_reps" validate:"gte=0"`
	TargetWeight float64 `json:"target_weight" validate:"gte=0"`
	RIR          *int    `json:"rir" validate:"omitempty,gte=0,lte=10"`
	Tempo        *string `json:"tempo" validate:"omitempty,max=20"`
}

type workoutExerciseRequest struct {
	ExerciseID    int                   `json:"exercise_id" validate:"gt=0"`
	OrderIndex    int                   `json:"order_index" validate:"gte=0"`
	Prescriptions []prescriptionRequest `json:"prescriptions" validate:"dive"`
}

type createWorkoutRequest struct {
	ProfileID    int                      `json:"profile_id" validate:"gt=0"`
	Name         string                   `json:"name" validate:"required,max=100"`
	ScheduledFor string                   `json:"scheduled_for" validate:"required,datetime=2006-01-02"`
	Exercises    []workoutExerciseRequest `json:"exercises" validate:"dive"`
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	workout := models.Workout{
		ProfileID:    req.ProfileID,
		Name:         req.Name,
		ScheduledFor: req.ScheduledFor,
		Exercises:    make([]models.WorkoutExercise, 0, len(req.Exercises)),
	}
	for _, ex := range req.Exercises {
		we := models.WorkoutExercise{
			ExerciseID:    ex.ExerciseID,
			OrderIndex:    ex.OrderIndex,
			Prescriptions: make([]models.Prescription, 0, len(ex.Prescriptions)),
		}
		for _, p := range ex.Prescriptions {
			we.Prescriptions = append(we.Prescriptions, models.Prescription{
				SetNumber:    p.SetNumber,
				TargetReps:   p.TargetReps,
				TargetWeight: p.TargetWeight,
				RIR:          p.RIR,
				Tempo:        p.Tempo,
			})
		}
		workout.Exercises = append(workout.Exercises, we)
	}

	created, err := s.store.CreateWorkout(r.Context(), workout)
	if errors.Is(err, storage.ErrInvalidReference) {
		err = badRequest("Unknown profile or exercise")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "workout")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), id)
	if err != nil {
		s.fail(w, r, entityError("Workout", err))
		return
	}
	writeData(w, http.StatusOK, workout)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.ListSettings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, settings)
}

type putSettingRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req putSettingRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.PutSetting(r.Context(), key, req.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, models.Setting{Key: key, Value: req.Value})
}
