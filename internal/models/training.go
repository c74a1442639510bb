package models

import "time"

// Profile is the identity every workout, session and aggregate is scoped to.
type Profile struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Exercise is reference data; names are unique.
type Exercise struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	IsCompound  bool    `json:"is_compound"`
	Equipment   *string `json:"equipment"`
}

// Workout is a planned training day for a profile.
type Workout struct {
	ID           int               `json:"id"`
	ProfileID    int               `json:"profile_id"`
	Name         string            `json:"name"`
	ScheduledFor string            `json:"scheduled_for"`
	Exercises    []WorkoutExercise `json:"exercises"`
}

// WorkoutExercise places an exercise in a workout along with its prescribed sets.
type WorkoutExercise struct {
	ID            int            `json:"workout_exercise_id"`
	ExerciseID    int            `json:"exercise_id"`
	Name          string         `json:"name"`
	MuscleGroup   string         `json:"muscle_group"`
	IsCompound    bool           `json:"is_compound"`
	OrderIndex    int            `json:"order_index"`
	Prescriptions []Prescription `json:"prescriptions"`
}

// Prescription is the planned target for one set.
type Prescription struct {
	ID           int     `json:"id"`
	SetNumber    int     `json:"set_number"`
	TargetReps   int     `json:"target_reps"`
	TargetWeight float64 `json:"target_weight"`
	RIR          *int    `json:"rir"`
	Tempo        *string `json:"tempo"`
}

// Session is one performed workout. StartedAt is the time axis of every stats window.
type Session struct {
	ID          int          `json:"id"`
	ProfileID   int          `json:"profile_id"`
	WorkoutID   *int         `json:"workout_id"`
	WorkoutName *string      `json:"workout_name,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	EndedAt     *time.Time   `json:"ended_at"`
	Notes       *string      `json:"notes"`
	Sets        []SessionSet `json:"sets,omitempty"`
}

// SessionSet is a logged set. A nil ActualReps or ActualWeight marks it as skipped.
type SessionSet struct {
	ID           int      `json:"id"`
	SessionID    int      `json:"session_id"`
	ExerciseID   int      `json:"exercise_id"`
	SetNumber    int      `json:"set_number"`
	ActualReps   *int     `json:"actual_reps"`
	ActualWeight *float64 `json:"actual_weight"`
	RIR          *int     `json:"rir"`
}

// Completed reports whether both reps and weight were recorded.
func (s SessionSet) Completed() bool {
	return s.ActualReps != nil && s.ActualWeight != nil
}

// Tonnage is reps × weight for a completed set and zero otherwise.
func (s SessionSet) Tonnage() float64 {
	if !s.Completed() {
		return 0
	}
	return float64(*s.ActualReps) * *s.ActualWeight
}

// BodyweightLog is one daily bodyweight entry.
type BodyweightLog struct {
	ProfileID  int     `json:"profile_id"`
	LoggedAt   string  `json:"logged_at"`
	Bodyweight float64 `json:"bodyweight"`
}

// Setting is a key/value application preference (e.g. units).
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ImportRun records the outcome of one history import.
type ImportRun struct {
	ID              int       `json:"id"`
	RunID           string    `json:"run_id"`
	ProfileID       int       `json:"profile_id"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	SessionsRead    int       `json:"sessions_read"`
	SessionsCreated int       `json:"sessions_created"`
	SessionsUpdated int       `json:"sessions_updated"`
	SetsSaved       int       `json:"sets_saved"`
	DurationMs      int       `json:"duration_ms"`
	Error           *string   `json:"error"`
	CreatedAt       time.Time `json:"created_at"`
}
