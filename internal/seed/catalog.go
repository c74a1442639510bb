package seed

import "github.com/meltforce/liftlog/internal/models"

// Catalog is the default exercise library.
var Catalog = []models.Exercise{
	{Name: "Bench Press", MuscleGroup: "Chest", IsCompound: true},
	{Name: "Incline Dumbbell Press", MuscleGroup: "Chest", IsCompound: true},
	{Name: "Overhead Press", MuscleGroup: "Shoulders", IsCompound: true},
	{Name: "Lat Pulldown", MuscleGroup: "Back", IsCompound: true},
	{Name: "Barbell Row", MuscleGroup: "Back", IsCompound: true},
	{Name: "Seated Row", MuscleGroup: "Back"},
	{Name: "Back Squat", MuscleGroup: "Legs", IsCompound: true},
	{Name: "Leg Press", MuscleGroup: "Legs", IsCompound: true},
	{Name: "Romanian Deadlift", MuscleGroup: "Hamstrings", IsCompound: true},
	{Name: "Leg Curl", MuscleGroup: "Hamstrings"},
	{Name: "Leg Extension", MuscleGroup: "Quads"},
	{Name: "Calf Raise", MuscleGroup: "Calves"},
	{Name: "Cable Fly", MuscleGroup: "Chest"},
	{Name: "Lateral Raise", MuscleGroup: "Shoulders"},
	{Name: "Face Pull", MuscleGroup: "Upper Back"},
	{Name: "Triceps Pushdown", MuscleGroup: "Triceps"},
	{Name: "Biceps Curl", MuscleGroup: "Biceps"},
	{Name: "Hammer Curl", MuscleGroup: "Biceps"},
	{Name: "Hip Thrust", MuscleGroup: "Glutes", IsCompound: true},
	{Name: "Bulgarian Split Squat", MuscleGroup: "Legs", IsCompound: true},
}

// defaultWeight applies to exercises a profile has no preset for.
const defaultWeight = 50

// WeightPresets holds the starting working weight (lbs) per profile and exercise.
var WeightPresets = map[string]map[string]float64{
	"Male": {
		"Bench Press":            185,
		"Incline Dumbbell Press": 60,
		"Overhead Press":         115,
		"Lat Pulldown":           150,
		"Barbell Row":            165,
		"Seated Row":             140,
		"Back Squat":             245,
		"Leg Press":              400,
		"Romanian Deadlift":      205,
		"Leg Curl":               110,
		"Leg Extension":          120,
		"Calf Raise":             180,
		"Cable Fly":              40,
		"Lateral Raise":          25,
		"Face Pull":              70,
		"Triceps Pushdown":       80,
		"Biceps Curl":            35,
		"Hammer Curl":            40,
		"Hip Thrust":             225,
		"Bulgarian Split Squat":  115,
	},
	"Female": {
		"Bench Press":            95,
		"Incline Dumbbell Press": 35,
		"Overhead Press":         65,
		"Lat Pulldown":           110,
		"Barbell Row":            105,
		"Seated Row":             95,
		"Back Squat":             155,
		"Leg Press":              250,
		"Romanian Deadlift":      135,
		"Leg Curl":               80,
		"Leg Extension":          90,
		"Calf Raise":             120,
		"Cable Fly":              25,
		"Lateral Raise":          15,
		"Face Pull":              50,
		"Triceps Pushdown":       55,
		"Biceps Curl":            25,
		"Hammer Curl":            25,
		"Hip Thrust":             185,
		"Bulgarian Split Squat":  75,
	},
}

// Template is a workout repeated every week on DayOffset days after Monday.
type Template struct {
	Name      string
	DayOffset int
	Exercises []TemplateExercise
}

type TemplateExercise struct {
	Name string
	Sets int
	Reps int
	RIR  int
}

// Templates is the weekly push/pull/legs split.
var Templates = []Template{
	{Name: "Push A", DayOffset: 0, Exercises: []TemplateExercise{
		{"Bench Press", 4, 8, 2},
		{"Incline Dumbbell Press", 3, 10, 2},
		{"Overhead Press", 3, 8, 2},
		{"Lateral Raise", 3, 12, 1},
		{"Triceps Pushdown", 3, 12, 1},
	}},
	{Name: "Pull A", DayOffset: 1, Exercises: []TemplateExercise{
		{"Barbell Row", 4, 8, 2},
		{"Lat Pulldown", 3, 10, 2},
		{"Seated Row", 3, 10, 2},
		{"Face Pull", 3, 15, 1},
		{"Biceps Curl", 3, 12, 1},
	}},
	{Name: "Legs A", DayOffset: 3, Exercises: []TemplateExercise{
		{"Back Squat", 4, 8, 2},
		{"Romanian Deadlift", 3, 8, 2},
		{"Leg Extension", 3, 12, 1},
		{"Leg Curl", 3, 12, 1},
		{"Calf Raise", 4, 15, 1},
	}},
	{Name: "Push B", DayOffset: 4, Exercises: []TemplateExercise{
		{"Bench Press", 3, 6, 2},
		{"Cable Fly", 3, 12, 1},
		{"Overhead Press", 3, 10, 2},
		{"Lateral Raise", 3, 15, 1},
		{"Triceps Pushdown", 3, 12, 1},
	}},
	{Name: "Pull B", DayOffset: 5, Exercises: []TemplateExercise{
		{"Lat Pulldown", 3, 10, 2},
		{"Seated Row", 3, 10, 2},
		{"Hammer Curl", 3, 12, 1},
		{"Face Pull", 3, 15, 1},
		{"Hip Thrust", 3, 10, 2},
	}},
}

// Profiles are the demo profiles created on first run.
var Profiles = []string{"Male", "Female"}
