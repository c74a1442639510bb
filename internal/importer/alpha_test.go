package importer

import (
	"strings"
	"testing"
	"time"
)

const sampleExport = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0,5
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 17:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

func TestParseAlphaSessions(t *testing.T) {
	sessions, err := ParseAlpha(strings.NewReader(sampleExport), time.UTC)
	if err != nil {
		t.Fatalf("ParseAlpha: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	legs := sessions[0]
	if legs.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("name = %q", legs.Name)
	}
	if want := time.Date(2026, 2, 19, 4, 54, 0, 0, time.UTC); !legs.StartedAt.Equal(want) {
		t.Errorf("started = %v, want %v", legs.StartedAt, want)
	}
	if legs.Duration != 62*time.Minute {
		t.Errorf("duration = %v, want 62m", legs.Duration)
	}

	tests := []struct {
		name       string
		equipment  string
		targetReps int
		sets       int
	}{
		{"Hack Squats", "Machine", 8, 5},
		{"Sumo Squats", "Smith machine", 10, 3},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 4},
		{"Reverse Lunges", "Dumbbells", 10, 3},
		{"Standing Calf Raises", "Machine", 12, 4},
		{"Hanging Leg Raises", "Bodyweight", 12, 3},
	}
	if len(legs.Exercises) != len(tests) {
		t.Fatalf("exercises = %d, want %d", len(legs.Exercises), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := legs.Exercises[i]
			if ex.Name != tt.name {
				t.Errorf("name = %q, want %q", ex.Name, tt.name)
			}
			if ex.Equipment != tt.equipment {
				t.Errorf("equipment = %q, want %q", ex.Equipment, tt.equipment)
			}
			if ex.TargetReps != tt.targetReps {
				t.Errorf("target reps = %d, want %d", ex.TargetReps, tt.targetReps)
			}
			if len(ex.Sets) != tt.sets {
				t.Errorf("sets = %d, want %d", len(ex.Sets), tt.sets)
			}
		})
	}

	push := sessions[1]
	if push.StartedAt.Hour() != 17 {
		t.Errorf("push started hour = %d, want 17", push.StartedAt.Hour())
	}
	if got := len(push.Exercises[0].Sets); got != 6 {
		t.Errorf("bench sets = %d, want 6", got)
	}
}

func TestParseAlphaSetValues(t *testing.T) {
	sessions, err := ParseAlpha(strings.NewReader(sampleExport), time.UTC)
	if err != nil {
		t.Fatalf("ParseAlpha: %v", err)
	}
	legs := sessions[0]

	wu := legs.Exercises[0].Sets[0]
	if !wu.Warmup || wu.Weight != 37.5 || wu.Reps != 9 || wu.RIR != nil {
		t.Errorf("warmup = %+v, want 37.5kg x 9 warmup without RIR", wu)
	}

	hyper := legs.Exercises[2].Sets[1]
	if !hyper.BodyweightPlus || hyper.Weight != 35 || hyper.Reps != 10 {
		t.Errorf("hyperextension set = %+v, want +35 x 10", hyper)
	}

	calf := legs.Exercises[4].Sets[3]
	if calf.Weight != 157.5 || calf.RIR == nil || *calf.RIR != 1 {
		t.Errorf("calf set = %+v, want 157.5kg with RIR rounded to 1", calf)
	}

	raise := legs.Exercises[5].Sets[2]
	if raise.RIR != nil {
		t.Errorf("blank RIR = %d, want nil", *raise.RIR)
	}
}

func TestParseAlphaLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	sessions, err := ParseAlpha(strings.NewReader(sampleExport), berlin)
	if err != nil {
		t.Fatalf("ParseAlpha: %v", err)
	}
	want := time.Date(2026, 2, 19, 3, 54, 0, 0, time.UTC)
	if got := sessions[0].StartedAt.UTC(); !got.Equal(want) {
		t.Errorf("started = %v, want %v", got, want)
	}
}

func TestParseAlphaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exercise before session", `"1. Bench Press · Barbell · 6 reps"`},
		{"set before exercise", "\"Push\";\"2026-02-17 5:04 h\";\"1:00 hr\"\n1;100;5;1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAlpha(strings.NewReader(tt.input), nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseAlphaEmpty(t *testing.T) {
	sessions, err := ParseAlpha(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

func TestParseLoad(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{"100", 100, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" 0,5 ", 0.5, false},
	}
	for _, tt := range tests {
		w, bw := parseLoad(tt.in)
		if w != tt.weight || bw != tt.bw {
			t.Errorf("parseLoad(%q) = (%v, %v), want (%v, %v)", tt.in, w, bw, tt.weight, tt.bw)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1:02 hr", 62 * time.Minute},
		{"0:45 hr", 45 * time.Minute},
		{"2:00 h", 2 * time.Hour},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
