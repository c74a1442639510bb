package importer

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LoggedSession is one workout read from an Alpha Progression export.
type LoggedSession struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Exercises []LoggedExercise
}

// LoggedExercise is an exercise block within a LoggedSession.
type LoggedExercise struct {
	Name       string
	Equipment  string
	TargetReps int
	Sets       []LoggedSet
}

// LoggedSet is a single working or warmup set. Weight is in kilograms; for
// bodyweight-plus sets it is the added load.
type LoggedSet struct {
	Number         int
	Weight         float64
	Reps           int
	RIR            *int
	Warmup         bool
	BodyweightPlus bool
}

var (
	// "Legs · Day 2";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)
	// "1. Hack Squats · Machine · 8 reps · 2 dropsets";"WU1 · 37,5 kg · 9 reps<br>..."
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)
	// 1;102,5;6;0
	setRowRe    = regexp.MustCompile(`^(\d+);(.+);(\d+);(.*)$`)
	warmupRe    = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
	durationRe  = regexp.MustCompile(`^(\d+):(\d{2})\s*hr?$`)
	setHeaderRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

// ParseAlpha reads an Alpha Progression CSV export. Session timestamps carry
// no zone and are interpreted in loc.
func ParseAlpha(r io.Reader, loc *time.Location) ([]LoggedSession, error) {
	if loc == nil {
		loc = time.UTC
	}

	var (
		sessions []LoggedSession
		cur      *LoggedSession
		ex       *LoggedExercise
		lineNo   int
	)
	flushExercise := func() {
		if cur != nil && ex != nil {
			cur.Exercises = append(cur.Exercises, *ex)
		}
		ex = nil
	}
	flushSession := func() {
		flushExercise()
		if cur != nil {
			sessions = append(sessions, *cur)
		}
		cur = nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flushSession()

		case setHeaderRe.MatchString(line):

		case sessionHeaderRe.MatchString(line):
			m := sessionHeaderRe.FindStringSubmatch(line)
			flushSession()
			started, err := parseStartedAt(m[2], loc)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur = &LoggedSession{Name: m[1], StartedAt: started, Duration: parseDuration(m[3])}

		case exerciseHeaderRe.MatchString(line):
			if cur == nil {
				return nil, fmt.Errorf("line %d: exercise without session: %q", lineNo, line)
			}
			m := exerciseHeaderRe.FindStringSubmatch(line)
			flushExercise()
			target, _ := strconv.Atoi(m[4])
			ex = &LoggedExercise{
				Name:       strings.TrimSpace(m[2]),
				Equipment:  strings.TrimSpace(m[3]),
				TargetReps: target,
			}
			if m[6] != "" {
				ex.Sets = append(ex.Sets, parseWarmups(m[6])...)
			}

		case setRowRe.MatchString(line):
			if ex == nil {
				return nil, fmt.Errorf("line %d: set without exercise: %q", lineNo, line)
			}
			m := setRowRe.FindStringSubmatch(line)
			num, _ := strconv.Atoi(m[1])
			reps, _ := strconv.Atoi(m[3])
			weight, bw := parseLoad(m[2])
			ex.Sets = append(ex.Sets, LoggedSet{
				Number:         num,
				Weight:         weight,
				Reps:           reps,
				RIR:            parseRIR(m[4]),
				BodyweightPlus: bw,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	flushSession()
	return sessions, nil
}

func parseStartedAt(s string, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing session start %q: %w", s, err)
	}
	return t, nil
}

// parseDuration reads "1:02 hr" as 62 minutes. Anything else is zero.
func parseDuration(s string) time.Duration {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute
}

// "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
func parseWarmups(s string) []LoggedSet {
	var sets []LoggedSet
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		reps, _ := strconv.Atoi(m[3])
		weight, bw := parseLoad(m[2])
		sets = append(sets, LoggedSet{Number: num, Weight: weight, Reps: reps, Warmup: true, BodyweightPlus: bw})
	}
	return sets
}

// parseLoad handles decimal commas and the "+35" bodyweight-plus notation.
func parseLoad(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return parseDecimal(rest), true
	}
	return parseDecimal(s), false
}

func parseDecimal(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}

// parseRIR rounds fractional RIR to the nearest whole rep. Blank is nil.
func parseRIR(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v := int(math.Round(parseDecimal(s)))
	return &v
}
