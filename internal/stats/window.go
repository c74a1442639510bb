package stats

import "time"

// Default window sizes in weeks.
const (
	DefaultOverviewWeeks  = 4
	DefaultVolumeWeeks    = 12
	DefaultE1RMWeeks      = 12
	DefaultMuscleWeeks    = 8
	DefaultIntensityWeeks = 8

	// MaxWeeks caps every window at ten years.
	MaxWeeks = 520
)

// Window is a run of whole ISO weeks in UTC. Start is Monday 00:00 of the first
// week and End is Sunday 23:59:59 of the last.
type Window struct {
	Start time.Time
	End   time.Time
	Weeks int
}

// Until is the exclusive upper bound of the window: the Monday after End.
func (w Window) Until() time.Time {
	return w.End.Truncate(time.Second).Add(time.Second)
}

// ResolveWindow returns the window of the given number of ISO weeks ending with
// the week that contains now. Weeks are clamped to [1, MaxWeeks].
func ResolveWindow(weeks int, now time.Time) Window {
	weeks = max(1, min(weeks, MaxWeeks))
	monday := StartOfISOWeek(now)
	return Window{
		Start: monday.AddDate(0, 0, -7*(weeks-1)),
		End:   monday.AddDate(0, 0, 7).Add(-time.Second),
		Weeks: weeks,
	}
}

// StartOfISOWeek returns Monday 00:00 UTC of the ISO week containing t.
func StartOfISOWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}
