package rotation

import "time"

// Plan captures every decision derived from a single instant: the cadences
// due for creation and the per-cadence pruning cutoffs. It is recomputed on
// every invocation and never persisted.
type Plan struct {
	Now     time.Time
	Due     []Cadence
	Cutoffs map[Cadence]time.Time
}

// NewPlan computes the rotation plan for now.
//
// Hourly is always due. Daily is due at minute 0, weekly at 00:00 on the
// configured week-boundary day, monthly at 00:00 on the 1st. The nesting lets
// one top-of-hour trigger fire hourly+daily, and one top-of-month trigger
// fire all four, so a single external scheduler suffices.
func NewPlan(now time.Time, weeklyDay time.Weekday, windows Windows) Plan {
	due := []Cadence{Hourly}
	if now.Minute() == 0 {
		due = append(due, Daily)
	}
	if now.Weekday() == weeklyDay && now.Hour() == 0 && now.Minute() == 0 {
		due = append(due, Weekly)
	}
	if now.Day() == 1 && now.Hour() == 0 && now.Minute() == 0 {
		due = append(due, Monthly)
	}

	cutoffs := make(map[Cadence]time.Time, len(Cadences))
	for _, c := range Cadences {
		cutoffs[c] = now.Add(-windows.Window(c))
	}

	return Plan{Now: now, Due: due, Cutoffs: cutoffs}
}
