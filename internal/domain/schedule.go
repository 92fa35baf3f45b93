package domain

import "time"

// CyclePeriodDays is the cleaning cycle length: the whole pattern repeats
// every 4 weeks from each anchor.
const CyclePeriodDays = 28

// TimeOfDay is the user's chosen reminder time, local to the campus.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return FormatMinutes(t.Hour*60 + t.Minute)
}

// FirstFire combines an anchor date with the chosen time of day in the
// campus location. The day-before variant shifts back one calendar day, not
// 24 hours: the "today"/"tomorrow" framing of the message has to follow
// local day boundaries.
func FirstFire(anchor time.Time, tod TimeOfDay, dayBefore bool, loc *time.Location) time.Time {
	t := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), tod.Hour, tod.Minute, 0, 0, loc)
	if dayBefore {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// NextOccurrence advances a fire time in whole cycle periods until it is
// strictly after now. Any number of occurrences missed while the process
// was down collapses into the single fire that triggered the call, so a
// long outage never floods a chat.
func NextOccurrence(last, now time.Time) time.Time {
	next := last
	for !next.After(now) {
		next = next.AddDate(0, 0, CyclePeriodDays)
	}
	return next
}
