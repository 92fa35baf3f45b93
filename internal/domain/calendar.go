package domain

import (
	"errors"
	"time"
)

var ErrInvalidCampus = errors.New("campus number must be between 1 and 4")

const (
	// CampusCount is the number of dormitory campuses on the shared calendar.
	CampusCount = 4
	// CycleSlots is the number of anchor dates per campus. The cleaning
	// cycle repeats every CyclePeriodDays from each anchor, so every slot
	// covers one phase offset within the pattern.
	CycleSlots = 4
)

// cleaningAnchors maps campus number to its known cleaning-cycle anchor
// dates. A nil entry means the campus has no known anchor for that slot;
// indices are stable and meaningful (index = cycle slot).
var cleaningAnchors = map[int][CycleSlots]*time.Time{
	1: {d(2019, 4, 19), nil, d(2019, 4, 29), d(2019, 5, 8)},
	2: {d(2019, 4, 15), d(2019, 4, 24), d(2019, 5, 3), nil},
	3: {d(2019, 4, 17), d(2019, 4, 26), nil, d(2019, 5, 6)},
	4: {nil, d(2019, 4, 22), d(2019, 5, 1), d(2019, 5, 10)},
}

func d(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// ValidCampus reports whether n is a known campus number.
func ValidCampus(n int) bool {
	return n >= 1 && n <= CampusCount
}

// AnchorsFor returns the four cleaning-cycle anchor dates for a campus.
// Only the calendar date of each entry is meaningful; the time of day is
// combined in later by the scheduling engine.
func AnchorsFor(campus int) ([CycleSlots]*time.Time, error) {
	anchors, ok := cleaningAnchors[campus]
	if !ok {
		return [CycleSlots]*time.Time{}, ErrInvalidCampus
	}
	return anchors, nil
}
