package domain

import (
	"testing"
	"time"
)

func mustLoc(t *testing.T, tz string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return loc
}

func TestFirstFire_DayOfScenario(t *testing.T) {
	loc := mustLoc(t, "Europe/Moscow")
	anchors, err := AnchorsFor(1)
	if err != nil {
		t.Fatalf("AnchorsFor: %v", err)
	}

	tod := TimeOfDay{Hour: 12, Minute: 0}
	want := []string{"2019-04-19 12:00", "", "2019-04-29 12:00", "2019-05-08 12:00"}
	for i, a := range anchors {
		if a == nil {
			if want[i] != "" {
				t.Fatalf("slot %d: unexpected nil anchor", i)
			}
			continue
		}
		got := FirstFire(*a, tod, false, loc).Format("2006-01-02 15:04")
		if got != want[i] {
			t.Fatalf("slot %d: want %s, got %s", i, want[i], got)
		}
	}
}

func TestFirstFire_DayBeforeScenario(t *testing.T) {
	loc := mustLoc(t, "Europe/Moscow")
	anchors, _ := AnchorsFor(1)

	tod := TimeOfDay{Hour: 12, Minute: 0}
	want := []string{"2019-04-18 12:00", "", "2019-04-28 12:00", "2019-05-07 12:00"}
	for i, a := range anchors {
		if a == nil {
			continue
		}
		got := FirstFire(*a, tod, true, loc).Format("2006-01-02 15:04")
		if got != want[i] {
			t.Fatalf("slot %d: want %s, got %s", i, want[i], got)
		}
	}
}

func TestFirstFire_DayBeforeIsOneCalendarDayEarlier(t *testing.T) {
	loc := mustLoc(t, "Europe/Moscow")
	anchor := time.Date(2019, time.May, 8, 0, 0, 0, 0, time.UTC)
	tod := TimeOfDay{Hour: 9, Minute: 30}

	dayOf := FirstFire(anchor, tod, false, loc)
	dayBefore := FirstFire(anchor, tod, true, loc)

	if !dayBefore.AddDate(0, 0, 1).Equal(dayOf) {
		t.Fatalf("day-before %v is not one calendar day before %v", dayBefore, dayOf)
	}
	if dayBefore.Hour() != 9 || dayBefore.Minute() != 30 {
		t.Fatalf("day-before time of day changed: %v", dayBefore)
	}
}

func TestNextOccurrence_SingleStep(t *testing.T) {
	last := time.Date(2019, time.April, 19, 12, 0, 0, 0, time.UTC)
	now := last.Add(time.Minute)

	next := NextOccurrence(last, now)
	want := last.AddDate(0, 0, CyclePeriodDays)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextOccurrence_CoalescesMissedWindows(t *testing.T) {
	last := time.Date(2019, time.April, 19, 12, 0, 0, 0, time.UTC)
	// Process was down for ~5 cycles.
	now := last.AddDate(0, 0, 5*CyclePeriodDays+3)

	next := NextOccurrence(last, now)
	if !next.After(now) {
		t.Fatalf("next %v is not after now %v", next, now)
	}
	// Phase is preserved: the distance from the original fire time is a
	// whole number of periods.
	days := int(next.Sub(last).Hours() / 24)
	if days%CyclePeriodDays != 0 {
		t.Fatalf("phase lost: %d days from anchor", days)
	}
	// And it is the first such instant: one period back is not after now.
	if next.AddDate(0, 0, -CyclePeriodDays).After(now) {
		t.Fatalf("next %v skipped a valid occurrence", next)
	}
}

func TestAnchorsFor_InvalidCampus(t *testing.T) {
	for _, campus := range []int{0, 5, -1, 100} {
		if _, err := AnchorsFor(campus); err != ErrInvalidCampus {
			t.Fatalf("campus %d: want ErrInvalidCampus, got %v", campus, err)
		}
	}
}

func TestAnchorsFor_EveryCampusHasFourSlots(t *testing.T) {
	for campus := 1; campus <= CampusCount; campus++ {
		anchors, err := AnchorsFor(campus)
		if err != nil {
			t.Fatalf("campus %d: %v", campus, err)
		}
		if len(anchors) != CycleSlots {
			t.Fatalf("campus %d: %d slots", campus, len(anchors))
		}
		nonNil := 0
		for _, a := range anchors {
			if a != nil {
				nonNil++
			}
		}
		if nonNil == 0 {
			t.Fatalf("campus %d: no anchors at all", campus)
		}
	}
}
