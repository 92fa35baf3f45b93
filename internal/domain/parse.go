package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid time of day")

// ParseTimeOfDay parses "HH:MM" (also accepts "H:MM") into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour in %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute in %q", ErrInvalidTime, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// ParseCampus converts conversational input ("1".."4") into a campus number.
func ParseCampus(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !ValidCampus(n) {
		return 0, ErrInvalidCampus
	}
	return n, nil
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// LocalizeDate formats t in the given location as a human date with weekday,
// matching the /peek output of the bot.
func LocalizeDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 (Monday)")
}
