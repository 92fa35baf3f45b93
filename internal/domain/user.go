package domain

import "time"

// User is a known chat's persisted profile. The scheduling core only reads
// Locale; the rest mirrors what Telegram tells us about the account.
type User struct {
	ChatID    int64
	FirstName string
	LastName  string
	Username  string
	Locale    string
	CreatedAt time.Time // UTC
}

// ReminderJob is one registered recurring reminder, owned by the durable
// store and identified by its encoded JobKey token.
type ReminderJob struct {
	Key        string
	ChatID     int64
	Campus     int
	Slot       int
	DayBefore  bool
	PeriodDays int
	NextFireAt time.Time // UTC
	CreatedAt  time.Time // UTC
}
