package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleaning_bot_reminders_scheduled_total",
			Help: "Reminder jobs registered or replaced in the job store",
		},
		[]string{"variant"},
	)

	RemindersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaning_bot_reminders_cancelled_total",
			Help: "Reminder jobs removed from the job store",
		},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleaning_bot_reminders_sent_total",
			Help: "Reminder notifications delivered, by variant",
		},
		[]string{"variant"},
	)

	ReminderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaning_bot_reminder_fallbacks_total",
			Help: "Localized reminder sends that fell back to the fixed-language text",
		},
	)

	ReminderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaning_bot_reminder_failures_total",
			Help: "Reminders that could not be delivered at all",
		},
	)

	BroadcastSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaning_bot_broadcast_sent_total",
			Help: "Broadcast messages delivered to recipients",
		},
	)

	BroadcastSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaning_bot_broadcast_skipped_total",
			Help: "Broadcast recipients skipped after a transport error",
		},
	)
)

// Variant label values for reminder metrics.
const (
	VariantDayOf     = "day_of"
	VariantDayBefore = "day_before"
)

// Variant maps the day-before flag to its metric label.
func Variant(dayBefore bool) string {
	if dayBefore {
		return VariantDayBefore
	}
	return VariantDayOf
}
