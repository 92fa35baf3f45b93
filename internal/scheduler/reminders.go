package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
	"github.com/Birdi7/hoteluni-bot/internal/metrics"
	"github.com/Birdi7/hoteluni-bot/internal/store"
)

// Reminders registers, queries and cancels recurring cleaning reminders in
// the durable job store. Each campus has up to four calendar anchors; one
// job per non-nil anchor covers all phase offsets of the 4-week cycle.
type Reminders struct {
	repo store.Repo
	log  *zap.Logger
	loc  *time.Location
}

func NewReminders(repo store.Repo, log *zap.Logger, loc *time.Location) *Reminders {
	return &Reminders{repo: repo, log: log, loc: loc}
}

// Schedule registers one recurring job per non-nil anchor of the campus,
// replacing any job already stored under the same key. Registration is
// best-effort across slots: a failed slot is logged and skipped, the rest
// are still written. Returns the keys written and the first error seen.
func (r *Reminders) Schedule(ctx context.Context, chatID int64, campus int, tod domain.TimeOfDay, dayBefore bool) ([]domain.JobKey, error) {
	anchors, err := domain.AnchorsFor(campus)
	if err != nil {
		return nil, err
	}

	var (
		written  []domain.JobKey
		firstErr error
	)
	for slot, anchor := range anchors {
		if anchor == nil {
			continue
		}
		key := domain.JobKey{ChatID: chatID, Campus: campus, Slot: slot, DayBefore: dayBefore}
		job := &domain.ReminderJob{
			Key:        key.Encode(),
			ChatID:     chatID,
			Campus:     campus,
			Slot:       slot,
			DayBefore:  dayBefore,
			PeriodDays: domain.CyclePeriodDays,
			NextFireAt: domain.FirstFire(*anchor, tod, dayBefore, r.loc).UTC(),
		}
		if err := r.repo.PutJob(ctx, job); err != nil {
			r.log.Error("register reminder job failed",
				zap.String("key", job.Key), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		metrics.RemindersScheduled.WithLabelValues(metrics.Variant(dayBefore)).Inc()
		written = append(written, key)
	}
	return written, firstErr
}

// ActiveDayOfCampuses returns the campuses for which the chat has at least
// one active day-of reminder job.
func (r *Reminders) ActiveDayOfCampuses(ctx context.Context, chatID int64) (map[int]bool, error) {
	return r.activeCampuses(ctx, chatID, false)
}

// ActiveDayBeforeCampuses returns the campuses for which the chat has at
// least one active day-before reminder job.
func (r *Reminders) ActiveDayBeforeCampuses(ctx context.Context, chatID int64) (map[int]bool, error) {
	return r.activeCampuses(ctx, chatID, true)
}

// activeCampuses probes every possible key of the variant: 4 campuses x 4
// slots. Pure read, 16 lookups.
func (r *Reminders) activeCampuses(ctx context.Context, chatID int64, dayBefore bool) (map[int]bool, error) {
	res := make(map[int]bool)
	for campus := 1; campus <= domain.CampusCount; campus++ {
		for slot := 0; slot < domain.CycleSlots; slot++ {
			key := domain.JobKey{ChatID: chatID, Campus: campus, Slot: slot, DayBefore: dayBefore}
			job, err := r.repo.GetJob(ctx, key.Encode())
			if err != nil {
				return nil, err
			}
			if job != nil {
				res[campus] = true
				break
			}
		}
	}
	return res, nil
}

// Cancel removes the chat's jobs for every non-nil anchor slot of the
// campus and variant. Missing keys are no-ops, so cancelling twice is safe;
// the removed count is reported for the caller.
func (r *Reminders) Cancel(ctx context.Context, chatID int64, campus int, dayBefore bool) (int, error) {
	anchors, err := domain.AnchorsFor(campus)
	if err != nil {
		return 0, err
	}

	removed := 0
	for slot, anchor := range anchors {
		if anchor == nil {
			continue
		}
		key := domain.JobKey{ChatID: chatID, Campus: campus, Slot: slot, DayBefore: dayBefore}
		ok, err := r.repo.DeleteJob(ctx, key.Encode())
		if err != nil {
			return removed, err
		}
		if ok {
			metrics.RemindersCancelled.Inc()
			removed++
		}
	}
	return removed, nil
}

// NextScheduled returns the chat's soonest upcoming cleaning date, framed
// the way the user thinks about it: for a day-before job the reported date
// is the cleaning day itself, one day after the fire time. The bool is
// false when nothing is scheduled. Corrupted job rows are logged and
// skipped.
func (r *Reminders) NextScheduled(ctx context.Context, chatID int64) (time.Time, bool, error) {
	jobs, err := r.repo.ListJobsByChat(ctx, chatID)
	if err != nil {
		return time.Time{}, false, err
	}
	for _, job := range jobs {
		key, err := domain.ParseJobKey(job.Key)
		if err != nil {
			r.log.Warn("skipping corrupted job row", zap.String("key", job.Key), zap.Error(err))
			continue
		}
		when := job.NextFireAt
		if key.DayBefore {
			when = when.AddDate(0, 0, 1)
		}
		return when, true, nil
	}
	return time.Time{}, false, nil
}
