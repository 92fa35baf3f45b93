package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
	"github.com/Birdi7/hoteluni-bot/internal/store"
)

// Sender is the minimal outbound channel the scheduler needs.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendHTML(chatID int64, text string) error
}

// Runner periodically polls the job store and dispatches due reminders.
type Runner struct {
	repo     store.Repo
	log      *zap.Logger
	notifier *Notifier
	interval time.Duration
}

func NewRunner(repo store.Repo, log *zap.Logger, notifier *Notifier, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Runner{repo: repo, log: log, notifier: notifier, interval: interval}
}

// Run starts the loop until ctx is canceled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("reminder runner stopping")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick performs one cycle: find due jobs, fire each, advance its next fire
// time. Occurrences missed while the process was down collapse into the
// single fire of this tick (see domain.NextOccurrence), so restarts never
// flood a chat. A failed notification still advances the job: delivery is
// best-effort and must never corrupt the recurring schedule.
func (r *Runner) tick(ctx context.Context) {
	now := time.Now().UTC()

	jobs, err := r.repo.ListDueJobs(ctx, now, 100)
	if err != nil {
		r.log.Error("ListDueJobs failed", zap.Error(err))
		return
	}
	for _, job := range jobs {
		if _, err := domain.ParseJobKey(job.Key); err != nil {
			// Corrupted row: do not fire it, but advance it so the scan
			// does not pick it up again every tick.
			r.log.Warn("skipping corrupted job row", zap.String("key", job.Key), zap.Error(err))
		} else {
			r.notifier.Fire(ctx, job)
		}

		next := domain.NextOccurrence(job.NextFireAt, now)
		if err := r.repo.SetJobNextFire(ctx, job.Key, next); err != nil {
			r.log.Error("SetJobNextFire failed", zap.String("key", job.Key), zap.Error(err))
		}
	}
}
