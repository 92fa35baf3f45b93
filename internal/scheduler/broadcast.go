package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/metrics"
	"github.com/Birdi7/hoteluni-bot/internal/store"
)

// Broadcaster delivers an admin message to every known user. Failed
// recipients are skipped, not retried, and sends are paced to respect
// outbound rate limits.
type Broadcaster struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender
	pace   time.Duration
}

func NewBroadcaster(repo store.Repo, log *zap.Logger, sender Sender) *Broadcaster {
	return &Broadcaster{repo: repo, log: log, sender: sender, pace: 500 * time.Millisecond}
}

// Broadcast sends text to all users, sleeping b.pace between sends. It
// returns the number delivered; a per-recipient failure never aborts the
// remaining sends, only ctx cancellation does.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (int, error) {
	users, err := b.repo.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i, u := range users {
		if err := b.sender.SendMessage(u.ChatID, text); err != nil {
			metrics.BroadcastSkipped.Inc()
			b.log.Warn("broadcast recipient skipped",
				zap.Int64("chat_id", u.ChatID), zap.Error(err))
		} else {
			metrics.BroadcastSent.Inc()
			sent++
		}

		if i == len(users)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		case <-time.After(b.pace):
		}
	}
	return sent, nil
}
