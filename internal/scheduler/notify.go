package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
	"github.com/Birdi7/hoteluni-bot/internal/i18n"
	"github.com/Birdi7/hoteluni-bot/internal/metrics"
	"github.com/Birdi7/hoteluni-bot/internal/store"
)

// Notifier renders and delivers one reminder occurrence. Delivery is
// best-effort: a transport failure triggers exactly one fixed-language
// fallback send, and a second failure is only logged.
type Notifier struct {
	repo          store.Repo
	log           *zap.Logger
	sender        Sender
	msgs          *i18n.Bundle
	defaultLocale string
}

func NewNotifier(repo store.Repo, log *zap.Logger, sender Sender, msgs *i18n.Bundle, defaultLocale string) *Notifier {
	return &Notifier{repo: repo, log: log, sender: sender, msgs: msgs, defaultLocale: defaultLocale}
}

// Fire sends the localized reminder for one due job.
func (n *Notifier) Fire(ctx context.Context, job domain.ReminderJob) {
	locale := n.defaultLocale
	if u, err := n.repo.GetUser(ctx, job.ChatID); err == nil && u.Locale != "" {
		locale = u.Locale
	}

	msgKey := "reminder_day_of"
	if job.DayBefore {
		msgKey = "reminder_day_before"
	}
	text := n.msgs.Render(locale, msgKey, job.Campus)

	err := n.sender.SendHTML(job.ChatID, text)
	if err == nil {
		metrics.RemindersSent.WithLabelValues(metrics.Variant(job.DayBefore)).Inc()
		return
	}
	n.log.Warn("reminder send failed, falling back",
		zap.Int64("chat_id", job.ChatID),
		zap.Int("campus", job.Campus),
		zap.String("locale", locale),
		zap.Error(err))

	metrics.ReminderFallbacks.Inc()
	fallback := fmt.Sprintf("Сегодня уборка в кампусе <b>%d</b>", job.Campus)
	if job.DayBefore {
		fallback = fmt.Sprintf("Завтра уборка в кампусе <b>%d</b>", job.Campus)
	}
	if err := n.sender.SendHTML(job.ChatID, fallback); err != nil {
		metrics.ReminderFailures.Inc()
		n.log.Error("reminder fallback send failed",
			zap.Int64("chat_id", job.ChatID),
			zap.Int("campus", job.Campus),
			zap.Error(err))
	} else {
		metrics.RemindersSent.WithLabelValues(metrics.Variant(job.DayBefore)).Inc()
	}
}
