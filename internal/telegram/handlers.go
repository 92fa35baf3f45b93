package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/domain"
)

// --- Profile ---

// ensureUser upserts the chat's profile from the incoming message so that
// broadcasts and locale lookups know about everyone who talked to the bot.
func (r *Router) ensureUser(ctx context.Context, msg *tgbotapi.Message) {
	u := &domain.User{
		ChatID: msg.Chat.ID,
		Locale: r.defaultLoc,
	}
	if existing, err := r.repo.GetUser(ctx, msg.Chat.ID); err == nil && existing.Locale != "" {
		u.Locale = existing.Locale
	}
	if from := msg.From; from != nil {
		u.FirstName = from.FirstName
		u.LastName = from.LastName
		u.Username = from.UserName
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("upsert user failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	r.ensureUser(ctx, msg)
	r.reply(ctx, msg.Chat.ID, "start")
}

func (r *Router) handleHelp(ctx context.Context, chatID int64) {
	name := ""
	if u, err := r.repo.GetUser(ctx, chatID); err == nil {
		name = u.FirstName
		if name == "" {
			name = u.Username
		}
	}
	r.reply(ctx, chatID, "help", name)
}

func (r *Router) handleCancel(ctx context.Context, chatID int64) {
	r.clearPending(chatID)
	r.reply(ctx, chatID, "cancelled")
}

// --- Language flow ---

func (r *Router) handleLanguage(ctx context.Context, chatID int64) {
	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_language"))
	msg.ReplyMarkup = languageKeyboard(r.msgs.Locales())
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send language keyboard failed", zap.Error(err))
	}
}

func (r *Router) handleLanguageCallback(ctx context.Context, chatID int64, data string) {
	locale := strings.TrimPrefix(data, cbLanguage)
	if !r.msgs.Has(locale) {
		return
	}
	if err := r.repo.SetLocale(ctx, chatID, locale); err != nil {
		r.log.Error("set locale failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}
	r.reply(ctx, chatID, "language_set")
}

// --- Reminder setup flow: /on → variant → campus → time ---

func (r *Router) handleOn(ctx context.Context, chatID int64) {
	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_variant"))
	msg.ReplyMarkup = variantKeyboard(
		cbOnVariant,
		r.msgs.Render(locale, "variant_day_of"),
		r.msgs.Render(locale, "variant_day_before"),
	)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send variant keyboard failed", zap.Error(err))
	}
}

func (r *Router) handleOnVariantCallback(ctx context.Context, chatID int64, data string) {
	dayBefore := strings.TrimPrefix(data, cbOnVariant) == "1"
	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_campus"))
	msg.ReplyMarkup = campusKeyboard(dayBefore)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send campus keyboard failed", zap.Error(err))
	}
}

func (r *Router) handleOnCampusCallback(ctx context.Context, chatID int64, data string) {
	parts := strings.Split(strings.TrimPrefix(data, cbOnCampus), ":")
	if len(parts) != 2 {
		return
	}
	dayBefore := parts[0] == "1"
	campus, err := domain.ParseCampus(parts[1])
	if err != nil {
		r.reply(ctx, chatID, "invalid_campus")
		return
	}

	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_time"))
	msg.ReplyMarkup = timeKeyboard(dayBefore, campus, r.msgs.Render(locale, "custom_time"))
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send time keyboard failed", zap.Error(err))
	}
}

func (r *Router) handleOnTimeCallback(ctx context.Context, chatID int64, data string) {
	parts := strings.Split(strings.TrimPrefix(data, cbOnTime), ":")
	// <flag>:<campus>:<HH>:<MM>
	if len(parts) != 4 {
		return
	}
	dayBefore := parts[0] == "1"
	campus, err := domain.ParseCampus(parts[1])
	if err != nil {
		r.reply(ctx, chatID, "invalid_campus")
		return
	}
	tod, err := domain.ParseTimeOfDay(parts[2] + ":" + parts[3])
	if err != nil {
		r.reply(ctx, chatID, "invalid_time")
		return
	}
	r.finishSetup(ctx, chatID, campus, tod, dayBefore)
}

func (r *Router) handleOnTimeCustomCallback(ctx context.Context, chatID int64, data string) {
	parts := strings.Split(strings.TrimPrefix(data, cbOnTimeCustom), ":")
	if len(parts) != 2 {
		return
	}
	campus, err := domain.ParseCampus(parts[1])
	if err != nil {
		r.reply(ctx, chatID, "invalid_campus")
		return
	}
	r.setPending(chatID, pendingFlow{kind: pendingCustomTime, campus: campus, dayBefore: parts[0] == "1"})
	r.reply(ctx, chatID, "enter_time")
}

// finishSetup acknowledges the dialog and registers the jobs in the
// background. The durable store is authoritative, not process memory, so
// the user is told "set" before registration is guaranteed; failures are
// logged, not surfaced.
func (r *Router) finishSetup(ctx context.Context, chatID int64, campus int, tod domain.TimeOfDay, dayBefore bool) {
	r.reply(ctx, chatID, "reminder_set")

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		keys, err := r.reminders.Schedule(bgCtx, chatID, campus, tod, dayBefore)
		if err != nil {
			r.log.Error("background reminder registration failed",
				zap.Int64("chat_id", chatID),
				zap.Int("campus", campus),
				zap.Int("registered", len(keys)),
				zap.Error(err))
			return
		}
		r.log.Info("reminder registered",
			zap.Int64("chat_id", chatID),
			zap.Int("campus", campus),
			zap.Bool("day_before", dayBefore),
			zap.String("time", tod.String()),
			zap.Int("jobs", len(keys)))
	}()
}

// --- Reminder teardown flow: /off → (variant) → campus ---

func (r *Router) handleOff(ctx context.Context, chatID int64) {
	dayOf, err := r.reminders.ActiveDayOfCampuses(ctx, chatID)
	if err != nil {
		r.log.Error("probe day-of reminders failed", zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}
	dayBefore, err := r.reminders.ActiveDayBeforeCampuses(ctx, chatID)
	if err != nil {
		r.log.Error("probe day-before reminders failed", zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}

	switch {
	case len(dayOf) == 0 && len(dayBefore) == 0:
		r.reply(ctx, chatID, "no_reminders")
	case len(dayOf) > 0 && len(dayBefore) > 0:
		locale := r.userLocale(ctx, chatID)
		msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_variant_off"))
		msg.ReplyMarkup = variantKeyboard(
			cbOffVariant,
			r.msgs.Render(locale, "variant_day_of"),
			r.msgs.Render(locale, "variant_day_before"),
		)
		if _, err := r.bot.Send(msg); err != nil {
			r.log.Warn("send off-variant keyboard failed", zap.Error(err))
		}
	default:
		// Only one variant is active: skip the question.
		r.sendOffCampusKeyboard(ctx, chatID, len(dayBefore) > 0, dayOf, dayBefore)
	}
}

func (r *Router) handleOffVariantCallback(ctx context.Context, chatID int64, data string) {
	dayBefore := strings.TrimPrefix(data, cbOffVariant) == "1"
	var (
		active map[int]bool
		err    error
	)
	if dayBefore {
		active, err = r.reminders.ActiveDayBeforeCampuses(ctx, chatID)
	} else {
		active, err = r.reminders.ActiveDayOfCampuses(ctx, chatID)
	}
	if err != nil {
		r.log.Error("probe reminders failed", zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}
	if len(active) == 0 {
		r.reply(ctx, chatID, "no_reminders")
		return
	}

	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_campus"))
	msg.ReplyMarkup = activeCampusKeyboard(active, dayBefore)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send off-campus keyboard failed", zap.Error(err))
	}
}

func (r *Router) sendOffCampusKeyboard(ctx context.Context, chatID int64, dayBefore bool, dayOf, dayBeforeSet map[int]bool) {
	active := dayOf
	if dayBefore {
		active = dayBeforeSet
	}
	locale := r.userLocale(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, r.msgs.Render(locale, "choose_campus"))
	msg.ReplyMarkup = activeCampusKeyboard(active, dayBefore)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send off-campus keyboard failed", zap.Error(err))
	}
}

func (r *Router) handleOffCampusCallback(ctx context.Context, chatID int64, data string) {
	parts := strings.Split(strings.TrimPrefix(data, cbOffCampus), ":")
	if len(parts) != 2 {
		return
	}
	dayBefore := parts[0] == "1"
	campus, err := domain.ParseCampus(parts[1])
	if err != nil {
		r.reply(ctx, chatID, "invalid_campus")
		return
	}

	// Cancellation is synchronous: the user is waiting for the result, so
	// a store failure is surfaced instead of acknowledged away.
	removed, err := r.reminders.Cancel(ctx, chatID, campus, dayBefore)
	if err != nil {
		r.log.Error("cancel reminders failed",
			zap.Int64("chat_id", chatID), zap.Int("campus", campus), zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}
	r.log.Info("reminder cancelled",
		zap.Int64("chat_id", chatID),
		zap.Int("campus", campus),
		zap.Bool("day_before", dayBefore),
		zap.Int("removed", removed))
	r.reply(ctx, chatID, "reminder_off")
}

// --- Peek ---

func (r *Router) handlePeek(ctx context.Context, chatID int64) {
	when, ok, err := r.reminders.NextScheduled(ctx, chatID)
	if err != nil {
		r.log.Error("peek failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.reply(ctx, chatID, "try_again_later")
		return
	}
	if !ok {
		r.reply(ctx, chatID, "peek_none")
		return
	}
	r.reply(ctx, chatID, "peek_scheduled", domain.LocalizeDate(when, r.loc))
}

// --- Admin broadcast ---

func (r *Router) handleBroadcastCommand(ctx context.Context, chatID int64) {
	if !r.isAdmin(chatID) {
		return
	}
	r.setPending(chatID, pendingFlow{kind: pendingBroadcast})
	r.reply(ctx, chatID, "ask_broadcast")
}

// --- Free-form dispatcher ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	pending := r.getPending(chatID)
	switch pending.kind {
	case pendingCustomTime:
		tod, err := domain.ParseTimeOfDay(text)
		if err != nil {
			r.reply(ctx, chatID, "invalid_time")
			return
		}
		r.clearPending(chatID)
		r.finishSetup(ctx, chatID, pending.campus, tod, pending.dayBefore)

	case pendingBroadcast:
		r.clearPending(chatID)
		if !r.isAdmin(chatID) {
			return
		}
		r.reply(ctx, chatID, "broadcast_queued")
		go func() {
			sent, err := r.broadcaster.Broadcast(context.Background(), text)
			if err != nil {
				r.log.Error("broadcast failed", zap.Int("sent", sent), zap.Error(err))
				return
			}
			r.log.Info("broadcast finished", zap.Int("sent", sent))
		}()

	default:
		// No pending flow: ignore free-form message
	}
}
