package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/i18n"
	"github.com/Birdi7/hoteluni-bot/internal/scheduler"
	"github.com/Birdi7/hoteluni-bot/internal/store"
)

// Pending state kinds used in conversational flows. Everything else the
// flows need (campus, variant) travels inside callback data, so only the
// free-form steps keep per-chat state.
const (
	pendingCustomTime = "await_custom_time"
	pendingBroadcast  = "await_broadcast_text"
)

// pendingFlow is the in-memory state of a chat's unfinished dialog.
type pendingFlow struct {
	kind      string
	campus    int
	dayBefore bool
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot         *tgbotapi.BotAPI
	log         *zap.Logger
	repo        store.Repo
	reminders   *scheduler.Reminders
	broadcaster *scheduler.Broadcaster
	msgs        *i18n.Bundle
	defaultLoc  string
	loc         *time.Location
	isAdmin     func(chatID int64) bool

	state map[int64]pendingFlow
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(
	bot *tgbotapi.BotAPI,
	log *zap.Logger,
	repo store.Repo,
	reminders *scheduler.Reminders,
	msgs *i18n.Bundle,
	defaultLocale string,
	loc *time.Location,
	isAdmin func(chatID int64) bool,
) *Router {
	return &Router{
		bot:        bot,
		log:        log,
		repo:       repo,
		reminders:  reminders,
		msgs:       msgs,
		defaultLoc: defaultLocale,
		loc:        loc,
		isAdmin:    isAdmin,
		state:      make(map[int64]pendingFlow),
	}
}

// AttachBroadcaster wires the broadcast service in after construction: the
// broadcaster sends through this router, so it cannot exist before it.
func (r *Router) AttachBroadcaster(b *scheduler.Broadcaster) {
	r.broadcaster = b
}

func (r *Router) setPending(chatID int64, f pendingFlow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = f
}

func (r *Router) getPending(chatID int64) pendingFlow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, msg)
		case strings.HasPrefix(text, "/help"):
			r.handleHelp(ctx, chatID)
		case strings.HasPrefix(text, "/language"):
			r.handleLanguage(ctx, chatID)
		case strings.HasPrefix(text, "/on"):
			r.handleOn(ctx, chatID)
		case strings.HasPrefix(text, "/off"):
			r.handleOff(ctx, chatID)
		case strings.HasPrefix(text, "/peek"):
			r.handlePeek(ctx, chatID)
		case strings.HasPrefix(text, "/cancel"):
			r.handleCancel(ctx, chatID)
		case strings.HasPrefix(text, "/send_to_everyone"):
			r.handleBroadcastCommand(ctx, chatID)
		default:
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		data := cb.Data
		chatID := cb.Message.Chat.ID
		_ = r.answerCallback(cb.ID)

		switch {
		case strings.HasPrefix(data, cbLanguage):
			r.handleLanguageCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOnVariant):
			r.handleOnVariantCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOnCampus):
			r.handleOnCampusCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOnTimeCustom):
			r.handleOnTimeCustomCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOnTime):
			r.handleOnTimeCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOffVariant):
			r.handleOffVariantCallback(ctx, chatID, data)
		case strings.HasPrefix(data, cbOffCampus):
			r.handleOffCampusCallback(ctx, chatID, data)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// userLocale resolves the chat's display locale, falling back to the
// configured default.
func (r *Router) userLocale(ctx context.Context, chatID int64) string {
	u, err := r.repo.GetUser(ctx, chatID)
	if err != nil || u.Locale == "" || !r.msgs.Has(u.Locale) {
		return r.defaultLoc
	}
	return u.Locale
}

// reply renders a localized message and sends it as plain text.
func (r *Router) reply(ctx context.Context, chatID int64, key string, args ...any) {
	if err := r.SendMessage(chatID, r.msgs.Render(r.userLocale(ctx, chatID), key, args...)); err != nil {
		r.log.Warn("reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, ""))
	return err
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendHTML sends an HTML-formatted message to the given chat.
func (r *Router) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(msg)
	return err
}
