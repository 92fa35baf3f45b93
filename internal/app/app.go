package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Birdi7/hoteluni-bot/internal/config"
	"github.com/Birdi7/hoteluni-bot/internal/i18n"
	"github.com/Birdi7/hoteluni-bot/internal/scheduler"
	"github.com/Birdi7/hoteluni-bot/internal/store"
	"github.com/Birdi7/hoteluni-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	runner  *scheduler.Runner
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting hoteluni-bot",
		zap.String("tz", a.cfg.Timezone),
		zap.String("http", a.cfg.HTTPAddr),
	)

	loc, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", a.cfg.Timezone, err)
	}

	msgs, err := i18n.Load(a.cfg.DefaultLocale)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	reminders := scheduler.NewReminders(repo, a.log, loc)
	a.router = telegram.NewRouter(a.bot, a.log, repo, reminders, msgs, a.cfg.DefaultLocale, loc, a.cfg.IsAdmin)
	a.router.AttachBroadcaster(scheduler.NewBroadcaster(repo, a.log, a.router))

	notifier := scheduler.NewNotifier(repo, a.log, a.router, msgs, a.cfg.DefaultLocale)
	a.runner = scheduler.NewRunner(repo, a.log, notifier, a.cfg.PollInterval())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()
	go a.runner.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			// Create a short-lived shutdown context and cancel it immediately after use.
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
