package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"waterbot/internal/config"
	"waterbot/internal/notifier"
	"waterbot/internal/scheduler"
	"waterbot/pkg/logx"
)

const (
	pollInterval   = 60 * time.Second
	separatorWidth = 60
)

// App wires config, logging, the notifier and the scheduler together and
// runs the polling loop.
type App struct {
	cfg  config.Config
	logs *logx.Service
	log  logx.Logger

	notifier *notifier.Service
	sched    *scheduler.Service
}

// New validates cfg and assembles the application. The returned App owns the
// log file; call Close after Run returns.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.LogLevel,
		Console: true,
		File:    logx.FileConfig{Enabled: true, Path: cfg.LogFile},
	})

	n := notifier.New(notifier.Config{
		Token:   cfg.BotToken,
		ChatID:  cfg.ChatID,
		BaseURL: cfg.APIBaseURL,
	}, log.With(logx.String("comp", "notifier")))

	sched, err := scheduler.New(n, scheduler.DefaultEntries(),
		log.With(logx.String("comp", "scheduler")))
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	return &App{cfg: cfg, logs: logs, log: log, notifier: n, sched: sched}, nil
}

// Run verifies connectivity with a test message, prints the startup banner
// and polls the timetable once per minute until ctx is canceled.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("unexpected panic",
				logx.Any("panic", r),
				logx.Stack(string(debug.Stack())))
			err = fmt.Errorf("panic: %v", r)
		}
		a.log.Info("Water Reminder Bot has stopped")
	}()

	a.log.Info("Starting Water Reminder Bot...")

	if !a.notifier.TestConnection(ctx) {
		return errors.New("test message delivery failed, check TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}

	a.log.Info(a.sched.NextReminderDescription())

	sep := strings.Repeat("=", separatorWidth)
	a.log.Info(sep)
	a.log.Info("Water Reminder Bot is now running!")
	a.log.Info("Press Ctrl+C to stop")
	a.log.Info(sep)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		a.sched.Poll(ctx)
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			return nil
		case <-ticker.C:
		}
	}
}

// Close releases resources owned by the app.
func (a *App) Close() error {
	return a.logs.Close()
}
