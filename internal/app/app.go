// Package app wires configuration, services, and the Telegram runtime into
// a runnable bot process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/calefrey/telegram-bot/internal/bot"
	"github.com/calefrey/telegram-bot/internal/config"
	"github.com/calefrey/telegram-bot/internal/feedback"
	"github.com/calefrey/telegram-bot/internal/logger"
	"github.com/calefrey/telegram-bot/internal/metrics"
	"github.com/calefrey/telegram-bot/internal/session"
	tg "github.com/calefrey/telegram-bot/internal/telegram"
	"github.com/calefrey/telegram-bot/internal/telegram/router"
	"github.com/calefrey/telegram-bot/internal/transfer"
	"github.com/calefrey/telegram-bot/internal/upload"
)

// App aggregates the wired services of the bot process.
type App struct {
	cfg      *config.Config
	metrics  *metrics.Metrics
	sessions session.Manager
	gateway  *bot.Gateway
	handlers *bot.Handlers
	registry *tg.Registry
}

// New initializes the logger and builds the full service graph.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	m := metrics.New()
	sessions := session.NewMemoryManager()
	gateway := bot.NewGateway(m)

	uploader := upload.New(sessions, gateway, transfer.NewFTPClient(cfg.FTP), m, cfg.Upload.TempDir)
	relay := feedback.NewRelay(gateway, cfg.Feedback.Chat)
	handlers := bot.NewHandlers(sessions, uploader, relay, m, cfg.Upload.EscalationContact)

	reg := tg.NewRegistry()
	bot.Register(reg, handlers)
	router.SetMetrics(m)

	return &App{
		cfg:      cfg,
		metrics:  m,
		sessions: sessions,
		gateway:  gateway,
		handlers: handlers,
		registry: reg,
	}, nil
}

// TelegramRunOptions assembles routes, middlewares, and lifecycle hooks for
// the Telegram runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.MessageRoutes(a.sessions, a.registry, router.MessageOptions{
		IdlePhoto: a.handlers.IdlePhoto,
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	var metricsSrv *http.Server

	opts := tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, a.metrics, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.gateway.Bind(rt.Bot)
			metricsSrv = a.startMetricsServer()
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			if metricsSrv != nil {
				shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metricsSrv.Shutdown(shCtx)
			}
			return nil
		},
	}
	return opts, nil
}

func (a *App) startMetricsServer() *http.Server {
	listen := strings.TrimSpace(a.cfg.Metrics.Listen)
	if listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(context.Background(), "app", "metrics.listen",
			slog.String("listen", listen),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "app", "metrics.listen",
				slog.String("listen", listen),
				slog.String("err", err.Error()),
			)
		}
	}()
	return srv
}
