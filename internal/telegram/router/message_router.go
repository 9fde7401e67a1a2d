package router

import (
	"time"

	tg "github.com/calefrey/telegram-bot/internal/telegram"
	"github.com/calefrey/telegram-bot/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls fallback behaviour for text and photo updates.
type MessageOptions struct {
	UnknownText tele.HandlerFunc
	// IdlePhoto handles photos that arrive outside an upload session.
	IdlePhoto tele.HandlerFunc
}

// MessageRoutes builds handlers for text and photo routing. While a user
// has an active FSM state the state handler wins; otherwise the registry
// commands and fallbacks apply.
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm_photo", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}
		if opts.IdlePhoto != nil {
			return handleWithSummary(c, "idle_photo", start, "", "", func() error {
				return opts.IdlePhoto(c)
			})
		}
		logHandlerSummary(c, "idle_photo", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(photoHandler)),
		},
	}
}
