package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/calefrey/telegram-bot/internal/logger"
	"github.com/calefrey/telegram-bot/internal/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendNow sends raw text synchronously, bypassing the dispatcher. Use it
// for multi-message sequences whose relative order the user depends on.
func SendNow(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if len(opts) > 0 && opts[0] != nil {
		return c.Send(text, opts[0])
	}
	return c.Send(text)
}

// ReplyText replies to the triggering message with raw text.
// Replies stay synchronous so the confirmation lands before the next
// photo of an album is processed.
func ReplyText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if len(opts) > 0 && opts[0] != nil {
		return c.Reply(text, opts[0])
	}
	return c.Reply(text)
}
