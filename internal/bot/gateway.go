package bot

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/calefrey/telegram-bot/internal/metrics"

	tele "gopkg.in/telebot.v4"
)

// ErrNotBound is returned when the gateway is used before the bot exists.
var ErrNotBound = errors.New("bot: gateway not bound")

// Gateway adapts a live *tele.Bot to the service-facing interfaces. The bot
// instance only exists once the runtime is up, so services are wired against
// the gateway and the bot is bound in the start hook.
type Gateway struct {
	bot     atomic.Pointer[tele.Bot]
	metrics *metrics.Metrics
}

// NewGateway returns an unbound gateway.
func NewGateway(m *metrics.Metrics) *Gateway {
	return &Gateway{metrics: m}
}

// Bind attaches the live bot instance.
func (g *Gateway) Bind(bot *tele.Bot) {
	g.bot.Store(bot)
}

// Fetch streams the file identified by fileID from the Telegram servers.
// It implements upload.FileFetcher.
func (g *Gateway) Fetch(_ context.Context, fileID string) (io.ReadCloser, error) {
	bot := g.bot.Load()
	if bot == nil {
		return nil, ErrNotBound
	}
	return bot.File(&tele.File{FileID: fileID})
}

// Send forwards a message through the bot API. It implements feedback.Sender.
func (g *Gateway) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	bot := g.bot.Load()
	if bot == nil {
		return nil, ErrNotBound
	}
	msg, err := bot.Send(to, what, opts...)
	if err == nil && g.metrics != nil {
		g.metrics.MessageSent()
	}
	return msg, err
}
