// Package feedback forwards user-submitted feedback to a broadcast chat.
// Messages are relayed verbatim and never persisted; the sender's identity
// is deliberately left out so feedback stays anonymous.
package feedback

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/calefrey/telegram-bot/internal/logger"

	tele "gopkg.in/telebot.v4"
)

// Sender is the outbound half of the Telegram API used by the relay.
// *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// destination lets a channel username like "@avcfeedback" act as a recipient.
type destination string

// Recipient implements tele.Recipient.
func (d destination) Recipient() string {
	return string(d)
}

// Error wraps a failed relay attempt.
type Error struct {
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("feedback relay: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Code identifies the failure class for handler summary logs.
func (e *Error) Code() string {
	return "FEEDBACK_FAILED"
}

// Relay posts feedback text to the configured broadcast chat.
type Relay struct {
	sender Sender
	chat   string
}

// NewRelay builds a Relay targeting the given chat. The chat may be a
// channel username ("@avcfeedback") or a numeric chat ID in string form.
func NewRelay(sender Sender, chat string) *Relay {
	return &Relay{sender: sender, chat: chat}
}

// Send relays the text verbatim to the broadcast chat. The text is not
// logged and the sending user is unknown to this layer.
func (r *Relay) Send(ctx context.Context, text string) error {
	if _, err := r.sender.Send(destination(r.chat), text); err != nil {
		logger.Error(ctx, "service.feedback", "feedback.relay",
			slog.String("err", err.Error()),
		)
		return &Error{Err: err}
	}
	logger.Info(ctx, "service.feedback", "feedback.relay",
		slog.String("status", "ok"),
	)
	return nil
}
