// Package bot holds the user-facing flow handlers: the photo intake flow,
// the anonymous feedback flow, and the informational commands around them.
package bot

import (
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"github.com/calefrey/telegram-bot/internal/album"
	"github.com/calefrey/telegram-bot/internal/buildinfo"
	"github.com/calefrey/telegram-bot/internal/feedback"
	"github.com/calefrey/telegram-bot/internal/logger"
	"github.com/calefrey/telegram-bot/internal/metrics"
	"github.com/calefrey/telegram-bot/internal/session"
	tghelpers "github.com/calefrey/telegram-bot/internal/telegram/helpers"
	"github.com/calefrey/telegram-bot/internal/telegram/keyboard"
	"github.com/calefrey/telegram-bot/internal/transfer"
	"github.com/calefrey/telegram-bot/internal/upload"

	tele "gopkg.in/telebot.v4"
)

// cancelCallbackKey is the unique of the inline cancel button attached to
// flow prompts.
const cancelCallbackKey = "cancel_flow"

// Handlers wires the session manager and services into Telegram handlers.
type Handlers struct {
	sessions session.Manager
	uploader *upload.Orchestrator
	relay    *feedback.Relay
	metrics  *metrics.Metrics

	escalationContact string
}

// NewHandlers builds the handler set. escalationContact may be empty to use
// the default name shown in failure notices.
func NewHandlers(sessions session.Manager, uploader *upload.Orchestrator, relay *feedback.Relay, m *metrics.Metrics, escalationContact string) *Handlers {
	if strings.TrimSpace(escalationContact) == "" {
		escalationContact = defaultEscalationContact
	}
	return &Handlers{
		sessions:          sessions,
		uploader:          uploader,
		relay:             relay,
		metrics:           m,
		escalationContact: escalationContact,
	}
}

// Start greets the user and shows the main menu.
func (h *Handlers) Start(c tele.Context) error {
	return tghelpers.SendText(c, welcomeMessage, &tele.SendOptions{ReplyMarkup: menuKeyboard()})
}

// About replies with version info and deep links.
func (h *Handlers) About(c tele.Context) error {
	text := strings.Join([]string{
		fmt.Sprintf("AVC Telegram Bot, v%s.", buildinfo.Version),
		"To start a conversation with me, tap the button below.",
	}, "\n")
	return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: aboutMarkup()})
}

// Debug reports runtime counters. Counters reset on restart.
func (h *Handlers) Debug(c tele.Context) error {
	text := fmt.Sprintf("AVC Telegram Bot, version %s\nStarted at %s\nProcessed %d pictures",
		buildinfo.Version,
		h.metrics.StartedAt().Format("01/02/2006, 15:04:05"),
		h.metrics.PhotosProcessed(),
	)
	return tghelpers.SendText(c, text)
}

// Upload enters the photo intake flow. A fresh /upload never continues a
// previous album's numbering.
func (h *Handlers) Upload(c tele.Context) error {
	userID := c.Sender().ID
	h.sessions.SetState(userID, session.StateAwaitingUpload)
	h.sessions.ResetBurst(userID)
	return tghelpers.SendText(c, uploadInstructionsMessage, &tele.SendOptions{ReplyMarkup: cancelKeyboard()})
}

// Feedback enters the anonymous feedback flow.
func (h *Handlers) Feedback(c tele.Context) error {
	h.sessions.SetState(c.Sender().ID, session.StateAwaitingFeedback)
	return tghelpers.SendText(c, feedbackMessage, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
}

// Cancel aborts whatever flow is active and returns the user to the menu.
func (h *Handlers) Cancel(c tele.Context) error {
	h.sessions.ClearState(c.Sender().ID)
	return tghelpers.SendText(c, cancelledMessage, &tele.SendOptions{ReplyMarkup: menuKeyboard()})
}

// CancelCallback handles the inline cancel button the same way as /cancel.
func (h *Handlers) CancelCallback(c tele.Context) error {
	h.sessions.ClearState(c.Sender().ID)
	return tghelpers.SendText(c, cancelledMessage, &tele.SendOptions{ReplyMarkup: menuKeyboard()})
}

// IdlePhoto handles a photo that arrives with no upload flow active.
// The photo is not processed; the user is pointed at /upload instead.
func (h *Handlers) IdlePhoto(c tele.Context) error {
	return tghelpers.SendText(c, idlePhotoMessage)
}

// AwaitingUpload consumes events while the user is in the upload flow.
// Photos run through the upload pipeline; anything else gets a reprompt and
// leaves the state unchanged.
func (h *Handlers) AwaitingUpload(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		markup := keyboard.SingleCancelMarkup(cancelCallbackKey)
		return tghelpers.SendText(c, noPhotoMessage, &tele.SendOptions{ReplyMarkup: markup})
	}

	ctx := tghelpers.BuildContext(c)
	user := c.Sender()

	if err := tghelpers.ReplyText(c, uploadingMessage); err != nil {
		logger.Warn(ctx, "tg", "reply.uploading",
			slog.String("err", err.Error()),
		)
	}

	res := h.uploader.HandlePhoto(ctx, upload.Photo{
		UserID:   user.ID,
		FileID:   msg.Photo.FileID,
		GroupID:  msg.AlbumID,
		Caption:  msg.Caption,
		Initials: album.Initials(user.FirstName, user.LastName),
	})
	if res.OK() {
		return tghelpers.SendText(c,
			fmt.Sprintf("Uploaded as %s", res.Filename),
			&tele.SendOptions{ReplyMarkup: menuKeyboard()},
		)
	}
	return h.reportUploadFailure(c, res.Err)
}

// reportUploadFailure mirrors the manual escalation path: a generic notice,
// a pointer at the escalation contact, then the raw failure text verbatim
// so it can be forwarded as-is. Fetch failures never expose their cause;
// the user just retries.
func (h *Handlers) reportUploadFailure(c tele.Context, err error) error {
	var ferr *upload.FetchError
	if errors.As(err, &ferr) {
		_ = tghelpers.SendNow(c, uploadFailMessage, &tele.SendOptions{ReplyMarkup: menuKeyboard()})
		return err
	}

	// The sequence bypasses the async dispatcher so the raw reason always
	// arrives last, directly under the notice it belongs to.
	_ = tghelpers.SendNow(c, uploadFailMessage)
	_ = tghelpers.SendNow(c,
		fmt.Sprintf(escalationTemplate, h.escalationContact),
		&tele.SendOptions{ReplyMarkup: menuKeyboard()},
	)

	reason := err.Error()
	var terr *transfer.Error
	if errors.As(err, &terr) {
		reason = terr.Reason
	}
	_ = tghelpers.SendNow(c, reason)
	return err
}

// AwaitingFeedback consumes the next text message as the feedback body.
func (h *Handlers) AwaitingFeedback(c tele.Context) error {
	text := c.Text()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	h.sessions.ClearState(c.Sender().ID)

	// Acknowledge first; the relay is fire-and-forget and one submission
	// closes the flow whether or not the broadcast send succeeds.
	_ = tghelpers.SendText(c, feedbackThanks, &tele.SendOptions{ReplyMarkup: menuKeyboard()})
	return h.relay.Send(ctx, text)
}
