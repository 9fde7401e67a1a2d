package bot

import (
	"github.com/calefrey/telegram-bot/internal/session"
	tg "github.com/calefrey/telegram-bot/internal/telegram"
	"github.com/calefrey/telegram-bot/internal/telegram/commands"
)

// Register wires all commands, callbacks, and state handlers into the
// registry and the session manager.
func Register(reg *tg.Registry, h *Handlers) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Greet the bot and show the menu",
	})
	reg.RegisterCommand("/about", commands.Command{
		Handler:     h.About,
		Description: "About this bot",
	})
	reg.RegisterCommand("/debug", commands.Command{
		Handler:     h.Debug,
		Description: "Show runtime counters",
		Hidden:      true,
	})
	reg.RegisterCommand("/upload", commands.Command{
		Handler:     h.Upload,
		Description: "Upload photos to the Impromed Server",
	})
	reg.RegisterCommand("/feedback", commands.Command{
		Handler:     h.Feedback,
		Description: "Send anonymous feedback to management",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel,
		Description: "Cancel the current flow",
	})

	_ = reg.RegisterCallback(cancelCallbackKey, h.CancelCallback)

	session.RegisterHandler(session.StateAwaitingUpload, h.AwaitingUpload)
	session.RegisterHandler(session.StateAwaitingFeedback, h.AwaitingFeedback)
}
