package bot

import (
	"strings"

	"github.com/calefrey/telegram-bot/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const (
	botURL    = "https://t.me/alphavetbot"
	sourceURL = "https://github.com/calefrey/telegram-bot"

	defaultEscalationContact = "Caleb"
)

var welcomeMessage = strings.Join([]string{
	"Welcome to the Alpha Vet Care Telegram Bot!",
	"I can upload photos to the Impromed Server and submit anonymous feedback to management for you.",
}, "\n")

var uploadInstructionsMessage = strings.Join([]string{
	"To Upload a photo to the Impromed Server, touch the paperclip below, and select a photo.",
	"If you add a caption to the photo it will be uses as the filename.",
	"You can even upload multiple photos at once",
	"To cancel, tap /cancel",
}, "\n")

var feedbackMessage = strings.Join([]string{
	"Your next message will be submitted, anonymously, as feedback to management.",
	"You can treat it like a suggestions box, but without the ability to recognize handwriting.",
	"This bot does not record any of this information. It just passes it along.",
	"To cancel, tap /cancel",
}, "\n")

const (
	noPhotoMessage     = "I don't see a photo. Try again or tap /cancel"
	idlePhotoMessage   = "If you want to upload a photo, tap /upload first."
	uploadingMessage   = "Uploading..."
	uploadFailMessage  = "Failed to upload."
	feedbackThanks     = "Thanks for your feedback!"
	cancelledMessage   = "Cancelled"
	escalationTemplate = "Please send the message below to %s:"
)

func menuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{"/upload", "/feedback", "/about"})
}

func cancelKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{"/cancel"})
}

func aboutMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{*markup.URL("Tap here to message me!", botURL).Inline()},
		{*markup.URL("Tap here to view my source code", sourceURL).Inline()},
	}
	return markup
}
