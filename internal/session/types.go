package session

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingUpload indicates the user entered the upload flow and the
	// bot expects photo messages.
	StateAwaitingUpload State = "awaiting_upload"
	// StateAwaitingFeedback indicates the next text message will be relayed
	// as anonymous feedback.
	StateAwaitingFeedback State = "awaiting_feedback"
)

// Session stores conversation state and the current album burst for a user.
// CaptionBase and PhotoIndex are only meaningful while the user is in
// StateAwaitingUpload with an active burst.
type Session struct {
	State         State
	ActiveGroupID string
	CaptionBase   string
	PhotoIndex    int
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	Get(userID int64) Session
	Update(userID int64, fn func(*Session))

	SetState(userID int64, st State)
	GetState(userID int64) State
	HasState(userID int64) bool
	ClearState(userID int64)
	ResetBurst(userID int64)

	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}
