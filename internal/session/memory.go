package session

import (
	"sync"

	"log/slog"

	"github.com/calefrey/telegram-bot/internal/logger"
	tghelpers "github.com/calefrey/telegram-bot/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs the in-memory Manager implementation.
// Entries are never evicted; an idle user costs one small struct.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// Get returns a snapshot of the session for a user, or a default idle
// session if none exists yet.
func (m *memoryManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if sess, ok := m.sessions[userID]; ok {
		return *sess
	}
	return Session{State: StateIdle}
}

// Update mutates the session for a user under the manager lock, creating
// the session if necessary.
func (m *memoryManager) Update(userID int64, fn func(*Session)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[userID] = sess
	}
	fn(sess)
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.Update(userID, func(sess *Session) {
		sess.State = st
	})
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// ClearState resets the FSM state to idle and discards any in-progress burst.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.State = StateIdle
		sess.ActiveGroupID = ""
		sess.CaptionBase = ""
		sess.PhotoIndex = 0
	}
}

// ResetBurst drops the current burst context while keeping the FSM state,
// so the next photo starts a brand-new burst even if the transport reuses
// a group token.
func (m *memoryManager) ResetBurst(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.ActiveGroupID = ""
		sess.CaptionBase = ""
		sess.PhotoIndex = 0
	}
}

// HasState checks if a user has an active state other than idle.
func (m *memoryManager) HasState(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.HasState(userID)
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
