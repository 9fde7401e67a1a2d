package session

import tele "gopkg.in/telebot.v4"

var fsmHandlers = map[State]tele.HandlerFunc{}

// RegisterHandler associates a state with the handler invoked for
// mid-flow (non-command) messages while the user is in that state.
func RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	fsmHandlers[st] = h
}
