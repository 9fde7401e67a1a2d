// Package session provides the per-user FSM that drives the upload and
// feedback conversations. Sessions are created lazily on first contact and
// kept in memory for the lifetime of the process.
package session
