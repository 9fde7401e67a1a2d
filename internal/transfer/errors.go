package transfer

import "fmt"

// Error wraps a failed store attempt. Reason carries the raw failure text
// that is surfaced to the user verbatim for manual escalation.
type Error struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("transfer failed: %s", e.Reason)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Code identifies the failure class for handler summary logs.
func (e *Error) Code() string {
	return "TRANSFER_FAILED"
}

func wrap(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Reason: err.Error(), Err: err}
}
