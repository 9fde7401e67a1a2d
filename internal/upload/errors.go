package upload

import "fmt"

// FetchError marks a failure to retrieve photo bytes from the transport.
// The user gets a generic failure notice and is expected to resend.
type FetchError struct {
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch photo: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Code identifies the failure class for handler summary logs.
func (e *FetchError) Code() string {
	return "FETCH_FAILED"
}
