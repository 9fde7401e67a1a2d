// Package transfer pushes named byte blobs to the remote storage endpoint.
package transfer

import (
	"context"
	"io"
)

// Client stores a named blob on the remote endpoint. Every call is
// independent; implementations set up and tear down their own connection.
type Client interface {
	Store(ctx context.Context, filename string, r io.Reader) error
}

// ClientFunc adapts a bare function to the Client interface.
type ClientFunc func(ctx context.Context, filename string, r io.Reader) error

// Store executes the underlying function.
func (f ClientFunc) Store(ctx context.Context, filename string, r io.Reader) error {
	return f(ctx, filename, r)
}
