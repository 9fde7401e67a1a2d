// Package upload glues the session's photo events to the album aggregator
// and the transfer client. Reply generation stays with the Telegram
// handlers; this package only produces Result values.
package upload

import (
	"context"
	"io"
	"os"
	"time"

	"log/slog"

	"github.com/calefrey/telegram-bot/internal/album"
	"github.com/calefrey/telegram-bot/internal/logger"
	"github.com/calefrey/telegram-bot/internal/metrics"
	"github.com/calefrey/telegram-bot/internal/session"
	"github.com/calefrey/telegram-bot/internal/transfer"
)

// FileFetcher retrieves the raw bytes of a photo from the transport.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// FileFetcherFunc adapts a bare function to the FileFetcher interface.
type FileFetcherFunc func(ctx context.Context, fileID string) (io.ReadCloser, error)

// Fetch executes the underlying function.
func (f FileFetcherFunc) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return f(ctx, fileID)
}

// Photo describes a single inbound photo event.
type Photo struct {
	UserID   int64
	FileID   string
	GroupID  string
	Caption  string
	Initials string
}

// Result reports the outcome of one photo upload. It is consumed to build
// the reply and then discarded.
type Result struct {
	Filename string
	Err      error
}

// OK reports whether the photo reached remote storage.
func (r Result) OK() bool {
	return r.Err == nil
}

// Orchestrator runs the per-photo pipeline: assign filename, fetch bytes,
// store remotely, clean up the local spool file.
type Orchestrator struct {
	sessions session.Manager
	fetcher  FileFetcher
	client   transfer.Client
	metrics  *metrics.Metrics
	tempDir  string

	now func() time.Time
}

// New constructs an Orchestrator. tempDir may be empty to use the system
// temp directory.
func New(sessions session.Manager, fetcher FileFetcher, client transfer.Client, m *metrics.Metrics, tempDir string) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		fetcher:  fetcher,
		client:   client,
		metrics:  m,
		tempDir:  tempDir,
		now:      time.Now,
	}
}

// HandlePhoto processes one photo event for the user's session.
//
// The photo bytes are spooled to a temp file which is removed on every exit
// path; failed transfers are not retried and leave the session untouched so
// the user can simply resend.
func (o *Orchestrator) HandlePhoto(ctx context.Context, p Photo) Result {
	defer o.metrics.PhotoProcessed()

	var filename string
	o.sessions.Update(p.UserID, func(sess *session.Session) {
		filename = album.AssignFilename(sess, p.GroupID, p.Caption, p.Initials, o.now())
	})

	sess := o.sessions.Get(p.UserID)
	logger.Info(ctx, "service.upload", "upload.accepted",
		slog.Int64("user_id", p.UserID),
		slog.String("filename", filename),
		slog.String("group_id", logger.SanitizeLimit(p.GroupID, 64)),
		slog.Int("burst_index", sess.PhotoIndex),
	)

	body, err := o.fetcher.Fetch(ctx, p.FileID)
	if err != nil {
		o.metrics.UploadFailed("fetch")
		logger.Error(ctx, "service.upload", "upload.fetch",
			slog.Int64("user_id", p.UserID),
			slog.String("filename", filename),
			slog.String("err", err.Error()),
		)
		return Result{Filename: filename, Err: &FetchError{Err: err}}
	}
	defer body.Close()

	spool, err := os.CreateTemp(o.tempDir, "avcbot-*.png")
	if err != nil {
		o.metrics.UploadFailed("fetch")
		return Result{Filename: filename, Err: &FetchError{Err: err}}
	}
	defer func() {
		// The local copy must never outlive the transfer attempt.
		spool.Close()
		os.Remove(spool.Name())
	}()

	size, err := io.Copy(spool, body)
	if err != nil {
		o.metrics.UploadFailed("fetch")
		return Result{Filename: filename, Err: &FetchError{Err: err}}
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		o.metrics.UploadFailed("fetch")
		return Result{Filename: filename, Err: &FetchError{Err: err}}
	}

	if err := o.client.Store(ctx, filename, spool); err != nil {
		o.metrics.UploadFailed("transfer")
		logger.Error(ctx, "service.upload", "upload.store",
			slog.Int64("user_id", p.UserID),
			slog.String("filename", filename),
			slog.Int64("bytes", size),
			slog.String("err", err.Error()),
		)
		return Result{Filename: filename, Err: err}
	}

	logger.Info(ctx, "service.upload", "upload.store",
		slog.String("status", "ok"),
		slog.Int64("user_id", p.UserID),
		slog.String("filename", filename),
		slog.Int64("bytes", size),
	)
	return Result{Filename: filename}
}
