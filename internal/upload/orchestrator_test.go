package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calefrey/telegram-bot/internal/metrics"
	"github.com/calefrey/telegram-bot/internal/session"
	"github.com/calefrey/telegram-bot/internal/transfer"
)

type capturingClient struct {
	filenames []string
	payloads  []string
	err       error
}

func (c *capturingClient) Store(_ context.Context, filename string, r io.Reader) error {
	if c.err != nil {
		return c.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	c.filenames = append(c.filenames, filename)
	c.payloads = append(c.payloads, string(data))
	return nil
}

func staticFetcher(payload string) FileFetcher {
	return FileFetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(payload)), nil
	})
}

func fixedClock(o *Orchestrator) {
	o.now = func() time.Time {
		return time.Date(2025, 8, 30, 14, 5, 9, 0, time.UTC)
	}
}

func TestHandlePhotoStoresUnderAssignedName(t *testing.T) {
	sessions := session.NewMemoryManager()
	sessions.SetState(7, session.StateAwaitingUpload)
	client := &capturingClient{}
	m := metrics.New()

	o := New(sessions, staticFetcher("png-bytes"), client, m, t.TempDir())
	fixedClock(o)

	res := o.HandlePhoto(context.Background(), Photo{
		UserID: 7, FileID: "f1", GroupID: "g1", Caption: "Fluffy",
	})
	require.True(t, res.OK())
	assert.Equal(t, "Fluffy.png", res.Filename)
	require.Equal(t, []string{"Fluffy.png"}, client.filenames)
	assert.Equal(t, "png-bytes", client.payloads[0])
	assert.Equal(t, uint64(1), m.PhotosProcessed())
}

func TestHandlePhotoAlbumSequencing(t *testing.T) {
	sessions := session.NewMemoryManager()
	sessions.SetState(7, session.StateAwaitingUpload)
	client := &capturingClient{}

	o := New(sessions, staticFetcher("x"), client, metrics.New(), t.TempDir())
	fixedClock(o)

	for i := 0; i < 3; i++ {
		res := o.HandlePhoto(context.Background(), Photo{
			UserID: 7, FileID: "f", GroupID: "album-1", Caption: "Trip",
		})
		require.True(t, res.OK())
	}
	assert.Equal(t, []string{"Trip.png", "Trip-2.png", "Trip-3.png"}, client.filenames)
}

func TestHandlePhotoTransferFailure(t *testing.T) {
	sessions := session.NewMemoryManager()
	sessions.SetState(7, session.StateAwaitingUpload)
	storeErr := &transfer.Error{Reason: "530 login refused", Err: errors.New("530 login refused")}
	client := &capturingClient{err: storeErr}
	m := metrics.New()

	o := New(sessions, staticFetcher("x"), client, m, t.TempDir())
	fixedClock(o)

	res := o.HandlePhoto(context.Background(), Photo{UserID: 7, FileID: "f", Caption: "Fluffy"})
	require.False(t, res.OK())
	assert.Equal(t, "Fluffy.png", res.Filename)

	var terr *transfer.Error
	require.ErrorAs(t, res.Err, &terr)
	assert.Equal(t, "530 login refused", terr.Reason)

	// Failed transfers still count as processed and keep the session usable.
	assert.Equal(t, uint64(1), m.PhotosProcessed())
	assert.Equal(t, session.StateAwaitingUpload, sessions.GetState(7))
}

func TestHandlePhotoFetchFailure(t *testing.T) {
	sessions := session.NewMemoryManager()
	sessions.SetState(7, session.StateAwaitingUpload)
	fetcher := FileFetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, errors.New("telegram file gone")
	})

	o := New(sessions, fetcher, &capturingClient{}, metrics.New(), t.TempDir())
	fixedClock(o)

	res := o.HandlePhoto(context.Background(), Photo{UserID: 7, FileID: "f", Caption: "Fluffy"})
	require.False(t, res.OK())

	var ferr *FetchError
	assert.ErrorAs(t, res.Err, &ferr)
}

func TestHandlePhotoRemovesSpoolFile(t *testing.T) {
	sessions := session.NewMemoryManager()
	sessions.SetState(7, session.StateAwaitingUpload)
	dir := t.TempDir()

	cases := map[string]transfer.Client{
		"success": &capturingClient{},
		"failure": &capturingClient{err: errors.New("broken pipe")},
	}
	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			o := New(sessions, staticFetcher("x"), client, metrics.New(), dir)
			fixedClock(o)
			o.HandlePhoto(context.Background(), Photo{UserID: 7, FileID: "f", Caption: "c"})

			leftovers, err := filepath.Glob(filepath.Join(dir, "avcbot-*"))
			require.NoError(t, err)
			assert.Empty(t, leftovers, "spool file must not survive the attempt")
		})
	}
	_ = os.RemoveAll(dir)
}
