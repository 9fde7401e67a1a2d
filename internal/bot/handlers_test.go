package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calefrey/telegram-bot/internal/feedback"
	"github.com/calefrey/telegram-bot/internal/metrics"
	"github.com/calefrey/telegram-bot/internal/session"
	"github.com/calefrey/telegram-bot/internal/transfer"
	"github.com/calefrey/telegram-bot/internal/upload"

	tele "gopkg.in/telebot.v4"
)

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

// fakeContext records outbound sends in order. Only the methods the
// handlers actually touch are implemented; anything else panics via the
// embedded nil interface.
type fakeContext struct {
	tele.Context

	user  *tele.User
	msg   *tele.Message
	store map[string]any
	sent  []sentMessage
}

func newFakeContext(user *tele.User, msg *tele.Message) *fakeContext {
	return &fakeContext{user: user, msg: msg, store: map[string]any{}}
}

func (c *fakeContext) Sender() *tele.User     { return c.user }
func (c *fakeContext) Message() *tele.Message { return c.msg }
func (c *fakeContext) Update() tele.Update    { return tele.Update{ID: 1} }

func (c *fakeContext) Chat() *tele.Chat {
	if c.msg != nil {
		return c.msg.Chat
	}
	return nil
}

func (c *fakeContext) Text() string {
	if c.msg != nil {
		return c.msg.Text
	}
	return ""
}

func (c *fakeContext) Get(key string) any      { return c.store[key] }
func (c *fakeContext) Set(key string, val any) { c.store[key] = val }

func (c *fakeContext) Send(what any, opts ...any) error {
	c.record(what, opts...)
	return nil
}

func (c *fakeContext) Reply(what any, opts ...any) error {
	c.record(what, opts...)
	return nil
}

func (c *fakeContext) record(what any, opts ...any) {
	text, _ := what.(string)
	var markup *tele.ReplyMarkup
	for _, opt := range opts {
		if so, ok := opt.(*tele.SendOptions); ok && so != nil {
			markup = so.ReplyMarkup
		}
	}
	c.sent = append(c.sent, sentMessage{text: text, markup: markup})
}

func (c *fakeContext) texts() []string {
	out := make([]string, 0, len(c.sent))
	for _, s := range c.sent {
		out = append(out, s.text)
	}
	return out
}

type stubBroadcast struct {
	to   string
	text string
	err  error
}

func (s *stubBroadcast) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.to = to.Recipient()
	s.text, _ = what.(string)
	return &tele.Message{}, nil
}

func okFetcher() upload.FileFetcher {
	return upload.FileFetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("png")), nil
	})
}

func okClient() transfer.Client {
	return transfer.ClientFunc(func(context.Context, string, io.Reader) error {
		return nil
	})
}

func newTestHandlers(t *testing.T, fetcher upload.FileFetcher, client transfer.Client, broadcast *stubBroadcast) (*Handlers, session.Manager) {
	t.Helper()
	sessions := session.NewMemoryManager()
	m := metrics.New()
	uploader := upload.New(sessions, fetcher, client, m, t.TempDir())
	relay := feedback.NewRelay(broadcast, "@avcfeedback")
	return NewHandlers(sessions, uploader, relay, m, ""), sessions
}

func photoMessage(caption, groupID string) *tele.Message {
	return &tele.Message{
		Photo:   &tele.Photo{File: tele.File{FileID: "file-1"}},
		Caption: caption,
		AlbumID: groupID,
	}
}

var testUser = &tele.User{ID: 7, FirstName: "Caleb", LastName: "Frey"}

func TestUploadEntersFlowAndResetsBurst(t *testing.T) {
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})
	sessions.Update(testUser.ID, func(s *session.Session) {
		s.ActiveGroupID = "stale"
		s.CaptionBase = "Old"
		s.PhotoIndex = 3
	})

	c := newFakeContext(testUser, &tele.Message{Text: "/upload"})
	require.NoError(t, h.Upload(c))

	assert.Equal(t, session.StateAwaitingUpload, sessions.GetState(testUser.ID))
	sess := sessions.Get(testUser.ID)
	assert.Empty(t, sess.ActiveGroupID, "stale burst must not leak into the new flow")
	assert.Zero(t, sess.PhotoIndex)
	require.Equal(t, []string{uploadInstructionsMessage}, c.texts())
}

func TestAwaitingUploadSuccessReplySequence(t *testing.T) {
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingUpload)

	c := newFakeContext(testUser, photoMessage("Fluffy", ""))
	require.NoError(t, h.AwaitingUpload(c))

	require.Equal(t, []string{uploadingMessage, "Uploaded as Fluffy.png"}, c.texts())
	assert.Equal(t, session.StateAwaitingUpload, sessions.GetState(testUser.ID))
}

func TestAwaitingUploadNoPhotoKeepsState(t *testing.T) {
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingUpload)

	c := newFakeContext(testUser, &tele.Message{Text: "hello?"})
	require.NoError(t, h.AwaitingUpload(c))

	require.Equal(t, []string{noPhotoMessage}, c.texts())
	assert.NotNil(t, c.sent[0].markup, "reprompt should carry the inline cancel button")
	assert.Equal(t, session.StateAwaitingUpload, sessions.GetState(testUser.ID))
}

func TestTransferFailureEscalationOrder(t *testing.T) {
	storeErr := &transfer.Error{Reason: "550 permission denied", Err: errors.New("550 permission denied")}
	client := transfer.ClientFunc(func(context.Context, string, io.Reader) error {
		return storeErr
	})
	h, sessions := newTestHandlers(t, okFetcher(), client, &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingUpload)

	c := newFakeContext(testUser, photoMessage("Fluffy", ""))
	err := h.AwaitingUpload(c)
	require.Error(t, err)

	// The raw reason must arrive last so the user can forward it as-is.
	require.Equal(t, []string{
		uploadingMessage,
		uploadFailMessage,
		"Please send the message below to Caleb:",
		"550 permission denied",
	}, c.texts())
	assert.Equal(t, session.StateAwaitingUpload, sessions.GetState(testUser.ID))
}

func TestFetchFailureStaysGeneric(t *testing.T) {
	fetcher := upload.FileFetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, errors.New("telegram file gone")
	})
	h, sessions := newTestHandlers(t, fetcher, okClient(), &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingUpload)

	c := newFakeContext(testUser, photoMessage("Fluffy", ""))
	err := h.AwaitingUpload(c)
	require.Error(t, err)

	require.Equal(t, []string{uploadingMessage, uploadFailMessage}, c.texts())
	for _, text := range c.texts() {
		assert.NotContains(t, text, "telegram file gone")
	}
}

func TestIdlePhotoPrompts(t *testing.T) {
	h, _ := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})

	c := newFakeContext(testUser, photoMessage("", ""))
	require.NoError(t, h.IdlePhoto(c))
	require.Equal(t, []string{idlePhotoMessage}, c.texts())
}

func TestCancelClearsFlowAndBurst(t *testing.T) {
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingUpload)
	sessions.Update(testUser.ID, func(s *session.Session) {
		s.ActiveGroupID = "g1"
		s.CaptionBase = "Trip"
		s.PhotoIndex = 2
	})

	c := newFakeContext(testUser, &tele.Message{Text: "/cancel"})
	require.NoError(t, h.Cancel(c))

	require.Equal(t, []string{cancelledMessage}, c.texts())
	assert.Equal(t, session.StateIdle, sessions.GetState(testUser.ID))
	assert.Empty(t, sessions.Get(testUser.ID).ActiveGroupID)
}

func TestAwaitingFeedbackRelaysAndReturnsToIdle(t *testing.T) {
	broadcast := &stubBroadcast{}
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), broadcast)
	sessions.SetState(testUser.ID, session.StateAwaitingFeedback)

	c := newFakeContext(testUser, &tele.Message{Text: "the coffee machine is broken"})
	require.NoError(t, h.AwaitingFeedback(c))

	assert.Equal(t, session.StateIdle, sessions.GetState(testUser.ID))
	assert.Equal(t, "@avcfeedback", broadcast.to)
	assert.Equal(t, "the coffee machine is broken", broadcast.text)
	require.Equal(t, []string{feedbackThanks}, c.texts())
}

func TestAwaitingFeedbackFailureStillClosesFlow(t *testing.T) {
	broadcast := &stubBroadcast{err: errors.New("chat not found")}
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), broadcast)
	sessions.SetState(testUser.ID, session.StateAwaitingFeedback)

	c := newFakeContext(testUser, &tele.Message{Text: "still broken"})
	err := h.AwaitingFeedback(c)

	var ferr *feedback.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, session.StateIdle, sessions.GetState(testUser.ID))
	require.Equal(t, []string{feedbackThanks}, c.texts(), "thanks goes out before the relay attempt")
}

func TestAwaitingFeedbackIgnoresEmptyText(t *testing.T) {
	h, sessions := newTestHandlers(t, okFetcher(), okClient(), &stubBroadcast{})
	sessions.SetState(testUser.ID, session.StateAwaitingFeedback)

	c := newFakeContext(testUser, &tele.Message{Text: "   "})
	require.NoError(t, h.AwaitingFeedback(c))

	assert.Empty(t, c.sent)
	assert.Equal(t, session.StateAwaitingFeedback, sessions.GetState(testUser.ID))
}
