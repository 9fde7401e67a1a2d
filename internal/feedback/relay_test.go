package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type fakeSender struct {
	to   []string
	text []string
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.to = append(f.to, to.Recipient())
	if s, ok := what.(string); ok {
		f.text = append(f.text, s)
	}
	return &tele.Message{}, nil
}

func TestRelayForwardsVerbatim(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(sender, "@avcfeedback")

	err := relay.Send(context.Background(), "the bot ate my photo :(")
	require.NoError(t, err)
	require.Len(t, sender.text, 1)
	assert.Equal(t, "the bot ate my photo :(", sender.text[0])
	assert.Equal(t, "@avcfeedback", sender.to[0])
}

func TestRelayWrapsFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found (400)")}
	relay := NewRelay(sender, "@avcfeedback")

	err := relay.Send(context.Background(), "hello")
	require.Error(t, err)

	var relayErr *Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, "FEEDBACK_FAILED", relayErr.Code())
}
