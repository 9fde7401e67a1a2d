package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStateIsIdle(t *testing.T) {
	m := NewMemoryManager()
	assert.Equal(t, StateIdle, m.GetState(1))
	assert.False(t, m.InProgress(1))
}

func TestStateTransitions(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, StateAwaitingUpload)
	assert.Equal(t, StateAwaitingUpload, m.GetState(1))
	assert.True(t, m.InProgress(1))

	m.SetState(1, StateAwaitingFeedback)
	assert.Equal(t, StateAwaitingFeedback, m.GetState(1))

	m.ClearState(1)
	assert.Equal(t, StateIdle, m.GetState(1))
	assert.False(t, m.InProgress(1))
}

func TestClearStateDiscardsBurst(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, StateAwaitingUpload)
	m.Update(1, func(s *Session) {
		s.ActiveGroupID = "g1"
		s.CaptionBase = "Fluffy"
		s.PhotoIndex = 3
	})

	m.ClearState(1)

	sess := m.Get(1)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.ActiveGroupID)
	assert.Empty(t, sess.CaptionBase)
	assert.Zero(t, sess.PhotoIndex)
}

func TestResetBurstKeepsState(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, StateAwaitingUpload)
	m.Update(1, func(s *Session) {
		s.ActiveGroupID = "g1"
		s.CaptionBase = "Fluffy"
		s.PhotoIndex = 3
	})

	m.ResetBurst(1)

	sess := m.Get(1)
	assert.Equal(t, StateAwaitingUpload, sess.State)
	assert.Empty(t, sess.ActiveGroupID)
	assert.Zero(t, sess.PhotoIndex)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, StateAwaitingUpload)
	m.SetState(2, StateAwaitingFeedback)

	assert.Equal(t, StateAwaitingUpload, m.GetState(1))
	assert.Equal(t, StateAwaitingFeedback, m.GetState(2))
	assert.Equal(t, StateIdle, m.GetState(3))
}

func TestGetReturnsSnapshot(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, StateAwaitingUpload)

	snap := m.Get(1)
	snap.State = StateAwaitingFeedback

	require.Equal(t, StateAwaitingUpload, m.GetState(1))
}

func TestConcurrentUpdates(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(1, func(s *Session) {
				s.PhotoIndex++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.Get(1).PhotoIndex)
}
