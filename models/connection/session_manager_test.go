package connection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNewSessionConcurrent(t *testing.T) {
	sm := NewSessionManager()

	const connects = 64
	sessions := make([]*Session, connects)

	var wg sync.WaitGroup
	wg.Add(connects)
	for i := 0; i < connects; i++ {
		go func(idx int) {
			defer wg.Done()
			sessions[idx] = sm.GenerateNewSession(nil)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, connects)
	for _, session := range sessions {
		require.NotNil(t, session)
		require.NotEmpty(t, session.Id())

		_, dup := seen[session.Id()]
		require.False(t, dup, "duplicate session id %s", session.Id())
		seen[session.Id()] = struct{}{}

		found, err := sm.FindSession(session.Id())
		require.NoError(t, err)
		assert.Same(t, session, found)
	}
}

func TestTerminateSessionClearsRoomIndex(t *testing.T) {
	sm := NewSessionManager()

	session := sm.GenerateNewSession(nil)
	sm.RegisterRoom(session.Id(), "ABCD")

	code, seated := sm.LookupRoom(session.Id())
	require.True(t, seated)
	assert.Equal(t, "ABCD", code)

	sm.TerminateSession(session.Id())

	_, err := sm.FindSession(session.Id())
	assert.Error(t, err)

	_, seated = sm.LookupRoom(session.Id())
	assert.False(t, seated)
}
