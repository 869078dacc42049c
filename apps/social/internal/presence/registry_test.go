package presence

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	userID    string
	sessionID string
	full      bool

	mu     sync.Mutex
	msgs   [][]byte
	closed atomic.Bool
}

func newFakeSession(userID, sessionID string) *fakeSession {
	return &fakeSession{userID: userID, sessionID: sessionID}
}

func (f *fakeSession) UserID() string    { return f.userID }
func (f *fakeSession) SessionID() string { return f.sessionID }
func (f *fakeSession) Close()            { f.closed.Store(true) }

func (f *fakeSession) Enqueue(msg []byte) bool {
	if f.full || f.closed.Load() {
		return false
	}
	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()
	return true
}

func (f *fakeSession) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func TestRegistryRegisterReplacesSameSession(t *testing.T) {
	r := NewRegistry()

	first := newFakeSession("u1", "phone")
	replaced, err := r.Register(first)
	require.NoError(t, err)
	assert.Nil(t, replaced)

	second := newFakeSession("u1", "phone")
	replaced, err = r.Register(second)
	require.NoError(t, err)
	assert.Same(t, first, replaced)
	assert.Equal(t, 1, r.Count())

	// 旧会话晚到的注销不能把新会话删掉
	r.Unregister(first)
	assert.True(t, r.IsOnline("u1"))
	assert.True(t, r.HasSession("u1", "phone"))
	assert.False(t, r.HasSession("u1", "web"))

	r.Unregister(second)
	assert.False(t, r.IsOnline("u1"))
	assert.Zero(t, r.Count())
}

func TestRegistrySendToUserFansOutToAllSessions(t *testing.T) {
	r := NewRegistry()
	phone := newFakeSession("u1", "phone")
	web := newFakeSession("u1", "web")
	full := newFakeSession("u1", "tablet")
	full.full = true
	other := newFakeSession("u2", "phone")
	for _, s := range []*fakeSession{phone, web, full, other} {
		_, err := r.Register(s)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, r.OnlineUsers())

	sent, failed := r.SendToUser("u1", []byte("hi"))
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, phone.received())
	assert.Equal(t, 1, web.received())
	assert.Zero(t, other.received())

	sent, failed = r.SendToUser("offline", []byte("hi"))
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}

func TestRegistryShutdown(t *testing.T) {
	r := NewRegistry()
	s := newFakeSession("u1", "phone")
	_, err := r.Register(s)
	require.NoError(t, err)

	r.Shutdown()
	r.Shutdown()
	assert.True(t, s.closed.Load())
	assert.Zero(t, r.Count())

	_, err = r.Register(newFakeSession("u2", "phone"))
	assert.ErrorIs(t, err, ErrRegistryClosed)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		s := newFakeSession("u1", string(rune('a'+i%26)))
		go func() {
			defer wg.Done()
			_, _ = r.Register(s)
		}()
		go func() {
			defer wg.Done()
			r.SendToUser("u1", []byte("x"))
		}()
		go func() {
			defer wg.Done()
			r.Unregister(s)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, r.Count(), 26)
}
