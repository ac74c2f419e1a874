package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/models"
)

// fakeConn is an in-memory wsConn capturing writes.
type fakeConn struct {
	mu         sync.Mutex
	writes     [][]byte
	failWrites bool
	closed     bool
	inbound    chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	payload, ok := <-f.inbound
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, payload, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events(t *testing.T) []models.ServerEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ServerEvent, 0, len(f.writes))
	for _, raw := range f.writes {
		var event models.ServerEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		out = append(out, event)
	}
	return out
}

func TestHubJoinAndLeave(t *testing.T) {
	hub := NewHub()
	client := NewClient(newFakeConn(), 1)

	hub.Join(client)
	require.Len(t, hub.ConnectionsFor(1), 1)

	// joining twice must not duplicate the entry
	hub.Join(client)
	require.Len(t, hub.ConnectionsFor(1), 1)

	hub.Leave(client)
	assert.Empty(t, hub.ConnectionsFor(1))

	// leave is idempotent
	hub.Leave(client)
	assert.Empty(t, hub.ConnectionsFor(1))
}

func TestHubMultiDevice(t *testing.T) {
	hub := NewHub()
	first := NewClient(newFakeConn(), 7)
	second := NewClient(newFakeConn(), 7)

	hub.Join(first)
	hub.Join(second)
	require.Len(t, hub.ConnectionsFor(7), 2)
	assert.True(t, hub.IsOnline(7))

	hub.Leave(first)
	require.Len(t, hub.ConnectionsFor(7), 1)
	assert.True(t, hub.IsOnline(7))

	hub.Leave(second)
	assert.False(t, hub.IsOnline(7))
}

func TestDeliverToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()

	// must not panic or register anything
	hub.Deliver(99, models.FriendRequestEvent(1))
	assert.Empty(t, hub.ConnectionsFor(99))
}

func TestDeliverPushesToEveryConnection(t *testing.T) {
	hub := NewHub()
	connA := newFakeConn()
	connB := newFakeConn()
	hub.Join(NewClient(connA, 2))
	hub.Join(NewClient(connB, 2))

	msg := models.Message{ID: 10, SenderID: 1, ReceiverID: 2, Content: "hi"}
	hub.Deliver(2, models.MessageEvent(msg))

	for _, conn := range []*fakeConn{connA, connB} {
		events := conn.events(t)
		require.Len(t, events, 1)
		assert.Equal(t, models.EventReceiveMessage, events[0].Type)
		assert.Equal(t, 1, events[0].SenderID)
		require.NotNil(t, events[0].Message)
		assert.Equal(t, "hi", events[0].Message.Content)
	}
}

func TestDeliverDropsBrokenConnectionOnly(t *testing.T) {
	hub := NewHub()
	broken := newFakeConn()
	broken.failWrites = true
	healthy := newFakeConn()
	brokenClient := NewClient(broken, 3)
	hub.Join(brokenClient)
	hub.Join(NewClient(healthy, 3))

	hub.Deliver(3, models.FriendAcceptedEvent(5))

	require.Len(t, healthy.events(t), 1)
	assert.True(t, broken.closed)
	assert.Len(t, hub.ConnectionsFor(3), 1)

	// a second delivery no longer touches the dropped connection
	hub.Deliver(3, models.FriendAcceptedEvent(6))
	assert.Len(t, healthy.events(t), 2)
}

func TestDeliverConcurrentWithJoinLeave(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			client := NewClient(newFakeConn(), userID%4)
			hub.Join(client)
			hub.Deliver(userID%4, models.FriendRequestEvent(userID))
			hub.Leave(client)
		}(i)
	}
	wg.Wait()

	for userID := 0; userID < 4; userID++ {
		assert.Empty(t, hub.ConnectionsFor(userID))
	}
}
