package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeConn records every message written to it.
type fakeConn struct {
	mu         sync.Mutex
	messages   []ServerMessage
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(ServerMessage))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ServerMessage(nil), c.messages...)
}

func TestHubBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	viewer := &fakeConn{}
	bystander := &fakeConn{}

	hub.Join(ResourceRoom("a1"), viewer)
	hub.Join(ResourceRoom("a2"), bystander)

	delivered := hub.Broadcast(ResourceRoom("a1"), ServerMessage{Event: "comment_added"})
	assert.Equal(t, 1, delivered)
	assert.Len(t, viewer.received(), 1)
	assert.Empty(t, bystander.received())
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}

	hub.Join(ResourceRoom("a1"), conn)
	hub.Leave(ResourceRoom("a1"), conn)

	delivered := hub.Broadcast(ResourceRoom("a1"), ServerMessage{Event: "comment_added"})
	assert.Equal(t, 0, delivered)
	assert.Empty(t, conn.received())
	assert.Equal(t, 0, hub.RoomSize(ResourceRoom("a1")))
}

func TestHubRemoveDropsAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}

	hub.Join(ResourceRoom("a1"), conn)
	hub.Join(UserRoom("u1"), conn)
	hub.Remove(conn)

	assert.Equal(t, 0, hub.RoomSize(ResourceRoom("a1")))
	assert.Equal(t, 0, hub.RoomSize(UserRoom("u1")))
}

func TestHubEvictsDeadConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	dead := &fakeConn{failWrites: true}
	live := &fakeConn{}

	hub.Join(ResourceRoom("a1"), dead)
	hub.Join(ResourceRoom("a1"), live)
	hub.Join(UserRoom("u1"), dead)

	delivered := hub.Broadcast(ResourceRoom("a1"), ServerMessage{Event: "comment_added"})
	assert.Equal(t, 1, delivered)
	assert.True(t, dead.closed)
	assert.Equal(t, 1, hub.RoomSize(ResourceRoom("a1")))
	assert.Equal(t, 0, hub.RoomSize(UserRoom("u1")))
}

func TestHubDoubleJoinDeliversOnce(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}

	hub.Join(ResourceRoom("a1"), conn)
	hub.Join(ResourceRoom("a1"), conn)

	delivered := hub.Broadcast(ResourceRoom("a1"), ServerMessage{Event: "comment_added"})
	assert.Equal(t, 1, delivered)
	assert.Len(t, conn.received(), 1)
}
