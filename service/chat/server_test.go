package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(ServerConf{GatewayID: "gw-test"})
	t.Cleanup(s.Stop)
	return s
}

func drainOne(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		f := &Frame{}
		require.NoError(t, json.Unmarshal(raw, f))
		return f
	default:
		t.Fatalf("no frame queued for %s", c.ConnID)
		return nil
	}
}

func assertIdle(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected frame for %s: %s", c.ConnID, raw)
	default:
	}
}

func TestBroadcastChatExcludesOrigin(t *testing.T) {
	s := newTestServer(t)
	a, b, c := newTestClient("a"), newTestClient("b"), newTestClient("c")
	for _, cl := range []*Client{a, b, c} {
		s.Attach(cl)
		s.JoinChat(cl, "c1")
	}

	n := s.BroadcastChat("c1", a, NewFrame(EventTyping, "c1"))
	assert.Equal(t, 2, n)
	assertIdle(t, a)
	assert.Equal(t, EventTyping, drainOne(t, b).Event)
	assert.Equal(t, EventTyping, drainOne(t, c).Event)
}

func TestBroadcastChatNobodySubscribed(t *testing.T) {
	s := newTestServer(t)
	a := newTestClient("a")
	s.Attach(a)

	n := s.BroadcastChat("c-empty", a, NewFrame(EventTyping, "c-empty"))
	assert.Equal(t, 0, n)
}

func TestEmitUserSkipsOriginConnection(t *testing.T) {
	s := newTestServer(t)
	// uA is signed in on two devices
	d1, d2 := newTestClient("d1"), newTestClient("d2")
	s.Attach(d1)
	s.Attach(d2)
	s.BindIdentity(d1, "uA")
	s.BindIdentity(d2, "uA")

	n := s.EmitUser("uA", d1, NewFrame(EventMessageReceived, nil))
	assert.Equal(t, 1, n)
	assertIdle(t, d1)
	drainOne(t, d2)
}

func TestBindIdentityRebind(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient("conn-1")
	s.Attach(c)

	s.BindIdentity(c, "uA")
	assert.Equal(t, 1, s.Registry().UserConnCount("uA"))

	s.BindIdentity(c, "uB")
	assert.Equal(t, 0, s.Registry().UserConnCount("uA"))
	assert.Equal(t, 1, s.Registry().UserConnCount("uB"))

	// emits to the old identity no longer reach the connection
	assert.Equal(t, 0, s.EmitUser("uA", nil, NewFrame(EventMessageReceived, nil)))
	assert.Equal(t, 1, s.EmitUser("uB", nil, NewFrame(EventMessageReceived, nil)))
}

func TestDropConnectionStopsDelivery(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient("conn-1")
	s.Attach(c)
	s.BindIdentity(c, "uA")
	s.JoinChat(c, "c1")

	s.DropConnection(c)
	assert.Equal(t, 0, s.Registry().Len())
	assert.Equal(t, 0, s.EmitUser("uA", nil, NewFrame(EventMessageReceived, nil)))
	assert.Equal(t, 0, s.BroadcastChat("c1", nil, NewFrame(EventTyping, "c1")))

	// idempotent
	s.DropConnection(c)
}

func TestFanoutDropsWhenQueueFull(t *testing.T) {
	f := NewFanout()
	c := newTestClient("slow")
	frame := NewFrame(EventMessageReceived, nil)
	raw := frame.Encode()
	for i := 0; i < sendQueueDepth; i++ {
		require.True(t, c.Deliver(raw))
	}

	n := f.Broadcast([]*Client{c}, frame)
	assert.Equal(t, 0, n)
	assert.Equal(t, uint64(1), f.Dropped())
}

func TestDeliverAfterCloseRefused(t *testing.T) {
	c := newTestClient("conn-1")
	c.Close()
	assert.False(t, c.Deliver([]byte("x")))
	c.Close() // safe twice
}
