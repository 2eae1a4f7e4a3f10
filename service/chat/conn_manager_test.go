package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T, clk Clock, onExpire func(*Client)) *ConnManager {
	t.Helper()
	m := NewConnManager(ManagerConf{
		UnauthTTL:  30 * time.Second,
		AuthTTL:    2 * time.Minute,
		SweepEvery: time.Hour,
		Clock:      clk,
	}, onExpire)
	t.Cleanup(m.Stop)
	return m
}

func TestConnManagerExpiresAnonymous(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	var expired []*Client
	m := newTestManager(t, clk, func(c *Client) { expired = append(expired, c) })

	m.Add(newTestClient("conn-1"))
	m.sweepOnce()
	assert.Empty(t, expired)

	clk.advance(31 * time.Second)
	m.sweepOnce()
	require.Len(t, expired, 1)
	assert.Equal(t, "conn-1", expired[0].ConnID)
	assert.Equal(t, 0, m.Len())
}

func TestConnManagerIdentifiedGetsLongerLease(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	var expired []*Client
	m := newTestManager(t, clk, func(c *Client) { expired = append(expired, c) })

	m.Add(newTestClient("conn-1"))
	m.MarkIdentified("conn-1")

	clk.advance(31 * time.Second)
	m.sweepOnce()
	assert.Empty(t, expired)

	clk.advance(2 * time.Minute)
	m.sweepOnce()
	assert.Len(t, expired, 1)
}

func TestConnManagerHeartbeatExtends(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	var expired []*Client
	m := newTestManager(t, clk, func(c *Client) { expired = append(expired, c) })

	m.Add(newTestClient("conn-1"))
	for i := 0; i < 4; i++ {
		clk.advance(20 * time.Second)
		m.Heartbeat("conn-1")
		m.sweepOnce()
	}
	assert.Empty(t, expired)

	clk.advance(31 * time.Second)
	m.sweepOnce()
	assert.Len(t, expired, 1)
}

func TestConnManagerRemoveStopsExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	var expired []*Client
	m := newTestManager(t, clk, func(c *Client) { expired = append(expired, c) })

	m.Add(newTestClient("conn-1"))
	m.Remove("conn-1")
	clk.advance(time.Hour)
	m.sweepOnce()
	assert.Empty(t, expired)
}
