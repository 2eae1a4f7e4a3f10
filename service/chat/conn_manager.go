package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/safe"
)

// Clock lets tests drive expiry without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ManagerConf tunes connection lifetimes. A connection that has not set up
// an identity expires on UnauthTTL; once identified it is kept alive by
// heartbeats against AuthTTL.
type ManagerConf struct {
	UnauthTTL  time.Duration
	AuthTTL    time.Duration
	SweepEvery time.Duration
	Clock      Clock
}

func DefaultManagerConf() ManagerConf {
	return ManagerConf{
		UnauthTTL:  45 * time.Second,
		AuthTTL:    2 * pongWait,
		SweepEvery: 30 * time.Second,
		Clock:      realClock{},
	}
}

func (c *ManagerConf) normalize() {
	if c.UnauthTTL <= 0 {
		c.UnauthTTL = 45 * time.Second
	}
	if c.AuthTTL <= 0 {
		c.AuthTTL = 2 * pongWait
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = 30 * time.Second
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
}

type connRecord struct {
	client     *Client
	identified bool
	createdAt  time.Time
	expireAt   time.Time
}

// ConnManager tracks connection lifetimes and reaps the ones that go stale.
// Expired connections are handed to onExpire outside the lock so the owner
// can run the full disconnect path.
type ConnManager struct {
	conf     ManagerConf
	onExpire func(*Client)

	mu   sync.Mutex
	recs map[string]*connRecord

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewConnManager(conf ManagerConf, onExpire func(*Client)) *ConnManager {
	conf.normalize()
	m := &ConnManager{
		conf:     conf,
		onExpire: onExpire,
		recs:     make(map[string]*connRecord),
		stopCh:   make(chan struct{}),
	}
	safe.Go(m.sweepLoop)
	return m
}

func (m *ConnManager) Add(c *Client) {
	now := m.conf.Clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[c.ConnID] = &connRecord{
		client:    c,
		createdAt: now,
		expireAt:  now.Add(m.conf.UnauthTTL),
	}
}

// MarkIdentified switches the connection onto the long identified TTL.
func (m *ConnManager) MarkIdentified(connID string) {
	now := m.conf.Clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.recs[connID]; ok {
		rec.identified = true
		rec.expireAt = now.Add(m.conf.AuthTTL)
	}
}

// Heartbeat extends the lease. Called on every pong and every inbound frame.
func (m *ConnManager) Heartbeat(connID string) {
	now := m.conf.Clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[connID]
	if !ok {
		return
	}
	ttl := m.conf.UnauthTTL
	if rec.identified {
		ttl = m.conf.AuthTTL
	}
	rec.expireAt = now.Add(ttl)
}

func (m *ConnManager) Remove(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, connID)
}

func (m *ConnManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

func (m *ConnManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *ConnManager) sweepLoop() {
	ticker := time.NewTicker(m.conf.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *ConnManager) sweepOnce() {
	now := m.conf.Clock.Now()

	m.mu.Lock()
	var expired []*Client
	for connID, rec := range m.recs {
		if now.After(rec.expireAt) {
			expired = append(expired, rec.client)
			delete(m.recs, connID)
		}
	}
	m.mu.Unlock()

	for _, c := range expired {
		logger.Warn("connection lease expired",
			zap.String("connId", c.ConnID))
		if m.onExpire != nil {
			m.onExpire(c)
		}
	}
}
