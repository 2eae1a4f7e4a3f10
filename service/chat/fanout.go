package chat

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
)

// Fanout pushes one encoded frame at a set of connections. Delivery is
// fire-and-forget: each target gets a non-blocking enqueue onto its send
// queue, and a stalled connection loses the payload rather than holding the
// rest of the batch back.
type Fanout struct {
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Broadcast delivers a frame to every target, returning how many accepted
// it. An empty target set is a silent no-op.
func (f *Fanout) Broadcast(targets []*Client, frame *Frame) int {
	if len(targets) == 0 {
		return 0
	}
	raw := frame.Encode()
	if raw == nil {
		return 0
	}

	n := 0
	for _, c := range targets {
		if c.Deliver(raw) {
			n++
			continue
		}
		f.dropped.Add(1)
		logger.Warn("send queue full, payload dropped",
			zap.String("connId", c.ConnID),
			zap.String("event", frame.Event),
			zap.String("traceId", frame.TraceID))
	}
	f.delivered.Add(uint64(n))
	return n
}

// Delivered and Dropped expose lifetime counters for logging.
func (f *Fanout) Delivered() uint64 { return f.delivered.Load() }
func (f *Fanout) Dropped() uint64   { return f.dropped.Load() }
