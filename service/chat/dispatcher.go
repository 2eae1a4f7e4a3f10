package chat

import (
	"github.com/pkg/errors"
)

// Handler processes one event type. Handlers mutate registry state and emit
// frames through the server; they never write to the socket directly.
type Handler interface {
	Event() string
	Handle(f *Frame, c *Client) error
}

// Dispatcher routes inbound frames to their handler by event name.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Event()] = h
}

// Dispatch hands the frame to the registered handler. Unknown events are an
// error; the caller logs and drops, the connection stays up.
func (d *Dispatcher) Dispatch(f *Frame, c *Client) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return errors.Errorf("no handler for event %q", f.Event)
	}
	return h.Handle(f, c)
}
