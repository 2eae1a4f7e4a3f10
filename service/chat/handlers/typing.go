package handlers

import (
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

// TypingHandler relays typing start/stop to everyone else subscribed to the
// conversation channel, never back to the sender. Both directions share one
// handler; the event name rides through unchanged.
type TypingHandler struct {
	srv   *chat.Server
	event string
}

func NewTypingHandler(srv *chat.Server) *TypingHandler {
	return &TypingHandler{srv: srv, event: chat.EventTyping}
}

func NewStopTypingHandler(srv *chat.Server) *TypingHandler {
	return &TypingHandler{srv: srv, event: chat.EventStopTyping}
}

func (h *TypingHandler) Event() string { return h.event }

func (h *TypingHandler) Handle(f *chat.Frame, c *chat.Client) error {
	chatID, err := chat.ExtractChatID(f)
	if err != nil {
		return err
	}
	if chatID == "" {
		return nil
	}
	h.srv.BroadcastChat(chatID, c, chat.ForwardFrame(h.event, f))
	return nil
}
