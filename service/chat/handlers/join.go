package handlers

import (
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

// JoinHandler subscribes the connection to a conversation channel when the
// client opens a chat. Joining twice is a no-op. The chat id is not checked
// against the chat's member list, so any connection can subscribe to any
// conversation; typing indicators leak to such a subscriber, message
// delivery does not, since it goes through personal channels.
type JoinHandler struct {
	srv *chat.Server
}

func NewJoinHandler(srv *chat.Server) *JoinHandler {
	return &JoinHandler{srv: srv}
}

func (h *JoinHandler) Event() string { return chat.EventJoinChat }

func (h *JoinHandler) Handle(f *chat.Frame, c *chat.Client) error {
	chatID, err := chat.ExtractChatID(f)
	if err != nil {
		return err
	}
	if chatID == "" {
		logger.Warn("join without chat id dropped",
			zap.String("connId", c.ConnID), zap.String("traceId", f.TraceID))
		return nil
	}
	h.srv.JoinChat(c, chatID)
	return nil
}
