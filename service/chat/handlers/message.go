package handlers

import (
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

// MessageHandler fans a freshly persisted message out as `message received`.
// Routing trusts the member snapshot the client embeds in the payload: the
// chat's user list at the time the client fetched it, not the list in the
// database now. Delivery goes to each member's personal channel, skipping
// the sender's, so recipients get messages for chats they never opened.
type MessageHandler struct {
	srv *chat.Server
}

func NewMessageHandler(srv *chat.Server) *MessageHandler {
	return &MessageHandler{srv: srv}
}

func (h *MessageHandler) Event() string { return chat.EventNewMessage }

func (h *MessageHandler) Handle(f *chat.Frame, c *chat.Client) error {
	p, err := chat.ExtractNewMessage(f)
	if err != nil {
		return err
	}
	if p.Chat == nil || len(p.Chat.Users) == 0 {
		logger.Warn("chat.users not defined",
			zap.String("connId", c.ConnID), zap.String("traceId", f.TraceID))
		return nil
	}

	senderID := p.Sender.ID()
	out := chat.ForwardFrame(chat.EventMessageReceived, f)

	delivered := 0
	for _, member := range p.Chat.Users {
		uid := member.ID()
		if uid == "" || uid == senderID {
			continue
		}
		delivered += h.srv.EmitUser(uid, c, out)
	}
	logger.Debug("message routed",
		zap.String("chatId", p.Chat.ID),
		zap.String("sender", senderID),
		zap.String("traceId", f.TraceID),
		zap.Int("delivered", delivered))
	return nil
}
