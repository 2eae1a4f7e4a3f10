package handlers

import (
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

// SetupHandler binds the sender's identity to the connection and acks with
// `connected`. The client sends its whole user document; only the id is
// taken, and the id is taken on faith.
type SetupHandler struct {
	srv *chat.Server
}

func NewSetupHandler(srv *chat.Server) *SetupHandler {
	return &SetupHandler{srv: srv}
}

func (h *SetupHandler) Event() string { return chat.EventSetup }

func (h *SetupHandler) Handle(f *chat.Frame, c *chat.Client) error {
	p, err := chat.ExtractSetupPayload(f)
	if err != nil {
		return err
	}
	userID := p.UserID()
	if userID == "" {
		logger.Warn("setup without user id dropped",
			zap.String("connId", c.ConnID), zap.String("traceId", f.TraceID))
		return nil
	}

	h.srv.BindIdentity(c, userID)
	logger.Info("user setup",
		zap.String("connId", c.ConnID), zap.String("userId", userID))

	c.DeliverFrame(chat.NewFrame(chat.EventConnected, nil))
	return nil
}
