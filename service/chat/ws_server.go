package chat

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/ids"
	"github.com/SNTejaswi/MERN-CHAT-APP/tools/safe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 << 10,
	WriteBufferSize: 4 << 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and runs the connection until the peer goes
// away. One goroutine reads and dispatches in order; writePump is the single
// writer. Everything the connection touched is released on the way out.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(ids.GenerateString(), ws)
	s.Attach(client)
	safe.Go(client.writePump)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer s.DropConnection(c)

	c.WS.SetReadLimit(maxFrameBytes)
	_ = c.WS.SetReadDeadline(time.Now().Add(pongWait))
	c.WS.SetPongHandler(func(string) error {
		_ = c.WS.SetReadDeadline(time.Now().Add(pongWait))
		s.mgr.Heartbeat(c.ConnID)
		s.RenewPresence(c)
		return nil
	})

	for {
		_, raw, err := c.WS.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed",
					zap.String("connId", c.ConnID), zap.Error(err))
			}
			return
		}
		_ = c.WS.SetReadDeadline(time.Now().Add(pongWait))

		frame, err := ParseFrameJSON(raw)
		if err != nil {
			logger.Warn("malformed frame dropped",
				zap.String("connId", c.ConnID), zap.Error(err))
			continue
		}
		if err := s.Dispatch(frame, c); err != nil {
			// A bad frame costs itself, never the connection.
			logger.Warn("frame dropped",
				zap.String("connId", c.ConnID),
				zap.String("event", frame.Event),
				zap.String("traceId", frame.TraceID),
				zap.Error(err))
		}
	}
}
