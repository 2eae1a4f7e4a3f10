package chat

import (
	"time"

	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/storage"
)

// ServerConf carries the gateway identity and presence lease handed down
// from the environment at bootstrap.
type ServerConf struct {
	GatewayID   string
	PresenceTTL time.Duration
	Manager     ManagerConf
}

// Server owns the realtime plane of one gateway: the connection registry,
// lifetime tracking, and event routing. HTTP CRUD lives elsewhere; the
// server only moves frames between live sockets.
type Server struct {
	conf ServerConf

	reg  *Registry
	mgr  *ConnManager
	disp *Dispatcher
	fan  *Fanout
}

func NewServer(conf ServerConf) *Server {
	s := &Server{
		conf: conf,
		reg:  NewRegistry(),
		disp: NewDispatcher(),
		fan:  NewFanout(),
	}
	s.mgr = NewConnManager(conf.Manager, s.DropConnection)
	return s
}

func (s *Server) Registry() *Registry     { return s.reg }
func (s *Server) Dispatcher() *Dispatcher { return s.disp }
func (s *Server) Manager() *ConnManager   { return s.mgr }

// Attach registers a fresh, still anonymous connection.
func (s *Server) Attach(c *Client) {
	s.reg.Add(c)
	s.mgr.Add(c)
	logger.Info("connected to socket",
		zap.String("connId", c.ConnID), zap.Int("live", s.reg.Len()))
}

// Dispatch routes one inbound frame. Errors mean the frame was dropped; the
// connection is never torn down for a bad frame.
func (s *Server) Dispatch(f *Frame, c *Client) error {
	s.mgr.Heartbeat(c.ConnID)
	return s.disp.Dispatch(f, c)
}

// BindIdentity points the connection at userID's personal channel,
// last-write-wins over any earlier identity, and flips presence state for
// both sides of the rebind.
func (s *Server) BindIdentity(c *Client, userID string) {
	prev, ok := s.reg.BindUser(c.ConnID, userID)
	if !ok {
		return
	}
	s.mgr.MarkIdentified(c.ConnID)
	if prev != "" && prev != userID && s.reg.UserConnCount(prev) == 0 {
		s.presenceOffline(prev)
	}
	s.presenceOnline(userID)
}

// JoinChat subscribes the connection to a conversation channel. Membership
// is taken on faith; the chat document is never consulted here.
func (s *Server) JoinChat(c *Client, chatID string) {
	s.reg.JoinChat(c.ConnID, chatID)
	logger.Info("user joined room",
		zap.String("connId", c.ConnID), zap.String("chatId", chatID))
}

// BroadcastChat fans a frame out to a conversation channel, excluding the
// originating connection. Nobody subscribed is a silent no-op.
func (s *Server) BroadcastChat(chatID string, origin *Client, f *Frame) int {
	exceptConn := ""
	if origin != nil {
		exceptConn = origin.ConnID
	}
	return s.fan.Broadcast(s.reg.ListChatExcept(chatID, exceptConn), f)
}

// EmitUser fans a frame out to a personal channel, excluding the
// originating connection so a payload never loops back to its source.
func (s *Server) EmitUser(userID string, origin *Client, f *Frame) int {
	exceptConn := ""
	if origin != nil {
		exceptConn = origin.ConnID
	}
	return s.fan.Broadcast(s.reg.ListPersonalExcept(userID, exceptConn), f)
}

// DropConnection runs the full disconnect path: one atomic registry sweep,
// lifetime record removal, presence offline when this was the user's last
// connection, then the socket close. Idempotent.
func (s *Server) DropConnection(c *Client) {
	userID, had := s.reg.Remove(c.ConnID)
	s.mgr.Remove(c.ConnID)
	c.Close()
	if !had {
		return
	}
	if userID != "" && s.reg.UserConnCount(userID) == 0 {
		s.presenceOffline(userID)
	}
	logger.Info("user disconnected",
		zap.String("connId", c.ConnID), zap.String("userId", userID))
}

// RenewPresence refreshes the redis lease for the user behind a live
// connection. Driven by pongs so an idle but healthy socket stays online.
func (s *Server) RenewPresence(c *Client) {
	userID := s.reg.UserOf(c.ConnID)
	if userID == "" {
		return
	}
	s.presenceOnline(userID)
}

func (s *Server) Stop() {
	s.mgr.Stop()
}

// Presence is additive. When redis is down the gateway keeps routing and
// only the online lookup degrades.
func (s *Server) presenceOnline(userID string) {
	if err := storage.PresenceOnline(userID, s.conf.GatewayID, s.conf.PresenceTTL); err != nil {
		logger.Debug("presence online skipped",
			zap.String("userId", userID), zap.Error(err))
	}
}

func (s *Server) presenceOffline(userID string) {
	if err := storage.PresenceOffline(userID); err != nil {
		logger.Debug("presence offline skipped",
			zap.String("userId", userID), zap.Error(err))
	}
}
