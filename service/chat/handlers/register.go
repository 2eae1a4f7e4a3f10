package handlers

import (
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

// RegisterAll wires every socket event handler into the server's
// dispatcher. Called once from main after the server is built.
func RegisterAll(srv *chat.Server) {
	d := srv.Dispatcher()
	d.Register(NewSetupHandler(srv))
	d.Register(NewJoinHandler(srv))
	d.Register(NewTypingHandler(srv))
	d.Register(NewStopTypingHandler(srv))
	d.Register(NewMessageHandler(srv))
}
