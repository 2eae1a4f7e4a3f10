package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 25 * time.Second
	maxFrameBytes  = 64 << 10
	sendQueueDepth = 64
)

// Client is one socket connection. Identity and channel membership live in
// the Registry; the client itself only knows how to get bytes onto the wire.
type Client struct {
	ConnID string
	WS     *websocket.Conn

	Send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(connID string, ws *websocket.Conn) *Client {
	return &Client{
		ConnID: connID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueDepth),
		done:   make(chan struct{}),
	}
}

// Deliver queues a payload without blocking. A full queue means the reader on
// the other end has stalled; the payload is dropped and the caller sees false.
func (c *Client) Deliver(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// DeliverFrame encodes and queues an outbound frame.
func (c *Client) DeliverFrame(f *Frame) bool {
	raw := f.Encode()
	if raw == nil {
		return false
	}
	return c.Deliver(raw)
}

// Close tears the socket down. Safe to call more than once and from any
// goroutine; the Send channel is never closed, writePump drains via done.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.WS != nil {
			_ = c.WS.Close()
		}
	})
}

// writePump is the single writer for the socket. It serializes queued
// payloads and keepalive pings; any write failure ends the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.WS.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.Send:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WS.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("write failed, closing",
					zap.String("connId", c.ConnID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WS.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
