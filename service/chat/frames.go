package chat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/SNTejaswi/MERN-CHAT-APP/tools/decode"
)

// Event names on the socket surface. Inbound names match what the web client
// emits; outbound names are what it listens for.
const (
	EventSetup      = "setup"
	EventJoinChat   = "join chat"
	EventTyping     = "typing"
	EventStopTyping = "stop typing"
	EventNewMessage = "new message"

	EventConnected       = "connected"
	EventMessageReceived = "message received"
)

// Frame is the wire unit: an event name plus its raw payload. The payload is
// kept raw so fan-out can forward it verbatim without reshaping.
type Frame struct {
	Event   string          `json:"event"`
	TraceID string          `json:"traceId,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func ParseFrameJSON(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if frame.Event == "" {
		return nil, fmt.Errorf("frame has no event")
	}
	if frame.TraceID == "" {
		frame.TraceID = uuid.NewString()
	}
	return frame, nil
}

// NewFrame builds an outbound frame; data may be nil.
func NewFrame(event string, data any) *Frame {
	f := &Frame{Event: event, TraceID: uuid.NewString()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			f.Data = raw
		}
	}
	return f
}

// ForwardFrame rebroadcasts an inbound payload under a new event name,
// keeping the trace id so a delivery can be correlated with its origin.
func ForwardFrame(event string, src *Frame) *Frame {
	return &Frame{Event: event, TraceID: src.TraceID, Data: src.Data}
}

func (f *Frame) Encode() []byte {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return raw
}

// UserRef accepts the two shapes clients send for a user reference: an
// embedded object carrying an identity field, or a raw identity string.
type UserRef struct {
	id string
}

func (r *UserRef) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		r.id = ""
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		r.id = s
		return nil
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	r.id = obj.ID
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

// ID returns the canonical comparable identity, "" when the reference is
// absent or malformed.
func (r UserRef) ID() string { return r.id }

// SetupPayload is the `setup` event body. The client sends its whole user
// document; only the identity matters. Decoded weakly so numeric ids coming
// from sloppy clients still normalize to strings.
type SetupPayload struct {
	ID    string `json:"_id"`
	AltID string `json:"id"`
}

// UserID prefers the document `_id` form and falls back to a bare `id`.
func (p *SetupPayload) UserID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.AltID
}

func ExtractSetupPayload(f *Frame) (*SetupPayload, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("setup payload is empty")
	}
	return decode.JSON[SetupPayload](f.Data)
}

// ExtractChatID handles the `join chat` / typing family payload, which is
// either a bare chat id string or an object holding one.
func ExtractChatID(f *Frame) (string, error) {
	data := bytes.TrimSpace(f.Data)
	if len(data) == 0 {
		return "", fmt.Errorf("chat id payload is empty")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	obj, err := decode.JSON[struct {
		ChatID string `json:"chatId"`
		ID     string `json:"_id"`
	}](data)
	if err != nil {
		return "", err
	}
	if obj.ChatID != "" {
		return obj.ChatID, nil
	}
	return obj.ID, nil
}

// ChatRef is the denormalized chat snapshot inside a `new message` payload.
type ChatRef struct {
	ID    string    `json:"_id"`
	Users []UserRef `json:"users"`
}

// NewMessagePayload is the routing-relevant slice of a `new message` event;
// the rest of the payload rides along untouched in the frame data.
type NewMessagePayload struct {
	Sender UserRef  `json:"sender"`
	Chat   *ChatRef `json:"chat"`
}

func ExtractNewMessage(f *Frame) (*NewMessagePayload, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("message payload is empty")
	}
	var p NewMessagePayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal message payload: %w", err)
	}
	return &p, nil
}
