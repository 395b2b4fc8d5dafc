package ws

import (
	"encoding/json"
	"fmt"

	"github.com/Zzzoorroo/Duo-Project/domain/event"
)

// Client-to-server event types.
const (
	typeJoin    = "join"
	typeMessage = "message"
	typeTyping  = "typing"
)

// Envelope is the wire framing used in both directions: one event per
// websocket text message, tagged with its type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	Username   string `json:"username"`
	Credential string `json:"credential"`
}

type MessagePayload struct {
	Text string `json:"text"`
}

type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// DecodeEnvelope parses one inbound frame. The payload stays raw; the
// dispatcher decodes it once the type is known.
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}
	if envelope.Type == "" {
		return Envelope{}, fmt.Errorf("missing event type")
	}
	return envelope, nil
}

// EncodeEvent wraps a server-side event in an envelope carrying its wire name.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: e.EventName(), Payload: payload})
}
