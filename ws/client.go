package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Zzzoorroo/Duo-Project/contract"
	"github.com/Zzzoorroo/Duo-Project/domain/event"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// client owns one websocket connection: a read pump that feeds decoded
// events to the hub and a write pump that drains the sink.
type client struct {
	connID         string
	conn           *websocket.Conn
	sink           *Sink
	hub            contract.IHub
	log            *slog.Logger
	maxMessageSize int64
}

// readPump processes inbound frames in receipt order until the connection
// dies or violates the protocol. It blocks the caller; the write pump runs
// in its own goroutine.
//
// The connection is NOT closed here. Closing the sink hands the connection
// over to the write pump, which drains the queued events, sends a close
// frame, and only then closes the conn. Closing it from this side would race
// that final flush.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.OnDisconnect(ctx, c.connID)
		c.sink.Close()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected websocket error", "conn_id", c.connID, "error", err)
			}
			return
		}
		if !c.dispatch(ctx, frame) {
			return
		}
	}
}

// dispatch routes one decoded envelope to the hub. It returns false when the
// connection must close: a protocol violation or a failed join.
func (c *client) dispatch(ctx context.Context, frame []byte) bool {
	envelope, err := DecodeEnvelope(frame)
	if err != nil {
		c.log.Warn("Protocol violation, closing connection", "conn_id", c.connID, "error", err)
		return false
	}

	switch envelope.Type {
	case typeJoin:
		var payload JoinPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			c.log.Warn("Malformed join payload", "conn_id", c.connID, "error", err)
			return false
		}
		if err := c.hub.OnJoin(ctx, c.connID, payload.Username, payload.Credential, c.sink); err != nil {
			// The auth-error event is already queued. Returning false closes
			// the sink, and the write pump flushes the queue before it
			// closes the connection.
			return false
		}
	case typeMessage:
		var payload MessagePayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			c.log.Warn("Malformed message payload", "conn_id", c.connID, "error", err)
			return false
		}
		// Not-authenticated is logged by the hub and is non-fatal here.
		_ = c.hub.OnMessage(ctx, c.connID, payload.Text)
	case typeTyping:
		var payload TypingPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			c.log.Warn("Malformed typing payload", "conn_id", c.connID, "error", err)
			return false
		}
		_ = c.hub.OnTyping(ctx, c.connID, payload.IsTyping)
	default:
		c.log.Warn("Unknown event type, closing connection",
			"conn_id", c.connID, "type", envelope.Type)
		return false
	}
	return true
}

// writePump serializes queued events onto the wire and keeps the connection
// alive with pings. When the sink closes it flushes what is already queued,
// sends a close frame, and returns. Its defer is the only place the
// connection is closed.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case e := <-c.sink.Events():
			if !c.writeEvent(e) {
				return
			}
		case <-c.sink.Done():
			c.flushRemaining()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) writeEvent(e event.DomainEvent) bool {
	frame, err := EncodeEvent(e)
	if err != nil {
		c.log.Error("Could not encode event", "conn_id", c.connID, "error", err)
		return true
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return false
	}
	return true
}

// flushRemaining drains events that were queued before the sink closed, so
// a rejected join still sees its auth-error.
func (c *client) flushRemaining() {
	for {
		select {
		case e := <-c.sink.Events():
			if !c.writeEvent(e) {
				return
			}
		default:
			return
		}
	}
}
