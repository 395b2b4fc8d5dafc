// Package ws is the connection gateway: it accepts websocket connections,
// frames the JSON event protocol, and forwards decoded events to the hub.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Zzzoorroo/Duo-Project/contract"
)

// Gateway upgrades HTTP requests to websocket connections and runs one
// client per connection.
type Gateway struct {
	hub            contract.IHub
	log            *slog.Logger
	bufferSize     int
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

func NewGateway(log *slog.Logger, hub contract.IHub, bufferSize int, maxMessageSize int64) *Gateway {
	return &Gateway{
		hub:            hub,
		log:            log,
		bufferSize:     bufferSize,
		maxMessageSize: maxMessageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The relay has no same-origin requirement; browsers connect
			// from wherever the front-end is served.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers the gateway endpoints on the given mux.
func (g *Gateway) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.handleConnection)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// handleConnection upgrades the request and blocks on the read pump until
// the connection ends. Each connection gets a fresh, never reused id.
func (g *Gateway) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		connID:         uuid.NewString(),
		conn:           conn,
		sink:           NewSink(g.bufferSize),
		hub:            g.hub,
		log:            g.log,
		maxMessageSize: g.maxMessageSize,
	}
	g.log.Debug("Connection accepted", "conn_id", c.connID, "remote", r.RemoteAddr)

	go c.writePump()
	c.readPump(r.Context())
}
