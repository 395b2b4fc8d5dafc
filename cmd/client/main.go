// Command client is a small terminal chat client, handy for smoke testing
// the relay: it joins with the configured identity, prints every event, and
// sends each stdin line as a message.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"

	"github.com/Zzzoorroo/Duo-Project/ws"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Username      string `env:"CHAT_USERNAME,required=true"`
	Credential    string `env:"CHAT_CREDENTIAL,required=true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("ws://%s/ws", config.ServerAddress)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", url, err)
	}
	defer conn.Close()

	if err := send(conn, "join", ws.JoinPayload{
		Username:   config.Username,
		Credential: config.Credential,
	}); err != nil {
		return exitRuntime, err
	}
	color.Green.Printf(">>> Connected to %s as %s (Ctrl+C to quit)\n", url, config.Username)

	// Reception loop in the background; stdin loop in the foreground.
	readErr := make(chan error, 1)
	go func() { readErr <- receive(conn) }()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := scanner.Text()
			if text == "" {
				continue
			}
			if err := send(conn, "message", ws.MessagePayload{Text: text}); err != nil {
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return exitOK, nil
	case err := <-readErr:
		if err != nil && ctx.Err() == nil {
			return exitRuntime, err
		}
		return exitOK, nil
	}
}

func send(conn *websocket.Conn, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(ws.Envelope{Type: eventType, Payload: raw})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func receive(conn *websocket.Conn) error {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		envelope, err := ws.DecodeEnvelope(frame)
		if err != nil {
			continue
		}
		display(envelope)
	}
}

func display(envelope ws.Envelope) {
	switch envelope.Type {
	case "chatHistory":
		var messages []struct {
			Username  string    `json:"username"`
			Text      string    `json:"text"`
			Timestamp time.Time `json:"timestamp"`
		}
		if json.Unmarshal(envelope.Payload, &messages) != nil {
			return
		}
		for _, m := range messages {
			color.Gray.Printf("[%s] %s: %s\n", m.Timestamp.Format(time.TimeOnly), m.Username, m.Text)
		}
	case "message":
		var m struct {
			Username  string    `json:"username"`
			Text      string    `json:"text"`
			Timestamp time.Time `json:"timestamp"`
		}
		if json.Unmarshal(envelope.Payload, &m) != nil {
			return
		}
		color.Cyan.Printf("[%s] %s: %s\n", m.Timestamp.Format(time.TimeOnly), m.Username, m.Text)
	case "user-joined", "user-left":
		var p struct {
			Username string `json:"username"`
			Count    int    `json:"count"`
		}
		if json.Unmarshal(envelope.Payload, &p) != nil {
			return
		}
		verb := "joined"
		if envelope.Type == "user-left" {
			verb = "left"
		}
		color.Green.Printf("* %s %s (%d online)\n", p.Username, verb, p.Count)
	case "userTyping":
		var p struct {
			Username string `json:"username"`
		}
		if json.Unmarshal(envelope.Payload, &p) != nil {
			return
		}
		color.Yellow.Printf("* %s is typing...\n", p.Username)
	case "usernotTyping":
		// Quiet: the indicator simply stops.
	case "auth-error":
		var p struct {
			Reason string `json:"reason"`
		}
		if json.Unmarshal(envelope.Payload, &p) != nil {
			return
		}
		color.Red.Printf("Authentication error: %s\n", p.Reason)
	}
}
