// Package event defines the server-to-client events fanned out by the hub.
// Each event knows its wire name; the gateway wraps it in a typed envelope.
package event

import "time"

// DomainEvent is implemented by every event the hub can broadcast.
type DomainEvent interface {
	EventName() string
}

// MessageBroadcast carries one accepted chat message.
// It is sent to ALL sessions including the sender; clients recognise
// their own messages by username match.
type MessageBroadcast struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (MessageBroadcast) EventName() string { return "message" }

// ChatHistory is the bounded replay pushed to a session on successful join,
// oldest message first. It marshals as a plain array.
type ChatHistory []MessageBroadcast

func (ChatHistory) EventName() string { return "chatHistory" }

// UserJoined is a presence event carrying the updated online count.
type UserJoined struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

func (UserJoined) EventName() string { return "user-joined" }

// UserLeft is a presence event carrying the updated online count.
type UserLeft struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

func (UserLeft) EventName() string { return "user-left" }

type UserTyping struct {
	Username string `json:"username"`
}

func (UserTyping) EventName() string { return "userTyping" }

type UserNotTyping struct {
	Username string `json:"username"`
}

func (UserNotTyping) EventName() string { return "usernotTyping" }

// AuthError is sent to the joining connection only, before it is closed.
type AuthError struct {
	Reason string `json:"reason"`
}

func (AuthError) EventName() string { return "auth-error" }
