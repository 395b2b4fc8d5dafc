// Package domain contains core concepts of the chat relay.
// This file defines Message entities and related rules.
// Messages are immutable and validated by the store before persistence.
package domain

import (
	"strings"
	"time"
)

// Message represents an immutable chat message.
// The ID is assigned by the store and strictly increases with insertion order,
// which makes it the ordering key for history replay.
type Message struct {
	ID       uint64
	Username string
	Text     string
	At       time.Time
}

// Validate enforces the schema constraints shared by store and hub:
// both username and text must be non-empty after trimming.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	return nil
}
