package domain

import "fmt"

// Session is the server-side record of one live, authenticated connection.
// ConnID identifies the transport connection and is never reused.
// Username is set once at join time; it is NOT unique across sessions,
// the same user may be connected twice.
type Session struct {
	ConnID   string
	Username string
	Typing   bool
}

var (
	ErrEmptyUsername = fmt.Errorf("username is empty")
	ErrEmptyText     = fmt.Errorf("text is empty")
)
