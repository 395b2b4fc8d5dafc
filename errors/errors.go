package errors

import "fmt"

var (
	// ErrAuthentication is surfaced to the offending client as an auth-error event.
	ErrAuthentication = fmt.Errorf("authentication failed")
	// ErrNotAuthenticated marks actions received before a join completed.
	// It is logged and ignored, never fatal to the connection.
	ErrNotAuthenticated = fmt.Errorf("connection not authenticated")
	// ErrUnknownSession and ErrDuplicateConnection indicate a gateway/hub desync.
	ErrUnknownSession      = fmt.Errorf("unknown session")
	ErrDuplicateConnection = fmt.Errorf("connection already registered")
	// ErrStorage wraps persistence failures. Live delivery proceeds regardless.
	ErrStorage = fmt.Errorf("storage unavailable")
	// ErrSinkFull means a connection's outbound buffer overflowed.
	// The hub treats the connection as disconnected.
	ErrSinkFull = fmt.Errorf("outbound buffer full")
	// ErrWorkerPanic is what the supervisor reports for a recovered panic.
	ErrWorkerPanic = fmt.Errorf("worker panic")
)
