//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"github.com/Zzzoorroo/Duo-Project/domain"
	"github.com/Zzzoorroo/Duo-Project/domain/event"
)

// EventSink is one connection's outbound queue.
// Consume must not block the caller: a full buffer is reported as an error
// so the hub can drop the connection instead of stalling the room.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
	Close()
}

// Member pairs a live session with its outbound sink.
type Member struct {
	Session domain.Session
	Sink    EventSink
}

type IRegistry interface {
	Register(connID, username string, sink EventSink) error
	Deregister(connID string) (domain.Session, bool)
	Get(connID string) (Member, bool)
	SetTyping(connID string, typing bool) error
	Count() int
	AllExcept(connID string) []Member
}

type IMessageRepository interface {
	StoreMessage(username, text string, at time.Time) (domain.Message, error)
	RecentMessages(limit int) ([]domain.Message, error)
}

// IHub is the gateway's view of the broadcast core.
type IHub interface {
	OnJoin(ctx context.Context, connID, username, credential string, sink EventSink) error
	OnMessage(ctx context.Context, connID, text string) error
	OnTyping(ctx context.Context, connID string, typing bool) error
	OnDisconnect(ctx context.Context, connID string)
}

// IAuthenticator validates a join credential. Policies are pluggable;
// the default accepts any non-empty username/credential pair.
type IAuthenticator interface {
	Authenticate(username, credential string) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself. The supervisor recovers its panics.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
