package ws

import (
	"context"
	"sync"

	"github.com/Zzzoorroo/Duo-Project/domain/event"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

// Sink is one connection's bounded outbound queue. The hub pushes events
// into it without blocking; the connection's write pump drains it. A full
// buffer is reported to the hub, which drops the connection rather than
// applying backpressure to the whole room.
type Sink struct {
	events chan event.DomainEvent
	done   chan struct{}
	once   sync.Once
}

func NewSink(bufferSize int) *Sink {
	return &Sink{
		events: make(chan event.DomainEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	// Closed wins over a buffer with room left.
	select {
	case <-s.done:
		return apperrors.ErrSinkFull
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case s.events <- e:
		return nil
	default:
		return apperrors.ErrSinkFull
	}
}

// Close wakes up the write pump; it never closes the events channel, so a
// late Consume from a concurrent broadcast cannot panic.
func (s *Sink) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Sink) Events() <-chan event.DomainEvent { return s.events }
func (s *Sink) Done() <-chan struct{}            { return s.done }
