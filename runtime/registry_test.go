package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Zzzoorroo/Duo-Project/domain/event"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

type nopSink struct{}

func (nopSink) Consume(ctx context.Context, e event.DomainEvent) error { return nil }
func (nopSink) Close()                                                 {}

func TestRegistry_Register_One_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	// Given no session is connected
	req.Zero(registry.Count())

	// When a connection registers
	req.NoError(registry.Register(connID, "alice", nopSink{}))

	// Then it is visible with its username
	req.Equal(1, registry.Count())
	member, ok := registry.Get(connID)
	req.True(ok)
	req.Equal("alice", member.Session.Username)
	req.False(member.Session.Typing)
}

func TestRegistry_Register_Duplicate_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	req.NoError(registry.Register(connID, "alice", nopSink{}))

	// Registering the same connection id again must fail
	err := registry.Register(connID, "alice", nopSink{})
	req.ErrorIs(err, apperrors.ErrDuplicateConnection)
	req.Equal(1, registry.Count())
}

func TestRegistry_Same_Username_Different_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Username uniqueness is NOT enforced
	req.NoError(registry.Register(uuid.NewString(), "alice", nopSink{}))
	req.NoError(registry.Register(uuid.NewString(), "alice", nopSink{}))
	req.Equal(2, registry.Count())
}

func TestRegistry_Deregister_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	// Given a registered connection
	req.NoError(registry.Register(connID, "alice", nopSink{}))

	// When it deregisters
	session, ok := registry.Deregister(connID)

	// Then the session comes back once and the count returns to zero
	req.True(ok)
	req.Equal("alice", session.Username)
	req.Zero(registry.Count())
	req.Empty(registry.AllExcept(uuid.NewString()))

	// And a second deregister is a no-op
	_, ok = registry.Deregister(connID)
	req.False(ok)
}

func TestRegistry_SetTyping(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	// Unknown session
	req.ErrorIs(registry.SetTyping(connID, true), apperrors.ErrUnknownSession)

	req.NoError(registry.Register(connID, "alice", nopSink{}))
	req.NoError(registry.SetTyping(connID, true))

	member, ok := registry.Get(connID)
	req.True(ok)
	req.True(member.Session.Typing)
}

func TestRegistry_AllExcept_Excludes_Given_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID1 := uuid.NewString()
	connID2 := uuid.NewString()

	req.NoError(registry.Register(connID1, "alice", nopSink{}))
	req.NoError(registry.Register(connID2, "bob", nopSink{}))

	others := registry.AllExcept(connID1)
	req.Len(others, 1)
	req.Equal("bob", others[0].Session.Username)

	// The empty id enumerates everyone
	req.Len(registry.AllExcept(""), 2)
}
