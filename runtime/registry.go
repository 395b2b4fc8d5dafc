// Package runtime hosts the session registry and the broadcast hub.
// It orchestrates the relay without containing transport or storage logic.
package runtime

import (
	"fmt"
	"sync"

	"github.com/Zzzoorroo/Duo-Project/contract"
	"github.com/Zzzoorroo/Duo-Project/domain"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
)

type sessionEntry struct {
	username string
	typing   bool
	sink     contract.EventSink
}

// Registry tracks every live, authenticated connection.
// It is the single shared mutable structure touched by all connections, so
// every operation is atomic under one RWMutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*sessionEntry)}
}

// Register adds a session for a connection. A duplicate connection id means
// the gateway and hub disagree about connection lifecycle; the defensive
// check surfaces that as ErrDuplicateConnection.
func (r *Registry) Register(connID, username string, sink contract.EventSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[connID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateConnection, connID)
	}
	r.sessions[connID] = &sessionEntry{username: username, sink: sink}
	return nil
}

// Deregister removes a session. It is idempotent: deregistering an absent
// connection reports ok=false and changes nothing.
func (r *Registry) Deregister(connID string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, connID)
	return domain.Session{ConnID: connID, Username: entry.username, Typing: entry.typing}, true
}

func (r *Registry) Get(connID string) (contract.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[connID]
	if !ok {
		return contract.Member{}, false
	}
	return toMember(connID, entry), true
}

func (r *Registry) SetTyping(connID string, typing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[connID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownSession, connID)
	}
	entry.typing = typing
	return nil
}

// Count returns the current live session count, used for presence broadcasts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// AllExcept enumerates every session other than the given connection.
// Passing "" enumerates everyone. The result is a snapshot; callers may
// deregister members while iterating it.
func (r *Registry) AllExcept(connID string) []contract.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]contract.Member, 0, len(r.sessions))
	for id, entry := range r.sessions {
		if id == connID {
			continue
		}
		members = append(members, toMember(id, entry))
	}
	return members
}

func toMember(connID string, entry *sessionEntry) contract.Member {
	return contract.Member{
		Session: domain.Session{ConnID: connID, Username: entry.username, Typing: entry.typing},
		Sink:    entry.sink,
	}
}
