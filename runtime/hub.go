package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Zzzoorroo/Duo-Project/contract"
	"github.com/Zzzoorroo/Duo-Project/domain/event"
	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
	"github.com/Zzzoorroo/Duo-Project/moderation"
	"github.com/Zzzoorroo/Duo-Project/observability"
)

// Hub mediates between incoming client events and the registry/store, and
// fans events out to all connected sessions.
//
// All registry mutation and fan-out happens inside one mutex, which is the
// single serialization point guaranteeing a global broadcast order. The
// durable store write in OnMessage deliberately happens OUTSIDE that critical
// section: persisted order and broadcast order may rarely diverge under
// concurrent writers, which we accept to keep disk I/O off the hot path.
type Hub struct {
	mu            sync.Mutex
	log           *slog.Logger
	registry      contract.IRegistry
	repository    contract.IMessageRepository
	authenticator contract.IAuthenticator
	moderator     *moderation.Moderator
	monitor       *observability.Monitor
	historyLimit  int
	maxTextLength int
}

func NewHub(log *slog.Logger, registry contract.IRegistry,
	repository contract.IMessageRepository, authenticator contract.IAuthenticator,
	moderator *moderation.Moderator, monitor *observability.Monitor,
	historyLimit, maxTextLength int) *Hub {
	return &Hub{
		log:           log,
		registry:      registry,
		repository:    repository,
		authenticator: authenticator,
		moderator:     moderator,
		monitor:       monitor,
		historyLimit:  historyLimit,
		maxTextLength: maxTextLength,
	}
}

// OnJoin validates the credential, registers the session, replays recent
// history to the caller, and announces the arrival to everyone else.
// On authentication failure the caller receives an auth-error event and no
// session is registered; the returned error tells the gateway to close.
func (h *Hub) OnJoin(ctx context.Context, connID, username, credential string, sink contract.EventSink) error {
	if err := h.authenticator.Authenticate(username, credential); err != nil {
		h.monitor.IncrAuthFailures()
		h.log.Warn("Join rejected", "conn_id", connID, "username", username, "error", err)
		if consumeErr := sink.Consume(ctx, event.AuthError{Reason: reasonText(err)}); consumeErr != nil {
			h.log.Debug("Could not deliver auth-error", "conn_id", connID, "error", consumeErr)
		}
		return err
	}

	// History is read before entering the critical section; a storage failure
	// degrades the join to an empty replay instead of failing it.
	history, err := h.repository.RecentMessages(h.historyLimit)
	if err != nil {
		h.monitor.IncrStorageFailures()
		h.log.Warn("History unavailable, replaying empty history", "conn_id", connID, "error", err)
		history = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.registry.Register(connID, username, sink); err != nil {
		h.log.Error("Gateway/hub desync on register", "conn_id", connID, "error", err)
		return err
	}

	snapshot := make(event.ChatHistory, 0, len(history))
	for _, message := range history {
		snapshot = append(snapshot, event.MessageBroadcast{
			Username:  message.Username,
			Text:      message.Text,
			Timestamp: message.At,
		})
	}
	if err := sink.Consume(ctx, snapshot); err != nil {
		h.log.Warn("Could not deliver history snapshot", "conn_id", connID, "error", err)
	}

	h.fanoutLocked(ctx, h.registry.AllExcept(connID), event.UserJoined{
		Username: username,
		Count:    h.registry.Count(),
	})
	h.log.Info("User joined", "conn_id", connID, "username", username, "online", h.registry.Count())
	return nil
}

// OnMessage accepts a chat message from an authenticated connection,
// persists it, and broadcasts it to ALL sessions including the sender.
// A storage failure is logged but does not block delivery: chat continuity
// takes priority over audit completeness.
func (h *Hub) OnMessage(ctx context.Context, connID, text string) error {
	member, ok := h.registry.Get(connID)
	if !ok {
		h.log.Warn("Message before join, ignoring", "conn_id", connID)
		return fmt.Errorf("%w: %s", apperrors.ErrNotAuthenticated, connID)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		h.log.Debug("Empty message, ignoring", "conn_id", connID)
		return nil
	}
	if len([]rune(text)) > h.maxTextLength {
		h.log.Debug("Oversized message, ignoring",
			"conn_id", connID, "length", len([]rune(text)), "max", h.maxTextLength)
		return nil
	}

	sanitized, censoredWords := h.moderator.Censor(text)
	if len(censoredWords) > 0 {
		h.log.Info("Message censored",
			"username", member.Session.Username,
			"words", len(censoredWords),
			"lang", moderation.DetectLanguage(text))
	}

	h.monitor.IncrMessagesAccepted()
	at := time.Now().UTC()

	// Durable write outside the critical section, see type comment.
	if _, err := h.repository.StoreMessage(member.Session.Username, sanitized, at); err != nil {
		h.monitor.IncrStorageFailures()
		h.log.Error("Message not persisted, broadcasting anyway",
			"conn_id", connID, "error", err)
	} else {
		h.monitor.IncrMessagesPersisted()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.fanoutLocked(ctx, h.registry.AllExcept(""), event.MessageBroadcast{
		Username:  member.Session.Username,
		Text:      sanitized,
		Timestamp: at,
	})
	return nil
}

// OnTyping updates the session's typing state and notifies everyone except
// the typist. There is no debouncing in the core; throttling, if any, is a
// gateway concern.
func (h *Hub) OnTyping(ctx context.Context, connID string, typing bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.registry.SetTyping(connID, typing); err != nil {
		h.log.Warn("Typing before join, ignoring", "conn_id", connID)
		return fmt.Errorf("%w: %s", apperrors.ErrNotAuthenticated, connID)
	}

	member, _ := h.registry.Get(connID)
	var evt event.DomainEvent
	if typing {
		evt = event.UserTyping{Username: member.Session.Username}
	} else {
		evt = event.UserNotTyping{Username: member.Session.Username}
	}
	h.fanoutLocked(ctx, h.registry.AllExcept(connID), evt)
	return nil
}

// OnDisconnect removes the session and announces the departure. It is
// idempotent, and a connection that never authenticated triggers no
// broadcast: there is nothing to announce.
func (h *Hub) OnDisconnect(ctx context.Context, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.registry.Deregister(connID)
	if !ok {
		return
	}
	h.fanoutLocked(ctx, h.registry.AllExcept(""), event.UserLeft{
		Username: session.Username,
		Count:    h.registry.Count(),
	})
	h.log.Info("User left", "conn_id", connID, "username", session.Username, "online", h.registry.Count())
}

// fanoutLocked delivers one event to every given member. A member whose sink
// rejects the event (bounded buffer overflow, dead connection) is dropped
// from the registry and its departure is announced, so one slow consumer
// never stalls the room. Must be called with h.mu held.
func (h *Hub) fanoutLocked(ctx context.Context, members []contract.Member, e event.DomainEvent) {
	var failed []contract.Member
	for _, member := range members {
		if err := member.Sink.Consume(ctx, e); err != nil {
			failed = append(failed, member)
			continue
		}
		h.monitor.IncrEventsDelivered()
	}

	for _, member := range failed {
		session, ok := h.registry.Deregister(member.Session.ConnID)
		if !ok {
			continue
		}
		h.monitor.IncrDroppedClients()
		member.Sink.Close()
		h.log.Warn("Dropping slow connection",
			"conn_id", member.Session.ConnID, "username", session.Username)
		h.fanoutLocked(ctx, h.registry.AllExcept(""), event.UserLeft{
			Username: session.Username,
			Count:    h.registry.Count(),
		})
	}
}

// reasonText strips the sentinel prefix so clients get a readable reason.
func reasonText(err error) string {
	if errors.Is(err, apperrors.ErrAuthentication) {
		return strings.TrimPrefix(err.Error(), apperrors.ErrAuthentication.Error()+": ")
	}
	return err.Error()
}
