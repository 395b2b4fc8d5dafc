// Package observability collects runtime counters for the relay.
// Counters are atomic so every connection goroutine can report without locking.
package observability

import (
	"sync/atomic"
	"time"
)

// Stats is a snapshot of the relay's counters, suitable for logging or the
// debug inspect page.
type Stats struct {
	MessagesAccepted  uint64 `json:"messages_accepted"`
	MessagesPersisted uint64 `json:"messages_persisted"`
	StorageFailures   uint64 `json:"storage_failures"`
	EventsDelivered   uint64 `json:"events_delivered"`
	DroppedClients    uint64 `json:"dropped_clients"`
	AuthFailures      uint64 `json:"auth_failures"`
	StartedAt         string `json:"started_at"`
}

// Monitor accumulates counters over the process lifetime.
type Monitor struct {
	messagesAccepted  atomic.Uint64
	messagesPersisted atomic.Uint64
	storageFailures   atomic.Uint64
	eventsDelivered   atomic.Uint64
	droppedClients    atomic.Uint64
	authFailures      atomic.Uint64
	startedAt         time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now().UTC()}
}

func (m *Monitor) IncrMessagesAccepted()  { m.messagesAccepted.Add(1) }
func (m *Monitor) IncrMessagesPersisted() { m.messagesPersisted.Add(1) }
func (m *Monitor) IncrStorageFailures()   { m.storageFailures.Add(1) }
func (m *Monitor) IncrEventsDelivered()   { m.eventsDelivered.Add(1) }
func (m *Monitor) IncrDroppedClients()    { m.droppedClients.Add(1) }
func (m *Monitor) IncrAuthFailures()      { m.authFailures.Add(1) }

func (m *Monitor) Snapshot() Stats {
	return Stats{
		MessagesAccepted:  m.messagesAccepted.Load(),
		MessagesPersisted: m.messagesPersisted.Load(),
		StorageFailures:   m.storageFailures.Load(),
		EventsDelivered:   m.eventsDelivered.Load(),
		DroppedClients:    m.droppedClients.Load(),
		AuthFailures:      m.authFailures.Load(),
		StartedAt:         m.startedAt.Format(time.RFC3339),
	}
}
