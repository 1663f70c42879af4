// Package events provides the append-only event feed for the simulation.
// Systems publish what happened; the engine, the persistence adapter and the
// presentation hub all consume the same immutable sequence.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeTimeTick          EventType = "TIME_TICK"
	EventTypeCargoTransfer     EventType = "CARGO_TRANSFER"
	EventTypeRouteCompleted    EventType = "ROUTE_COMPLETED"
	EventTypeVehicleRegistered EventType = "VEHICLE_REGISTERED"
)

// Event represents an immutable record of something that happened in the
// simulation.
type Event struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`         // Primary entity involved
	PeerID    string      `json:"peer_id,omitempty"` // Counterparty, if any
	Payload   interface{} `json:"payload"`           // Event-specific data
	GameDay   int         `json:"game_day"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event Event) error
}

// EventLog is the in-memory append-only log of simulation events. Appends
// come from the high-frequency tick path; reads come from pollers running at
// their own cadence.
type EventLog struct {
	mu        sync.RWMutex
	events    []Event
	persister EventPersister

	// Pending writes drain through a single goroutine so stored rows keep
	// the append order. The tick path only queues; it never waits on
	// storage.
	queueMu sync.Mutex
	queue   []Event
	wake    chan struct{}
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	el := &EventLog{
		events:    make([]Event, 0),
		persister: persister,
	}
	if persister != nil {
		el.wake = make(chan struct{}, 1)
		go el.drainQueue()
	}
	return el
}

// Append adds a new event to the log. Events are immutable once appended.
// Persistence is write-through but off the caller's path.
func (el *EventLog) Append(event Event) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister == nil {
		return
	}
	el.queueMu.Lock()
	el.queue = append(el.queue, event)
	el.queueMu.Unlock()
	select {
	case el.wake <- struct{}{}:
	default:
	}
}

// drainQueue is the lone persistence consumer. One writer means the store
// sees events in the same order Append did.
func (el *EventLog) drainQueue() {
	for range el.wake {
		for {
			el.queueMu.Lock()
			batch := el.queue
			el.queue = nil
			el.queueMu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, e := range batch {
				// The persister reports failures through its own
				// counters; a lost row must not stall the queue.
				_ = el.persister.Append(e)
			}
		}
	}
}

// Replay returns the full history of events for state reconstruction and
// polling. Callers must treat the returned slice as read-only.
func (el *EventLog) Replay() []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GetByEntity returns all events whose primary entity matches.
func (el *EventLog) GetByEntity(entityID string) []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []Event
	for _, e := range el.events {
		if e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result
}

// GetByDay returns all events that occurred on a specific game day.
func (el *EventLog) GetByDay(day int) []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []Event
	for _, e := range el.events {
		if e.GameDay == day {
			result = append(result, e)
		}
	}
	return result
}

// NewEventID creates a unique event identifier.
func NewEventID() string {
	return uuid.NewString()
}
