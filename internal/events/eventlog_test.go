package events

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type channelPersister struct {
	got chan Event
}

func (p *channelPersister) Append(e Event) error {
	p.got <- e
	return nil
}

func TestAppendAndReplay(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(Event{ID: "E1", Type: EventTypeCargoTransfer, EntityID: "V1", GameDay: 1})
	el.Append(Event{ID: "E2", Type: EventTypeTimeTick, EntityID: "SYSTEM_CLOCK", GameDay: 1})

	replay := el.Replay()
	if len(replay) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(replay))
	}
	if replay[0].ID != "E1" || replay[1].ID != "E2" {
		t.Errorf("Replay order broken: %s, %s", replay[0].ID, replay[1].ID)
	}
}

func TestGetByEntity(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(Event{ID: "E1", EntityID: "V1"})
	el.Append(Event{ID: "E2", EntityID: "V2"})
	el.Append(Event{ID: "E3", EntityID: "V1"})

	got := el.GetByEntity("V1")
	if len(got) != 2 {
		t.Errorf("Expected 2 events for V1, got %d", len(got))
	}
}

func TestGetByDay(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(Event{ID: "E1", GameDay: 1})
	el.Append(Event{ID: "E2", GameDay: 2})

	if got := el.GetByDay(2); len(got) != 1 || got[0].ID != "E2" {
		t.Errorf("Day filter broken: %v", got)
	}
}

func TestPersisterRunsOffTheAppendPath(t *testing.T) {
	p := &channelPersister{got: make(chan Event, 1)}
	el := NewEventLog(p)

	el.Append(Event{ID: "E1", Type: EventTypeCargoTransfer})

	select {
	case e := <-p.got:
		if e.ID != "E1" {
			t.Errorf("Persisted wrong event: %s", e.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("Persister never received the event")
	}
}

type recordingPersister struct {
	mu  sync.Mutex
	ids []string
}

func (p *recordingPersister) Append(e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, e.ID)
	return nil
}

func (p *recordingPersister) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

// Back-to-back appends must reach the store in the order they were made;
// restored history depends on it.
func TestPersistedOrderMatchesAppendOrder(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	const n = 200
	for i := 0; i < n; i++ {
		el.Append(Event{ID: fmt.Sprintf("E%03d", i), Type: EventTypeCargoTransfer})
	}

	deadline := time.Now().Add(2 * time.Second)
	var got []string
	for {
		got = p.snapshot()
		if len(got) == n {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Persisted %d of %d events before deadline", len(got), n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	for i, id := range got {
		want := fmt.Sprintf("E%03d", i)
		if id != want {
			t.Fatalf("Persisted order broken at index %d: got %s, want %s", i, id, want)
		}
	}
}

func TestNewEventIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewEventID()
		if seen[id] {
			t.Fatalf("Duplicate event ID: %s", id)
		}
		seen[id] = true
	}
}
