package engine

import (
	"sync"
	"testing"

	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

func TestClockAdvancesAcrossDays(t *testing.T) {
	ticker := NewTicker(events.NewEventLog(nil), logger.NewLogger())

	// 48 half-hour ticks = one full day
	for i := 0; i < 48; i++ {
		ticker.advanceTime()
	}

	day, hour := ticker.GetCurrentTime()
	if day != 2 {
		t.Errorf("Expected day 2 after 48 ticks, got %d", day)
	}
	if hour != 6 {
		t.Errorf("Expected clock back at 06:00, got %02d:00", hour)
	}
}

// Run with -race: the clock is read by HTTP handlers while the tick
// goroutine advances it.
func TestClockReadsConcurrentWithTicks(t *testing.T) {
	ticker := NewTicker(events.NewEventLog(nil), logger.NewLogger())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			ticker.tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			day, hour := ticker.GetCurrentTime()
			if day < 1 || hour < 0 || hour > 23 {
				t.Errorf("Clock out of range: day %d hour %d", day, hour)
				return
			}
		}
	}()
	wg.Wait()

	day, _ := ticker.GetCurrentTime()
	// 500 half-hour ticks cover a bit more than 10 in-game days.
	if day < 11 {
		t.Errorf("Expected at least day 11 after 500 ticks, got %d", day)
	}
}

func TestTickEmitsTimeTickEvent(t *testing.T) {
	el := events.NewEventLog(nil)
	ticker := NewTicker(el, logger.NewLogger())

	ticker.tick()

	replay := el.Replay()
	if len(replay) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(replay))
	}
	payload, ok := replay[0].Payload.(TimeTickPayload)
	if !ok {
		t.Fatalf("Expected a TimeTickPayload")
	}
	if payload.TickNumber != 1 {
		t.Errorf("Expected tick number 1, got %d", payload.TickNumber)
	}
	if payload.GameHour != 6 {
		t.Errorf("Expected first tick at 06:30 hour bucket 6, got %d", payload.GameHour)
	}
}
