// Package engine contains the simulation loop for CargoRutas.
//
// ARCHITECTURAL RULE: the Engine does NOT write ledgers directly. Writers
// emit CargoTransfer events to the EventLog; the HaulageSystem reacts and
// performs the actual ledger appends. One append path, many producers.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
)

// TickRate defines how often the simulated city advances (in real time).
const TickRate = 2 * time.Second // 1 tick = 30 in-game minutes

// TimeTickPayload is the data attached to each TimeTick event.
type TimeTickPayload struct {
	GameDay    int   `json:"game_day"`
	GameHour   int   `json:"game_hour"` // 0-23 in-game
	TickNumber int64 `json:"tick_number"`
	IsRushHour bool  `json:"is_rush_hour"` // 07:00-09:00 and 17:00-19:00
}

// Ticker manages the simulation heartbeat. It knows nothing about vehicles
// or cargo, only time progression. The clock fields are written by the tick
// goroutine and read from HTTP handlers, so mu guards all of them.
type Ticker struct {
	eventLog   *events.EventLog
	logger     *logger.Logger
	mu         sync.Mutex
	tickNumber int64
	gameDay    int
	gameHour   int
	gameMinute int
	stopChan   chan struct{}
}

// NewTicker creates a new simulation ticker starting at day 1, 06:00.
func NewTicker(eventLog *events.EventLog, log *logger.Logger) *Ticker {
	return &Ticker{
		eventLog: eventLog,
		logger:   log,
		gameDay:  1,
		gameHour: 6,
		stopChan: make(chan struct{}),
	}
}

// Start begins the simulation loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Simulation ticker started.")

	ticker := time.NewTicker(TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually.")
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

// tick processes a single simulation step.
func (t *Ticker) tick() {
	t.mu.Lock()
	t.tickNumber++
	t.advanceTime()
	payload := TimeTickPayload{
		GameDay:    t.gameDay,
		GameHour:   t.gameHour,
		TickNumber: t.tickNumber,
		IsRushHour: (t.gameHour >= 7 && t.gameHour < 9) || (t.gameHour >= 17 && t.gameHour < 19),
	}
	t.mu.Unlock()

	metrics.TicksTotal.Inc()

	t.eventLog.Append(events.Event{
		ID:        events.NewEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTimeTick,
		EntityID:  "SYSTEM_CLOCK",
		Payload:   payload,
		GameDay:   payload.GameDay,
	})
}

// advanceTime moves the in-game clock forward by one tick. Caller holds mu.
func (t *Ticker) advanceTime() {
	t.gameMinute += 30

	if t.gameMinute >= 60 {
		t.gameMinute -= 60
		t.gameHour++
	}
	if t.gameHour >= 24 {
		t.gameHour = 0
		t.gameDay++
	}
}

// GetCurrentTime returns the current in-game time.
func (t *Ticker) GetCurrentTime() (day int, hour int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gameDay, t.gameHour
}
