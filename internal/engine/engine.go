package engine

import (
	"context"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

// Engine is the central orchestrator that wires the event log to the
// simulation systems.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	ticker   *Ticker

	// Sub-systems
	haulageSystem *HaulageSystem
	routeSystem   *RouteSystem
	resolver      *Resolver

	// State
	lastProcessedEvent int
}

// NewEngine initializes the simulation systems and dependencies.
func NewEngine(eventLog *events.EventLog, log *logger.Logger) *Engine {
	return &Engine{
		eventLog: eventLog,
		logger:   log,
		ticker:   NewTicker(eventLog, log),

		haulageSystem: NewHaulageSystem(eventLog, log),
		routeSystem:   NewRouteSystem(eventLog, log),
		resolver:      NewResolver(),
	}
}

// Start spawns the Ticker and the event processing loop.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting simulation engine...")

	go e.ticker.Start(ctx)
	go e.processEvents(ctx)
}

// RegisterVehicle adds a tracked entity to all relevant subsystems and
// announces it on the event log.
func (e *Engine) RegisterVehicle(v *fleet.Vehicle) {
	e.haulageSystem.RegisterVehicle(v)
	e.resolver.RegisterVehicle(v)

	e.eventLog.Append(events.Event{
		ID:        events.NewEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeVehicleRegistered,
		EntityID:  v.ID,
		Payload:   map[string]string{"name": v.Name, "class": string(v.Class)},
	})
	e.logger.Info("Vehicle registered with engine sub-systems: " + v.ID)
}

// AddRoute registers a recurring haul with the route system.
func (e *Engine) AddRoute(r fleet.Route) {
	e.routeSystem.AddRoute(r)
}

// GetEventLog exposes the event log so boundary handlers can inject
// transfer events.
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}

// GetHaulageSystem exposes the haulage system for boundary handlers that
// record transfers on behalf of external game logic.
func (e *Engine) GetHaulageSystem() *HaulageSystem {
	return e.haulageSystem
}

// GetResolver exposes the entity resolver for the presentation layer.
func (e *Engine) GetResolver() *Resolver {
	return e.resolver
}

// GetCurrentTime returns the current in-game day and hour from the ticker.
func (e *Engine) GetCurrentTime() (int, int) {
	return e.ticker.GetCurrentTime()
}

// processEvents listens to the EventLog and dispatches items to subsystems.
func (e *Engine) processEvents(ctx context.Context) {
	pollInterval := time.NewTicker(100 * time.Millisecond)
	defer pollInterval.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Event processor stopped.")
			return
		case <-pollInterval.C:
			allEvents := e.eventLog.Replay()
			if len(allEvents) <= e.lastProcessedEvent {
				continue
			}
			for _, event := range allEvents[e.lastProcessedEvent:] {
				e.dispatch(event)
			}
			e.lastProcessedEvent = len(allEvents)
		}
	}
}

// dispatch routes an event to the appropriate subsystems based on its type.
func (e *Engine) dispatch(event events.Event) {
	switch event.Type {
	case events.EventTypeTimeTick:
		if payload, ok := event.Payload.(TimeTickPayload); ok {
			e.routeSystem.OnTimeTick(payload)
		}

	case events.EventTypeCargoTransfer:
		e.haulageSystem.OnCargoTransfer(event)
	}
}
