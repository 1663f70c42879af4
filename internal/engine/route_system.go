package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

// RouteCompletedPayload marks one finished run of a recurring route.
type RouteCompletedPayload struct {
	RouteID string `json:"route_id"`
	Tick    int64  `json:"tick"`
}

// RouteSystem drives the simulation's cargo movement: on each tick it checks
// every registered route and emits CargoTransfer events for the runs that
// are due. It never touches a ledger itself.
type RouteSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger

	mu     sync.Mutex
	routes []fleet.Route
}

func NewRouteSystem(el *events.EventLog, log *logger.Logger) *RouteSystem {
	return &RouteSystem{
		eventLog: el,
		logger:   log,
	}
}

// AddRoute registers a recurring haul.
func (rs *RouteSystem) AddRoute(r fleet.Route) {
	rs.mu.Lock()
	rs.routes = append(rs.routes, r)
	rs.mu.Unlock()
	rs.logger.Info(fmt.Sprintf("Route %s registered: %s -> %s (%s)", r.ID, r.FromID, r.ToID, r.Resource))
}

// OnTimeTick emits a CargoTransfer and a RouteCompleted event for every
// route whose schedule lands on this tick.
func (rs *RouteSystem) OnTimeTick(p TimeTickPayload) {
	rs.mu.Lock()
	due := make([]fleet.Route, 0, len(rs.routes))
	for _, r := range rs.routes {
		if r.EveryTicks > 0 && p.TickNumber%r.EveryTicks == 0 {
			due = append(due, r)
		}
	}
	rs.mu.Unlock()

	for _, r := range due {
		rs.eventLog.Append(events.Event{
			ID:        events.NewEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeCargoTransfer,
			EntityID:  r.FromID,
			PeerID:    r.ToID,
			Payload: CargoTransferPayload{
				FromID:      r.FromID,
				ToID:        r.ToID,
				Destination: r.Destination,
				Resource:    r.Resource,
				Amount:      r.Amount,
			},
			GameDay: p.GameDay,
		})

		rs.eventLog.Append(events.Event{
			ID:        events.NewEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeRouteCompleted,
			EntityID:  r.ID,
			Payload: RouteCompletedPayload{
				RouteID: r.ID,
				Tick:    p.TickNumber,
			},
			GameDay: p.GameDay,
		})
	}
}
