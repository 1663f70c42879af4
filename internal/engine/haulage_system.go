package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
)

// CargoTransferPayload describes cargo moving between two entities. Either
// end may be fleet.WorldID, in which case that side has no tracked ledger.
type CargoTransferPayload struct {
	FromID      string            `json:"from_id"`
	ToID        string            `json:"to_id"`
	Destination cargo.Destination `json:"destination"`
	Resource    cargo.Resource    `json:"resource"`
	Amount      int               `json:"amount"`
}

// HaulageSystem performs the actual ledger writes. It is the single
// consumer of CargoTransfer events: the source entity's sent log and the
// destination entity's received log each gain one entry per event.
type HaulageSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger

	mu       sync.RWMutex
	vehicles map[string]*fleet.Vehicle
}

func NewHaulageSystem(el *events.EventLog, log *logger.Logger) *HaulageSystem {
	return &HaulageSystem{
		eventLog: el,
		logger:   log,
		vehicles: make(map[string]*fleet.Vehicle),
	}
}

func (hs *HaulageSystem) RegisterVehicle(v *fleet.Vehicle) {
	hs.mu.Lock()
	hs.vehicles[v.ID] = v
	hs.mu.Unlock()
}

// RecordTransfer validates a transfer and emits the CargoTransfer event.
// At least one end must be a tracked vehicle. The ledger appends happen when
// the event is dispatched back to OnCargoTransfer, never here.
func (hs *HaulageSystem) RecordTransfer(fromID, toID string, dest cargo.Destination, res cargo.Resource, amount, gameDay int) error {
	hs.mu.RLock()
	_, fromKnown := hs.vehicles[fromID]
	_, toKnown := hs.vehicles[toID]
	hs.mu.RUnlock()

	if fromID != fleet.WorldID && !fromKnown {
		return fmt.Errorf("sender %s not found", fromID)
	}
	if toID != fleet.WorldID && !toKnown {
		return fmt.Errorf("receiver %s not found", toID)
	}
	if !fromKnown && !toKnown {
		return fmt.Errorf("transfer %s -> %s involves no tracked entity", fromID, toID)
	}

	hs.eventLog.Append(events.Event{
		ID:        events.NewEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeCargoTransfer,
		EntityID:  fromID,
		PeerID:    toID,
		Payload: CargoTransferPayload{
			FromID:      fromID,
			ToID:        toID,
			Destination: dest,
			Resource:    res,
			Amount:      amount,
		},
		GameDay: gameDay,
	})
	return nil
}

// OnCargoTransfer appends the transfer to the ledgers of whichever ends are
// tracked. Untracked ends (the outside world) are skipped silently.
func (hs *HaulageSystem) OnCargoTransfer(event events.Event) {
	payload, ok := event.Payload.(CargoTransferPayload)
	if !ok {
		hs.logger.Warn("CargoTransfer event with malformed payload: " + event.ID)
		return
	}

	hs.mu.RLock()
	from := hs.vehicles[payload.FromID]
	to := hs.vehicles[payload.ToID]
	hs.mu.RUnlock()

	if from != nil {
		from.Ledger.Sent().Append(event.Timestamp, payload.Destination, payload.Resource, payload.Amount)
		metrics.TransfersRecorded.WithLabelValues("sent").Inc()
	}
	if to != nil {
		to.Ledger.Received().Append(event.Timestamp, payload.Destination, payload.Resource, payload.Amount)
		metrics.TransfersRecorded.WithLabelValues("received").Inc()
	}

	hs.logger.Event("CARGO_TRANSFER", payload.FromID,
		fmt.Sprintf("moved %d %s to %s (%s)", payload.Amount, payload.Resource, payload.ToID, payload.Destination))
}
