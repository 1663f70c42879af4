// Package network - report.go
// Ledger report endpoints - JSON and plain-text views over the live fleet.
//
// This is the presentation side of the tracker. Handlers only ever read
// through the resolver's snapshot queries; the one write endpoint goes
// through the haulage system's validated event path.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

// ReportHandler provides the fleet and ledger report API.
type ReportHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(eng *engine.Engine, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		engine: eng,
		logger: log,
	}
}

// FleetEntry is a sanitized vehicle for public viewing.
type FleetEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Sent     int    `json:"sent_entries"`
	Received int    `json:"received_entries"`
}

// CategoryTotal is one row of an entity's totals response.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   int     `json:"amount"`
	Share    float64 `json:"share"`
}

// TotalsResponse is the API response for per-entity totals.
type TotalsResponse struct {
	EntityID    string          `json:"entity_id"`
	GeneratedAt string          `json:"generated_at"`
	GrandTotal  int             `json:"grand_total"`
	Totals      []CategoryTotal `json:"totals"`
}

// TransferRequest is the body of a manual transfer submission.
type TransferRequest struct {
	FromID      string `json:"from_id"`
	ToID        string `json:"to_id"`
	Destination string `json:"destination"`
	Resource    string `json:"resource"`
	Amount      int    `json:"amount"`
}

// HandleFleet returns every tracked entity with its raw entry counts.
// GET /api/fleet
func (rh *ReportHandler) HandleFleet(w http.ResponseWriter, r *http.Request) {
	vehicles := rh.engine.GetResolver().Vehicles()

	entries := make([]FleetEntry, 0, len(vehicles))
	for _, v := range vehicles {
		entries = append(entries, FleetEntry{
			ID:       v.ID,
			Name:     v.Name,
			Class:    string(v.Class),
			Sent:     v.Ledger.Sent().Count(),
			Received: v.Ledger.Received().Count(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"fleet":        entries,
	})
}

// HandleTotals returns per-category totals for one entity, with each
// category's share of the grand total. A grand total of zero yields zero
// shares instead of a division error.
// GET /api/entities/{entityID}/totals
func (rh *ReportHandler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	resolver := rh.engine.GetResolver()
	if resolver.Vehicle(entityID) == nil {
		rh.jsonError(w, "Entity not found", http.StatusNotFound)
		return
	}

	totals := resolver.CategoryTotals(r.Context(), entityID)

	grand := 0
	for _, amount := range totals {
		grand += amount
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for _, c := range cargo.Categories {
		amount, ok := totals[c]
		if !ok {
			continue
		}
		share := 0.0
		if grand > 0 {
			share = float64(amount) / float64(grand)
		}
		rows = append(rows, CategoryTotal{
			Category: string(c),
			Amount:   amount,
			Share:    share,
		})
	}

	rh.logger.Event("LEDGER_TOTALS", entityID, "Categories:"+strconv.Itoa(len(rows)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TotalsResponse{
		EntityID:    entityID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		GrandTotal:  grand,
		Totals:      rows,
	})
}

// HandleReport returns a plain-text ledger dump for one entity.
// GET /api/entities/{entityID}/report
func (rh *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	v := rh.engine.GetResolver().Vehicle(entityID)
	if v == nil {
		rh.jsonError(w, "Entity not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	v.Ledger.WriteReport(w, v.Name)
}

// HandleTransfer records a manual cargo transfer on behalf of external
// game logic. The transfer is validated and emitted as an event; the
// ledger append happens asynchronously on the engine side.
// POST /api/transfers
func (rh *ReportHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rh.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FromID == "" || req.ToID == "" {
		rh.jsonError(w, "Missing from_id or to_id", http.StatusBadRequest)
		return
	}

	gameDay, _ := rh.engine.GetCurrentTime()
	err := rh.engine.GetHaulageSystem().RecordTransfer(
		req.FromID, req.ToID,
		cargo.Destination(req.Destination),
		cargo.Resource(req.Resource),
		req.Amount, gameDay,
	)
	if err != nil {
		rh.jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

// HandleEvents returns the recorded event history, optionally filtered.
// GET /api/events?day=N&type=CARGO_TRANSFER
func (rh *ReportHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	dayStr := r.URL.Query().Get("day")
	eventType := r.URL.Query().Get("type")

	allEvents := rh.engine.GetEventLog().Replay()

	type publicEvent struct {
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		GameDay   int    `json:"game_day"`
		Type      string `json:"type"`
		EntityID  string `json:"entity_id"`
		PeerID    string `json:"peer_id,omitempty"`
	}

	var out []publicEvent
	for _, e := range allEvents {
		if dayStr != "" {
			day, _ := strconv.Atoi(dayStr)
			if e.GameDay != day {
				continue
			}
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		out = append(out, publicEvent{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			GameDay:   e.GameDay,
			Type:      string(e.Type),
			EntityID:  e.EntityID,
			PeerID:    e.PeerID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_events": len(out),
		"generated_at": time.Now().Format(time.RFC3339),
		"events":       out,
	})
}

// HandleStats returns aggregate counters over the whole simulation.
// GET /api/stats
func (rh *ReportHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	allEvents := rh.engine.GetEventLog().Replay()

	stats := map[string]int{
		"total_events":     len(allEvents),
		"time_ticks":       0,
		"cargo_transfers":  0,
		"routes_completed": 0,
	}
	for _, e := range allEvents {
		switch e.Type {
		case events.EventTypeTimeTick:
			stats["time_ticks"]++
		case events.EventTypeCargoTransfer:
			stats["cargo_transfers"]++
		case events.EventTypeRouteCompleted:
			stats["routes_completed"]++
		}
	}

	day, hour := rh.engine.GetCurrentTime()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"game_day":     day,
		"game_hour":    hour,
		"fleet_size":   len(rh.engine.GetResolver().Vehicles()),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the report API routes.
func (rh *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/fleet", rh.HandleFleet)
	r.Get("/api/entities/{entityID}/totals", rh.HandleTotals)
	r.Get("/api/entities/{entityID}/report", rh.HandleReport)
	r.Post("/api/transfers", rh.HandleTransfer)
	r.Get("/api/events", rh.HandleEvents)
	r.Get("/api/stats", rh.HandleStats)
}

// jsonError sends an error response.
func (rh *ReportHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
