package network

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

func newTestServer(t *testing.T) (*engine.Engine, *httptest.Server) {
	t.Helper()

	eng := engine.NewEngine(events.NewEventLog(nil), logger.NewLogger())

	router := chi.NewRouter()
	NewReportHandler(eng, logger.NewLogger()).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return eng, srv
}

func TestFleetEndpoint(t *testing.T) {
	eng, srv := newTestServer(t)

	v := fleet.NewVehicle("V1", "Ruta Norte", fleet.ClassTruck)
	v.Ledger.Sent().Append(time.Now(), cargo.DestinationLocal, cargo.ResourceGoods, 10)
	eng.RegisterVehicle(v)

	resp, err := http.Get(srv.URL + "/api/fleet")
	if err != nil {
		t.Fatalf("GET /api/fleet failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Fleet []FleetEntry `json:"fleet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Fleet) != 1 {
		t.Fatalf("Expected 1 vehicle, got %d", len(body.Fleet))
	}
	if body.Fleet[0].ID != "V1" || body.Fleet[0].Sent != 1 {
		t.Errorf("Unexpected fleet entry: %+v", body.Fleet[0])
	}
}

func TestTotalsEndpoint(t *testing.T) {
	eng, srv := newTestServer(t)

	v := fleet.NewVehicle("V1", "Mixta", fleet.ClassTrain)
	now := time.Now()
	v.Ledger.Sent().Append(now, cargo.DestinationExport, cargo.ResourceOre, 40)
	v.Ledger.Received().Append(now, cargo.DestinationImport, cargo.ResourceCrude, 10)
	eng.RegisterVehicle(v)

	resp, err := http.Get(srv.URL + "/api/entities/V1/totals")
	if err != nil {
		t.Fatalf("GET totals failed: %v", err)
	}
	defer resp.Body.Close()

	var body TotalsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.GrandTotal != 50 {
		t.Errorf("Expected grand total 50, got %d", body.GrandTotal)
	}

	var shareSum float64
	for _, row := range body.Totals {
		shareSum += row.Share
		if row.Category == string(cargo.CategoryOre) && row.Amount != 40 {
			t.Errorf("Expected ore amount 40, got %d", row.Amount)
		}
	}
	if shareSum < 0.999 || shareSum > 1.001 {
		t.Errorf("Shares should sum to 1, got %f", shareSum)
	}
}

func TestTotalsEndpointEmptyLedger(t *testing.T) {
	eng, srv := newTestServer(t)
	eng.RegisterVehicle(fleet.NewVehicle("V1", "Vacía", fleet.ClassShip))

	resp, err := http.Get(srv.URL + "/api/entities/V1/totals")
	if err != nil {
		t.Fatalf("GET totals failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("An entity that moved nothing is still reportable, got %d", resp.StatusCode)
	}

	var body TotalsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.GrandTotal != 0 || len(body.Totals) != 0 {
		t.Errorf("Expected empty totals, got %+v", body)
	}
}

func TestTotalsEndpointUnknownEntity(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/entities/GHOST/totals")
	if err != nil {
		t.Fatalf("GET totals failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown entity, got %d", resp.StatusCode)
	}
}

func TestReportEndpoint(t *testing.T) {
	eng, srv := newTestServer(t)

	v := fleet.NewVehicle("V1", "Estrella del Puerto", fleet.ClassShip)
	v.Ledger.Sent().Append(time.Now(), cargo.DestinationExport, cargo.ResourceFish, 18)
	eng.RegisterVehicle(v)

	resp, err := http.Get(srv.URL + "/api/entities/V1/report")
	if err != nil {
		t.Fatalf("GET report failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected plain text report, got %s", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(raw), "Estrella del Puerto") {
		t.Errorf("Report missing vehicle name")
	}
}

func TestTransferEndpointEmitsEvent(t *testing.T) {
	eng, srv := newTestServer(t)
	eng.RegisterVehicle(fleet.NewVehicle("V1", "Origen", fleet.ClassTruck))
	eng.RegisterVehicle(fleet.NewVehicle("V2", "Destino", fleet.ClassTruck))

	body := strings.NewReader(`{"from_id":"V1","to_id":"V2","destination":"LOCAL","resource":"GOODS","amount":10}`)
	resp, err := http.Post(srv.URL+"/api/transfers", "application/json", body)
	if err != nil {
		t.Fatalf("POST transfer failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", resp.StatusCode)
	}

	found := false
	for _, e := range eng.GetEventLog().Replay() {
		if e.Type == events.EventTypeCargoTransfer {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a CARGO_TRANSFER event on the log")
	}
}

func TestTransferEndpointRejectsUnknownEnds(t *testing.T) {
	_, srv := newTestServer(t)

	body := strings.NewReader(`{"from_id":"GHOST","to_id":"WORLD","destination":"LOCAL","resource":"GOODS","amount":10}`)
	resp, err := http.Post(srv.URL+"/api/transfers", "application/json", body)
	if err != nil {
		t.Fatalf("POST transfer failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown ends, got %d", resp.StatusCode)
	}
}
