package network

import (
	"testing"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
	"github.com/davortega/CargoRutas/server/internal/platform/tuning"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	eng := engine.NewEngine(events.NewEventLog(nil), logger.NewLogger())
	v := fleet.NewVehicle("V1", "Ruta Norte", fleet.ClassTruck)
	v.Ledger.Sent().Append(time.Now(), cargo.DestinationLocal, cargo.ResourceGoods, 10)
	eng.RegisterVehicle(v)

	hub := NewHub(eng, logger.NewLogger(), tuning.DefaultConfig())
	return NewClient(hub, nil)
}

func TestCommandsSurviveClosedSendQueue(t *testing.T) {
	c := newTestClient(t)

	// The hub evicts slow consumers this way while the read pump may still
	// be delivering commands.
	c.closeSend()

	c.handleCommand(ViewerCommand{Type: "TOTALS", EntityID: "V1"})
	c.lastCommandTime = time.Time{}
	c.handleCommand(ViewerCommand{Type: "REPORT", EntityID: "V1"})
}

func TestTrySendAfterCloseReportsFalse(t *testing.T) {
	c := newTestClient(t)

	if !c.trySend([]byte("hello")) {
		t.Fatal("Expected send to succeed on open queue")
	}
	c.closeSend()
	if c.trySend([]byte("late")) {
		t.Fatal("Expected send to fail on closed queue")
	}
}

func TestCloseSendIsIdempotent(t *testing.T) {
	c := newTestClient(t)

	c.closeSend()
	c.closeSend()

	if _, ok := <-c.send; ok {
		t.Fatal("Expected send channel to be drained and closed")
	}
}

func TestTrySendReportsFalseWhenQueueFull(t *testing.T) {
	c := newTestClient(t)

	for c.trySend([]byte("fill")) {
	}
	if c.trySend([]byte("overflow")) {
		t.Fatal("Expected send to fail once the queue is full")
	}
}
