// Package test - scenario.go
// Stress scenario: "Rush Hour Ledger Storm"
// Validates the ledger invariants while the haulage system processes a
// burst of transfers, without any network or storage in the loop.
package test

import (
	"context"
	"fmt"
	"strings"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/domain/ledger"
	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
)

// RushHourTest drives the haulage system through a transfer burst and then
// checks the resolver's answers against the raw ledgers.
type RushHourTest struct {
	eventLog *events.EventLog
	haulage  *engine.HaulageSystem
	resolver *engine.Resolver
	logger   *logger.Logger
	vehicles []*fleet.Vehicle
	results  []TestResult
}

// TestResult captures the outcome of each test scenario.
type TestResult struct {
	ScenarioName string
	Expected     string
	Actual       string
	Passed       bool
	Reason       string
}

// NewRushHourTest creates the stress test harness.
func NewRushHourTest() *RushHourTest {
	log := logger.NewLogger()
	el := events.NewEventLog(nil)

	t := &RushHourTest{
		eventLog: el,
		haulage:  engine.NewHaulageSystem(el, log),
		resolver: engine.NewResolver(),
		logger:   log,
		results:  make([]TestResult, 0),
	}

	for _, v := range []*fleet.Vehicle{
		fleet.NewVehicle("T001", "Camión Uno", fleet.ClassTruck),
		fleet.NewVehicle("T002", "Tren Dos", fleet.ClassTrain),
	} {
		t.haulage.RegisterVehicle(v)
		t.resolver.RegisterVehicle(v)
		t.vehicles = append(t.vehicles, v)
	}
	return t
}

// InjectTransferBurst emits a known mix of transfers, including edge cases:
// a transfer from the outside world, one with an unrecognized resource kind
// and one None-typed placeholder entry.
func (t *RushHourTest) InjectTransferBurst() {
	day := 1

	t.haulage.RecordTransfer("T001", "T002", cargo.DestinationLocal, cargo.ResourceGoods, 10, day)
	t.haulage.RecordTransfer("T001", "T002", cargo.DestinationLocal, cargo.ResourceTools, 5, day)
	t.haulage.RecordTransfer("T001", fleet.WorldID, cargo.DestinationExport, cargo.ResourceOre, 40, day)
	t.haulage.RecordTransfer(fleet.WorldID, "T002", cargo.DestinationImport, cargo.ResourceCrude, 25, day)
	t.haulage.RecordTransfer("T001", "T002", cargo.DestinationLocal, cargo.Resource("PLUTONIUM"), 99, day)
	t.haulage.RecordTransfer("T001", "T002", cargo.DestinationLocal, cargo.ResourceNone, 7, day)

	// Dispatch the recorded events the way the engine loop would.
	for _, e := range t.eventLog.Replay() {
		if e.Type == events.EventTypeCargoTransfer {
			t.haulage.OnCargoTransfer(e)
		}
	}

	t.logger.Info("TEST: Injected 6 transfers including world, unknown-resource and None edges")
}

// RunTest executes the rush hour scenario.
func (t *RushHourTest) RunTest(ctx context.Context) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("🧪 STRESS TEST: RUSH HOUR LEDGER STORM")
	fmt.Println(strings.Repeat("=", 60))

	t.InjectTransferBurst()

	sender := t.vehicles[0]

	t.check("Sent log counts every entry",
		"5", fmt.Sprintf("%d", sender.Ledger.Sent().Count()),
		"count includes the None placeholder entry")

	goodsTotal := sender.Ledger.Sent().Total(ledger.Filter{Category: cargo.CategoryGoods})
	t.check("Goods category sums GOODS and TOOLS only",
		"15", fmt.Sprintf("%d", goodsTotal),
		"unknown resources map to no category and miss every category filter")

	grandSent := sender.Ledger.Sent().Total(ledger.Filter{})
	t.check("Grand sent total excludes None entries only",
		"154", fmt.Sprintf("%d", grandSent),
		"10+5+40+99 counted, the None entry's 7 excluded")

	catSum := 0
	for _, c := range cargo.Categories {
		catSum += sender.Ledger.Sent().Total(ledger.Filter{Category: c})
	}
	t.check("Category totals miss uncategorized cargo",
		"55", fmt.Sprintf("%d", catSum),
		"the 99 PLUTONIUM units are in the grand total but no category")

	totals := t.resolver.CategoryTotals(ctx, "T002")
	t.check("Receiver oil total via resolver",
		"25", fmt.Sprintf("%d", totals[cargo.CategoryOil]),
		"import from the outside world lands in the received log only")

	unknown := t.resolver.CategoryTotals(ctx, "GHOST")
	t.check("Unknown entity yields empty totals",
		"0", fmt.Sprintf("%d", len(unknown)),
		"presentation treats missing entities as nothing to report")

	destSum := 0
	for _, d := range cargo.Destinations {
		destSum += sender.Ledger.Sent().Total(ledger.Filter{Destination: d})
	}
	t.check("Destination totals partition the grand total",
		fmt.Sprintf("%d", grandSent), fmt.Sprintf("%d", destSum),
		"every mapped entry carries exactly one destination")

	fmt.Println("\n" + strings.Repeat("=", 60))
	passed := true
	for _, r := range t.results {
		if !r.Passed {
			passed = false
		}
	}
	if passed {
		fmt.Println("✅ TEST PASSED: Ledger invariants held under the burst")
	} else {
		fmt.Println("❌ TEST FAILED: Ledger invariants violated")
	}
	fmt.Println(strings.Repeat("=", 60))
}

func (t *RushHourTest) check(name, expected, actual, reason string) {
	result := TestResult{
		ScenarioName: name,
		Expected:     expected,
		Actual:       actual,
		Passed:       expected == actual,
		Reason:       reason,
	}
	t.results = append(t.results, result)

	mark := "✅"
	if !result.Passed {
		mark = "❌"
	}
	fmt.Printf("   %s %-45s expected=%s actual=%s\n", mark, name, expected, actual)
}

// GetResults returns all test results.
func (t *RushHourTest) GetResults() []TestResult {
	return t.results
}
