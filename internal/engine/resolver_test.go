package engine

import (
	"context"
	"testing"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
)

func TestCategoryTotalsSumsBothLogs(t *testing.T) {
	r := NewResolver()
	v := fleet.NewVehicle("V1", "Mixed", fleet.ClassTruck)
	r.RegisterVehicle(v)

	now := time.Now()
	v.Ledger.Sent().Append(now, cargo.DestinationLocal, cargo.ResourceGoods, 10)
	v.Ledger.Received().Append(now, cargo.DestinationImport, cargo.ResourceTools, 5)
	v.Ledger.Received().Append(now, cargo.DestinationImport, cargo.ResourceCrude, 25)

	totals := r.CategoryTotals(context.Background(), "V1")

	if totals[cargo.CategoryGoods] != 15 {
		t.Errorf("Expected goods total 15, got %d", totals[cargo.CategoryGoods])
	}
	if totals[cargo.CategoryOil] != 25 {
		t.Errorf("Expected oil total 25, got %d", totals[cargo.CategoryOil])
	}
	if _, ok := totals[cargo.CategoryFish]; ok {
		t.Errorf("Zero categories must be omitted from the result")
	}
}

func TestCategoryTotalsUnknownEntity(t *testing.T) {
	r := NewResolver()

	totals := r.CategoryTotals(context.Background(), "GHOST")
	if totals == nil {
		t.Fatalf("Expected empty map, got nil")
	}
	if len(totals) != 0 {
		t.Errorf("Expected empty totals for unknown entity, got %v", totals)
	}
}

// fakeCache counts hits so the read-through behavior is observable.
type fakeCache struct {
	stored map[string]map[cargo.Category]int
	gets   int
	sets   int
}

func (f *fakeCache) GetTotals(ctx context.Context, entityID string) (map[cargo.Category]int, bool) {
	f.gets++
	totals, ok := f.stored[entityID]
	return totals, ok
}

func (f *fakeCache) SetTotals(ctx context.Context, entityID string, totals map[cargo.Category]int) {
	f.sets++
	f.stored[entityID] = totals
}

func TestCategoryTotalsReadThroughCache(t *testing.T) {
	r := NewResolver()
	cache := &fakeCache{stored: make(map[string]map[cargo.Category]int)}
	r.SetCache(cache)

	v := fleet.NewVehicle("V1", "Cached", fleet.ClassTruck)
	r.RegisterVehicle(v)
	v.Ledger.Sent().Append(time.Now(), cargo.DestinationLocal, cargo.ResourceGoods, 10)

	first := r.CategoryTotals(context.Background(), "V1")
	second := r.CategoryTotals(context.Background(), "V1")

	if first[cargo.CategoryGoods] != 10 || second[cargo.CategoryGoods] != 10 {
		t.Errorf("Totals changed between cached reads")
	}
	if cache.sets != 1 {
		t.Errorf("Expected exactly one cache fill, got %d", cache.sets)
	}
	if cache.gets != 2 {
		t.Errorf("Expected a cache lookup per read, got %d", cache.gets)
	}
}
