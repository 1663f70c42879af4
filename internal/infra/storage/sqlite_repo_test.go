package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/ledger"
)

func newTestRepo(t *testing.T) *SQLiteTransferRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "cargo_test.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteTransferRepository(db)
}

func TestAppendAndGetByEntity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rows := []TransferRow{
		{EntityID: "V1", Direction: DirectionSent, Timestamp: now, Destination: "LOCAL", Resource: "GOODS", Amount: 10},
		{EntityID: "V1", Direction: DirectionReceived, Timestamp: now, Destination: "IMPORT", Resource: "CRUDE", Amount: 25},
		{EntityID: "V2", Direction: DirectionSent, Timestamp: now, Destination: "EXPORT", Resource: "ORE", Amount: 40},
	}
	for _, row := range rows {
		if err := repo.Append(ctx, row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.GetByEntity(ctx, "V1")
	if err != nil {
		t.Fatalf("GetByEntity failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows for V1, got %d", len(got))
	}
	if got[0].Resource != "GOODS" || got[1].Resource != "CRUDE" {
		t.Errorf("Rows came back out of append order: %v", got)
	}
}

func TestAppendOrderSurvivesManyWrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Same timestamp on every row: only seq can preserve the order.
	for i := 1; i <= 20; i++ {
		row := TransferRow{
			EntityID: "V1", Direction: DirectionSent, Timestamp: now,
			Destination: "LOCAL", Resource: "GOODS", Amount: i,
		}
		if err := repo.Append(ctx, row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.GetByEntity(ctx, "V1")
	if err != nil {
		t.Fatalf("GetByEntity failed: %v", err)
	}
	for i, row := range got {
		if row.Amount != i+1 {
			t.Fatalf("Row %d has amount %d, order broken", i, row.Amount)
		}
	}
}

func TestEntities(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"V2", "V1", "V2"} {
		row := TransferRow{
			EntityID: id, Direction: DirectionSent, Timestamp: now,
			Destination: "LOCAL", Resource: "GOODS", Amount: 1,
		}
		if err := repo.Append(ctx, row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	ids, err := repo.Entities(ctx)
	if err != nil {
		t.Fatalf("Entities failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "V1" || ids[1] != "V2" {
		t.Errorf("Expected [V1 V2], got %v", ids)
	}
}

func TestRebuildLedgerRederivesCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := []TransferRow{
		{EntityID: "V1", Direction: DirectionSent, Timestamp: now, Destination: "EXPORT", Resource: "ORE", Amount: 40},
		{EntityID: "V1", Direction: DirectionReceived, Timestamp: now, Destination: "IMPORT", Resource: "CRUDE", Amount: 25},
		{EntityID: "V1", Direction: DirectionSent, Timestamp: now, Destination: "LOCAL", Resource: "NONE", Amount: 3},
	}
	for _, row := range rows {
		if err := repo.Append(ctx, row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	l, err := NewReconstructor(repo).RebuildLedger(ctx, "V1")
	if err != nil {
		t.Fatalf("RebuildLedger failed: %v", err)
	}

	// Counts include the None row; totals and categories come back derived.
	if l.Sent().Count() != 2 {
		t.Errorf("Expected 2 sent entries, got %d", l.Sent().Count())
	}
	if got := l.Sent().Total(ledger.Filter{Category: cargo.CategoryOre}); got != 40 {
		t.Errorf("Expected ore total 40 after rebuild, got %d", got)
	}
	if got := l.Received().Total(ledger.Filter{Category: cargo.CategoryOil}); got != 25 {
		t.Errorf("Expected oil total 25 after rebuild, got %d", got)
	}
	if got := l.Sent().Total(ledger.Filter{}); got != 40 {
		t.Errorf("None row must stay out of totals, got %d", got)
	}
}

func TestRebuildLedgerUnknownEntity(t *testing.T) {
	repo := newTestRepo(t)

	l, err := NewReconstructor(repo).RebuildLedger(context.Background(), "GHOST")
	if err != nil {
		t.Fatalf("RebuildLedger failed: %v", err)
	}
	if l.Sent().Count() != 0 || l.Received().Count() != 0 {
		t.Errorf("Expected an empty ledger for an entity with no rows")
	}
}

func TestRebuildAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"V1", "V2"} {
		row := TransferRow{
			EntityID: id, Direction: DirectionReceived, Timestamp: now,
			Destination: "IMPORT", Resource: "FISH", Amount: 18,
		}
		if err := repo.Append(ctx, row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	ledgers, err := NewReconstructor(repo).RebuildAll(ctx)
	if err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}
	if len(ledgers) != 2 {
		t.Fatalf("Expected 2 ledgers, got %d", len(ledgers))
	}
	for id, l := range ledgers {
		if got := l.Received().Total(ledger.Filter{Category: cargo.CategoryFish}); got != 18 {
			t.Errorf("Ledger %s has fish total %d, want 18", id, got)
		}
	}
}
