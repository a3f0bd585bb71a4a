package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestSeedCreatesEveryDenominationOnce(t *testing.T) {
	store := newSeededStore(t)
	// seeding twice must not disturb existing quantities
	if err := store.ApplyDeltas(context.Background(), []models.CashDelta{
		{Denomination: 500, Quantity: 3},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	entries, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(entries) != len(models.Denominations) {
		t.Fatalf("got %d entries, want %d", len(entries), len(models.Denominations))
	}
	for _, entry := range entries {
		if entry.Denomination == 500 && entry.Quantity != 3 {
			t.Fatalf("reseed clobbered quantity: %v", entry)
		}
	}
}

func TestSnapshotSortedDescending(t *testing.T) {
	store := newSeededStore(t)

	entries, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Denomination <= entries[i].Denomination {
			t.Fatalf("snapshot not descending at %d: %v", i, entries)
		}
	}
}

func TestApplyDeltasAllOrNone(t *testing.T) {
	store := newSeededStore(t)

	// the second delta would overdraw, so the first must not stick either
	err := store.ApplyDeltas(context.Background(), []models.CashDelta{
		{Denomination: 100000, Quantity: 1},
		{Denomination: 50, Quantity: -1},
	})
	if !errors.Is(err, interfaces.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}

	entries, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for _, entry := range entries {
		if entry.Quantity != 0 {
			t.Fatalf("partial batch applied: %v", entry)
		}
	}
}

func TestApplyDeltasWithinBatchNetting(t *testing.T) {
	store := newSeededStore(t)

	// a batch may spend quantity it adds earlier in the same batch
	err := store.ApplyDeltas(context.Background(), []models.CashDelta{
		{Denomination: 1000, Quantity: 2},
		{Denomination: 1000, Quantity: -1},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	entries, _ := store.Snapshot(context.Background())
	for _, entry := range entries {
		if entry.Denomination == 1000 && entry.Quantity != 1 {
			t.Fatalf("quantity of 1000 = %d, want 1", entry.Quantity)
		}
	}
}

func TestApplyDeltasUnknownDenomination(t *testing.T) {
	store := newSeededStore(t)

	err := store.ApplyDeltas(context.Background(), []models.CashDelta{
		{Denomination: 42, Quantity: 1},
	})
	if !errors.Is(err, interfaces.ErrUnknownDenomination) {
		t.Fatalf("error = %v, want ErrUnknownDenomination", err)
	}
}

func TestResetAllZeroesQuantities(t *testing.T) {
	store := newSeededStore(t)

	if err := store.ApplyDeltas(context.Background(), []models.CashDelta{
		{Denomination: 10000, Quantity: 4},
		{Denomination: 50, Quantity: 9},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := store.ResetAll(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	entries, _ := store.Snapshot(context.Background())
	for _, entry := range entries {
		if entry.Quantity != 0 {
			t.Fatalf("quantity of %d = %d after reset, want 0", entry.Denomination, entry.Quantity)
		}
	}
}

func TestListTransactionsBeforeFiltersAndSorts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	times := []time.Time{
		time.Date(2021, 2, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2021, 2, 25, 12, 0, 0, 0, time.UTC),
		time.Date(2021, 2, 25, 14, 0, 0, 0, time.UTC),
	}
	for i, at := range times {
		if err := store.SaveTransaction(ctx, models.Transaction{
			ID:        string(rune('a' + i)),
			Amount:    int64(i+1) * 100,
			Type:      models.TransactionCharge,
			CreatedAt: at,
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	txs, err := store.ListTransactionsBefore(ctx, time.Date(2021, 2, 25, 13, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !txs[0].CreatedAt.After(txs[1].CreatedAt) {
		t.Fatalf("not newest first: %v", txs)
	}
}
