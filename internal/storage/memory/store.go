package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// Store is an in-memory implementation of interfaces.Store, used for tests
// and local development. It is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	quantities   map[int64]int64
	transactions []models.Transaction
}

func NewStore() *Store {
	return &Store{
		quantities: make(map[int64]int64),
	}
}

// Seed creates a zero-quantity row for every legal denomination. Existing
// quantities are left untouched, so seeding is idempotent.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range models.Denominations {
		if _, ok := s.quantities[d]; !ok {
			s.quantities[d] = 0
		}
	}
	return nil
}

// ApplyDeltas applies the batch all-or-none: the deltas are staged against a
// scratch copy first, so a failing delta leaves the till exactly as it was.
func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.CashDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[int64]int64, len(deltas))
	for _, d := range deltas {
		current, ok := s.quantities[d.Denomination]
		if !ok {
			return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrUnknownDenomination)
		}
		next := current + staged[d.Denomination] + d.Quantity
		if next < 0 {
			return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrInsufficientFunds)
		}
		staged[d.Denomination] += d.Quantity
	}
	for denomination, delta := range staged {
		s.quantities[denomination] += delta
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context) ([]models.DenominationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.DenominationEntry, 0, len(s.quantities))
	for denomination, quantity := range s.quantities {
		entries = append(entries, models.DenominationEntry{
			Denomination: denomination,
			Quantity:     quantity,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Denomination > entries[j].Denomination
	})
	return entries, nil
}

func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for denomination := range s.quantities {
		s.quantities[denomination] = 0
	}
	return nil
}

func (s *Store) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.Transaction, len(s.transactions))
	copy(copied, s.transactions)
	sortNewestFirst(copied)
	return copied, nil
}

func (s *Store) ListTransactionsBefore(ctx context.Context, boundary time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Transaction
	for _, tx := range s.transactions {
		if tx.CreatedAt.Before(boundary) {
			matched = append(matched, tx)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func sortNewestFirst(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

// Compile-time check: Store implements the full persistence surface.
var _ interfaces.Store = (*Store)(nil)
