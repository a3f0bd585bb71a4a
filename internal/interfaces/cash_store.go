package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// Store-level failures surfaced by CashStore implementations.
var (
	// ErrInsufficientFunds means a delta batch would drive some
	// denomination's quantity below zero. The whole batch is rejected.
	ErrInsufficientFunds = errors.New("insufficient funds in till")

	// ErrUnknownDenomination means a delta targets a denomination that was
	// never seeded into the till.
	ErrUnknownDenomination = errors.New("unknown denomination")
)

// CashStore holds the per-denomination inventory of the till.
// ApplyDeltas is atomic across the whole batch: either every delta commits
// or none does, and no Snapshot observes a partial batch.
type CashStore interface {
	Seed(ctx context.Context) error
	ApplyDeltas(ctx context.Context, deltas []models.CashDelta) error
	Snapshot(ctx context.Context) ([]models.DenominationEntry, error)
	ResetAll(ctx context.Context) error
}

// Store is the full persistence surface a backend must provide.
type Store interface {
	CashStore
	TransactionStore
	Ping(ctx context.Context) error
	Close() error
}
