package register

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// Mode distinguishes how a delta batch is validated before it reaches the
// store. Charges and incoming payments are external input and are checked
// strictly; change batches are produced by SelectChange and only need their
// denominations to be legal tender.
type Mode string

const (
	ModeCharge  Mode = "CHARGE"
	ModePayment Mode = "PAYMENT"
	ModeChange  Mode = "CHANGE"
)

// Register orchestrates cash movements against a single till.
//
// All mutating operations serialize on one till-wide mutex so that the
// snapshot -> select-change -> apply sequence of a payment can never race
// another payment into overdrawing a denomination. Store-level batch
// atomicity alone cannot prevent two selectors reserving the same note.
type Register struct {
	store interfaces.CashStore
	mu    sync.Mutex
	log   *slog.Logger
}

func New(store interfaces.CashStore, logger *slog.Logger) *Register {
	return &Register{
		store: store,
		log:   logger,
	}
}

// PaymentResult reports what a completed payment did to the till.
type PaymentResult struct {
	ChangeDeltas  []models.CashDelta
	TotalTendered int64
	ChangeAmount  int64
}

// Charge adds cash to the till and returns the total amount added.
func (r *Register) Charge(ctx context.Context, details []models.CashDelta) (int64, error) {
	if err := validateDeltas(details, ModeCharge); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.ApplyDeltas(ctx, details); err != nil {
		return 0, fmt.Errorf("apply charge deltas: %w", err)
	}
	return sumDeltas(details), nil
}

// Pay settles an owed amount against tendered cash. Change is selected from
// the till state as it was before the tender is accepted, so a customer's
// own notes never fund their change.
//
// The tender-in and change-out batches are each atomic at the store layer.
// If the change-out write fails after the tender-in committed, the tender is
// compensated with an inverse batch so the till is left untouched.
func (r *Register) Pay(ctx context.Context, amount int64, tendered []models.CashDelta) (PaymentResult, error) {
	if amount <= 0 {
		return PaymentResult{}, ErrInvalidAmount
	}
	if err := validateDeltas(tendered, ModePayment); err != nil {
		return PaymentResult{}, err
	}

	totalTendered := sumDeltas(tendered)
	changeAmount := totalTendered - amount
	if changeAmount < 0 {
		return PaymentResult{}, fmt.Errorf("%w: tendered %d for amount %d", ErrInsufficientTender, totalTendered, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.store.Snapshot(ctx)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("read till snapshot: %w", err)
	}
	if balance(entries) < changeAmount {
		return PaymentResult{}, ErrInsufficientRegisterFunds
	}

	changeDeltas, err := SelectChange(changeAmount, entries)
	if err != nil {
		return PaymentResult{}, err
	}
	if err := validateDeltas(changeDeltas, ModeChange); err != nil {
		return PaymentResult{}, err
	}

	if err := r.store.ApplyDeltas(ctx, tendered); err != nil {
		return PaymentResult{}, fmt.Errorf("apply tendered cash: %w", err)
	}
	if err := r.store.ApplyDeltas(ctx, changeDeltas); err != nil {
		if undoErr := r.store.ApplyDeltas(ctx, invert(tendered)); undoErr != nil {
			r.log.Error("compensating rollback of tendered cash failed",
				"error", undoErr, "cause", err)
		}
		return PaymentResult{}, fmt.Errorf("apply change deltas: %w", err)
	}

	return PaymentResult{
		ChangeDeltas:  changeDeltas,
		TotalTendered: totalTendered,
		ChangeAmount:  changeAmount,
	}, nil
}

// Empty zeroes every denomination and returns the balance that was removed.
// An already-empty till performs no write and reports emptied=false.
func (r *Register) Empty(ctx context.Context) (removed int64, emptied bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.store.Snapshot(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("read till snapshot: %w", err)
	}
	bal := balance(entries)
	if bal == 0 {
		return 0, false, nil
	}
	if err := r.store.ResetAll(ctx); err != nil {
		return 0, false, fmt.Errorf("reset till: %w", err)
	}
	return bal, true, nil
}

// Status returns the current till breakdown and derived balance.
func (r *Register) Status(ctx context.Context) (models.CashState, error) {
	entries, err := r.store.Snapshot(ctx)
	if err != nil {
		return models.CashState{}, fmt.Errorf("read till snapshot: %w", err)
	}
	return models.CashState{
		Balance: balance(entries),
		Details: entries,
	}, nil
}

func validateDeltas(deltas []models.CashDelta, mode Mode) error {
	for _, d := range deltas {
		if !models.IsLegalTender(d.Denomination) {
			return fmt.Errorf("%w: %d must be one of %v", ErrInvalidDenomination, d.Denomination, models.Denominations)
		}
		if mode == ModeChange {
			// change deltas come from SelectChange and may be negative
			continue
		}
		if d.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func sumDeltas(deltas []models.CashDelta) int64 {
	var total int64
	for _, d := range deltas {
		total += d.Denomination * d.Quantity
	}
	return total
}

func balance(entries []models.DenominationEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Denomination * e.Quantity
	}
	return total
}

func invert(deltas []models.CashDelta) []models.CashDelta {
	inverse := make([]models.CashDelta, len(deltas))
	for i, d := range deltas {
		inverse[i] = models.CashDelta{Denomination: d.Denomination, Quantity: -d.Quantity}
	}
	return inverse
}
