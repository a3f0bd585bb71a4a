package register

import (
	"fmt"
	"sort"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// SelectChange picks the denominations to dispense for amount, largest
// denomination first. The withdrawal per denomination is capped at the
// quantity on hand, and the remainder falls through to the next smaller
// denomination. Greedy selection is exact for the canonical legal-tender
// set; it makes no optimality claim for arbitrary denomination sets.
//
// The returned deltas are negative quantities, ready to apply to the till.
// SelectChange never mutates the snapshot.
func SelectChange(amount int64, snapshot []models.DenominationEntry) ([]models.CashDelta, error) {
	if amount < 0 {
		return nil, fmt.Errorf("change amount must not be negative, got %d", amount)
	}
	if amount == 0 {
		return []models.CashDelta{}, nil
	}

	entries := make([]models.DenominationEntry, len(snapshot))
	copy(entries, snapshot)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Denomination > entries[j].Denomination
	})

	remaining := amount
	var deltas []models.CashDelta
	for _, entry := range entries {
		if remaining == 0 {
			break
		}
		if entry.Denomination > remaining || entry.Quantity <= 0 {
			continue
		}
		count := remaining / entry.Denomination
		if count > entry.Quantity {
			count = entry.Quantity
		}
		remaining -= entry.Denomination * count
		deltas = append(deltas, models.CashDelta{
			Denomination: entry.Denomination,
			Quantity:     -count,
		})
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: short by %d", ErrNoChangeAvailable, remaining)
	}
	return deltas, nil
}
