package models

// Denominations is the fixed legal-tender enumeration the register
// recognizes, largest first.
var Denominations = []int64{100000, 50000, 20000, 10000, 5000, 1000, 500, 200, 100, 50}

// IsLegalTender reports whether the denomination is part of the fixed
// legal-tender enumeration.
func IsLegalTender(denomination int64) bool {
	for _, d := range Denominations {
		if d == denomination {
			return true
		}
	}
	return false
}

// DenominationEntry is the on-hand quantity of a single denomination.
type DenominationEntry struct {
	Denomination int64 `json:"denomination"`
	Quantity     int64 `json:"quantity"`
}

// CashDelta is a signed quantity adjustment for one denomination.
// Positive deltas put cash into the till, negative deltas take cash out.
type CashDelta struct {
	Denomination int64
	Quantity     int64
}

// CashState is a point-in-time view of the till: the per-denomination
// breakdown plus the balance derived from it. The balance is never stored,
// only recomputed, so it cannot drift from the entries.
type CashState struct {
	Balance int64               `json:"balance"`
	Details []DenominationEntry `json:"details"`
}
