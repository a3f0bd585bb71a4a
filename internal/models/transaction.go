package models

import "time"

// TransactionType classifies a monetary movement. CHARGE and PAYMENT put
// cash into the register, CHANGE and EMPTY take cash out.
type TransactionType string

const (
	TransactionCharge  TransactionType = "CHARGE"
	TransactionPayment TransactionType = "PAYMENT"
	TransactionChange  TransactionType = "CHANGE"
	TransactionEmpty   TransactionType = "EMPTY"
)

// Transaction represents a single recorded monetary movement.
// Rows are append-only and never mutated once created.
type Transaction struct {
	ID        string
	Amount    int64
	Type      TransactionType
	CreatedAt time.Time
}
