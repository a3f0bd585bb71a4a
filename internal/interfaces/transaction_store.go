package interfaces

import (
	"context"
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// TransactionStore is an append-only log of monetary movements.
// Rows are never updated or deleted once saved.
type TransactionStore interface {
	SaveTransaction(ctx context.Context, tx models.Transaction) error
	// ListTransactions returns every transaction, newest first.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	// ListTransactionsBefore returns every transaction created strictly
	// before the boundary, newest first.
	ListTransactionsBefore(ctx context.Context, boundary time.Time) ([]models.Transaction, error)
}
