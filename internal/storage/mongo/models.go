package mongo

import (
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

type cashModel struct {
	Denomination int64 `bson:"denomination"`
	Quantity     int64 `bson:"quantity"`
}

type transactionModel struct {
	ID        string    `bson:"_id"`
	Amount    int64     `bson:"amount"`
	Type      string    `bson:"type"`
	CreatedAt time.Time `bson:"created_at"`
}

func toTransactionModel(tx models.Transaction) transactionModel {
	return transactionModel{
		ID:        tx.ID,
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		CreatedAt: tx.CreatedAt,
	}
}

func fromTransactionModel(m transactionModel) models.Transaction {
	return models.Transaction{
		ID:        m.ID,
		Amount:    m.Amount,
		Type:      models.TransactionType(m.Type),
		CreatedAt: m.CreatedAt,
	}
}
