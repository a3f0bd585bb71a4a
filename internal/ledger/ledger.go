package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/metrics"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models/events"
)

// dateLayout is the DD/MM/YYYY format used in log listings and queries.
const dateLayout = "02/01/2006"

var (
	ErrInvalidDate = errors.New("date must be in DD/MM/YYYY format")
	ErrInvalidHour = errors.New("hour must be between 0 and 23")
)

// Recorder appends immutable transaction rows and answers log queries.
// Every timestamp is normalized to UTC before it is stored or formatted.
type Recorder struct {
	store     interfaces.TransactionStore
	publisher interfaces.EventPublisher
	topic     string
	log       *slog.Logger
}

func NewRecorder(store interfaces.TransactionStore, publisher interfaces.EventPublisher, topic string, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		topic:     topic,
		log:       logger,
	}
}

// Record appends one transaction row. Publishing the matching event is
// best-effort: a broker failure is logged and never fails the caller, since
// the durable write already succeeded.
func (r *Recorder) Record(ctx context.Context, txType models.TransactionType, amount int64, at time.Time) error {
	tx := models.Transaction{
		ID:        uuid.New().String(),
		Amount:    amount,
		Type:      txType,
		CreatedAt: at.UTC(),
	}
	if err := r.store.SaveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	metrics.TransactionsRecorded.WithLabelValues(string(txType)).Inc()

	if r.publisher != nil {
		event := events.TransactionRecorded{
			TransactionID: tx.ID,
			Type:          string(tx.Type),
			Amount:        tx.Amount,
			OccurredAt:    tx.CreatedAt,
		}
		if err := r.publisher.Publish(r.topic, event); err != nil {
			r.log.Warn("failed to publish transaction event",
				"transaction_id", tx.ID, "error", err)
		}
	}
	return nil
}

// Entry is a transaction formatted for log listings.
type Entry struct {
	Date   string                 `json:"date"`
	Hour   int                    `json:"hour"`
	Amount int64                  `json:"amount"`
	Type   models.TransactionType `json:"type"`
}

// Log is the result of a boundary query: the matching transactions plus the
// signed sum of their amounts.
type Log struct {
	Balance      int64   `json:"balance"`
	Transactions []Entry `json:"transactions"`
}

// ListAll returns every recorded transaction, newest first.
func (r *Recorder) ListAll(ctx context.Context) ([]Entry, error) {
	txs, err := r.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	entries := make([]Entry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, toEntry(tx))
	}
	return entries, nil
}

// ListUpTo returns every transaction recorded up to and including the given
// date and hour (hour granularity), plus the signed sum of their amounts.
func (r *Recorder) ListUpTo(ctx context.Context, date string, hour int) (Log, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Log{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if hour < 0 || hour > 23 {
		return Log{}, fmt.Errorf("%w: got %d", ErrInvalidHour, hour)
	}

	// inclusive at hour granularity: everything before the next hour starts
	boundary := day.Add(time.Duration(hour+1) * time.Hour)
	txs, err := r.store.ListTransactionsBefore(ctx, boundary)
	if err != nil {
		return Log{}, fmt.Errorf("list transactions before %s: %w", boundary, err)
	}

	out := Log{Transactions: make([]Entry, 0, len(txs))}
	for _, tx := range txs {
		out.Balance += tx.Amount
		out.Transactions = append(out.Transactions, toEntry(tx))
	}
	return out, nil
}

func toEntry(tx models.Transaction) Entry {
	at := tx.CreatedAt.UTC()
	return Entry{
		Date:   at.Format(dateLayout),
		Hour:   at.Hour(),
		Amount: tx.Amount,
		Type:   tx.Type,
	}
}
