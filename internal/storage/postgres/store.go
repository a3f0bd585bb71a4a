package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// Store is a Postgres-backed implementation of interfaces.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the cash and transactions tables if they do not exist.
// The quantity check constraint is the last line of defense against a batch
// that would drive a denomination negative.
func (s *Store) Migrate(ctx context.Context) error {
	const cashTable = `CREATE TABLE IF NOT EXISTS cash (
		denomination BIGINT PRIMARY KEY,
		quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`
	const transactionsTable = `CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		amount BIGINT NOT NULL,
		type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`

	if _, err := s.db.ExecContext(ctx, cashTable); err != nil {
		return fmt.Errorf("migrate cash table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, transactionsTable); err != nil {
		return fmt.Errorf("migrate transactions table: %w", err)
	}
	return nil
}

func (s *Store) Seed(ctx context.Context) (err error) {
	const query = `INSERT INTO cash (denomination, quantity) VALUES ($1, 0)
	ON CONFLICT (denomination) DO NOTHING`

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, d := range models.Denominations {
		if _, err = dbTx.ExecContext(ctx, query, d); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

// ApplyDeltas applies the whole batch inside one transaction so a concurrent
// Snapshot sees either all of it or none of it.
func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.CashDelta) (err error) {
	const query = `UPDATE cash SET quantity = quantity + $2
	WHERE denomination = $1 AND quantity + $2 >= 0`

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, d := range deltas {
		var res sql.Result
		res, err = dbTx.ExecContext(ctx, query, d.Denomination, d.Quantity)
		if err != nil {
			return err
		}
		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			err = s.classifyRejectedDelta(ctx, dbTx, d)
			return err
		}
	}
	return dbTx.Commit()
}

// classifyRejectedDelta tells an unseeded denomination apart from a delta
// that would overdraw the row.
func (s *Store) classifyRejectedDelta(ctx context.Context, dbTx *sql.Tx, d models.CashDelta) error {
	const query = `SELECT quantity FROM cash WHERE denomination = $1`

	var quantity int64
	err := dbTx.QueryRowContext(ctx, query, d.Denomination).Scan(&quantity)
	if err == sql.ErrNoRows {
		return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrUnknownDenomination)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrInsufficientFunds)
}

func (s *Store) Snapshot(ctx context.Context) ([]models.DenominationEntry, error) {
	const query = `SELECT denomination, quantity FROM cash ORDER BY denomination DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DenominationEntry
	for rows.Next() {
		var entry models.DenominationEntry
		if err := rows.Scan(&entry.Denomination, &entry.Quantity); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ResetAll(ctx context.Context) error {
	const query = `UPDATE cash SET quantity = 0`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *Store) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	const query = `INSERT INTO transactions (id, amount, type, created_at)
	VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, tx.ID, tx.Amount, string(tx.Type), tx.CreatedAt)
	return err
}

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `SELECT id, amount, type, created_at FROM transactions
	ORDER BY created_at DESC`

	return s.queryTransactions(ctx, query)
}

func (s *Store) ListTransactionsBefore(ctx context.Context, boundary time.Time) ([]models.Transaction, error) {
	const query = `SELECT id, amount, type, created_at FROM transactions
	WHERE created_at < $1 ORDER BY created_at DESC`

	return s.queryTransactions(ctx, query, boundary)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Type, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ interfaces.Store = (*Store)(nil)
