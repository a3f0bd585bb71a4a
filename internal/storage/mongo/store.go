package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
)

// Collection name constants.
const (
	colCash         = "cash"
	colTransactions = "transactions"
)

// Store is a MongoDB-backed implementation of interfaces.Store. Inventory
// updates rely on per-document $inc with a stock-guarding filter, wrapped in
// a session transaction so a batch commits all-or-none.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
	}
}

func (s *Store) Seed(ctx context.Context) error {
	col := s.db.Collection(colCash)
	for _, d := range models.Denominations {
		_, err := col.UpdateOne(ctx,
			bson.M{"denomination": d},
			bson.M{"$setOnInsert": bson.M{"quantity": int64(0)}},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed denomination %d: %w", d, err)
		}
	}
	return nil
}

func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.CashDelta) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		col := s.db.Collection(colCash)
		for _, d := range deltas {
			// the filter refuses the update when it would overdraw the row
			filter := bson.M{
				"denomination": d.Denomination,
				"quantity":     bson.M{"$gte": -d.Quantity},
			}
			update := bson.M{"$inc": bson.M{"quantity": d.Quantity}}
			res := col.FindOneAndUpdate(ctx, filter, update)
			if err := res.Err(); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return nil, s.classifyRejectedDelta(ctx, d)
				}
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *Store) classifyRejectedDelta(ctx context.Context, d models.CashDelta) error {
	res := s.db.Collection(colCash).FindOne(ctx, bson.M{"denomination": d.Denomination})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrUnknownDenomination)
		}
		return err
	}
	return fmt.Errorf("denomination %d: %w", d.Denomination, interfaces.ErrInsufficientFunds)
}

func (s *Store) Snapshot(ctx context.Context) ([]models.DenominationEntry, error) {
	cursor, err := s.db.Collection(colCash).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "denomination", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var rows []cashModel
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	entries := make([]models.DenominationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.DenominationEntry{
			Denomination: row.Denomination,
			Quantity:     row.Quantity,
		})
	}
	return entries, nil
}

func (s *Store) ResetAll(ctx context.Context) error {
	_, err := s.db.Collection(colCash).UpdateMany(ctx,
		bson.M{},
		bson.M{"$set": bson.M{"quantity": int64(0)}},
	)
	return err
}

func (s *Store) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := s.db.Collection(colTransactions).InsertOne(ctx, toTransactionModel(tx))
	return err
}

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.findTransactions(ctx, bson.M{})
}

func (s *Store) ListTransactionsBefore(ctx context.Context, boundary time.Time) ([]models.Transaction, error) {
	return s.findTransactions(ctx, bson.M{"created_at": bson.M{"$lt": boundary}})
}

func (s *Store) findTransactions(ctx context.Context, filter bson.M) ([]models.Transaction, error) {
	cursor, err := s.db.Collection(colTransactions).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var rows []transactionModel
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, fromTransactionModel(row))
	}
	return txs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ interfaces.Store = (*Store)(nil)
