package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/api"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/config"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/register"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/storage/postgres"
	mongostore "github.com/sheikh-saqib/cash-register-ledger-system/internal/storage/mongo"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Seed(ctx); err != nil {
		logger.Error("failed to seed denominations", "error", err)
		os.Exit(1)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	registerService := register.New(store, logger)
	recorder := ledger.NewRecorder(store, publisher, cfg.KafkaTopic, logger)

	handler := api.NewHandler(registerService, recorder, logger)
	router := api.NewRouter(handler)
	logged := handlers.LoggingHandler(os.Stdout, router)

	logger.Info("starting server", "port", cfg.Port, "store", cfg.StoreBackend)
	if err := http.ListenAndServe(":"+cfg.Port, logged); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (interfaces.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return memory.NewStore(), nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(client, cfg.MongoDB)
		if err := store.Ping(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
