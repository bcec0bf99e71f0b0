package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tilenkocbek/MetaExchange/internal/app/server"
	bookloader "github.com/tilenkocbek/MetaExchange/internal/usecase/book-loader"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/matching"
	tradepublisher "github.com/tilenkocbek/MetaExchange/internal/usecase/trade-publisher"
	tradestore "github.com/tilenkocbek/MetaExchange/internal/usecase/trade-store"
	venueregistry "github.com/tilenkocbek/MetaExchange/internal/usecase/venue-registry"
	"github.com/tilenkocbek/MetaExchange/pkg/config"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
	"github.com/tilenkocbek/MetaExchange/pkg/questdb"
	"github.com/tilenkocbek/MetaExchange/pkg/redis"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.InfoLevel))
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	instruments := matching.NewRegistry(log)
	manager := instruments.GetOrCreate(cfg.Pair)

	var publisher venueregistry.Publisher
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(log, &cfg.Redis.Config)
		if err := rdb.Connect(ctx); err != nil {
			return err
		}
		defer rdb.Close() //nolint:errcheck
		publisher = rdb
	}

	venues := venueregistry.NewRegistry(publisher, cfg.OrderUpdateChan, cfg.OrderUpdateBuffer, log)
	go venues.Start(ctx)
	defer venues.Stop()

	manager.SubscribeOrderUpdates(venues.HandleOrderUpdate)

	if cfg.Audit.Enabled {
		audit := tradepublisher.NewPublisher(cfg.Audit, log)
		defer audit.Close() //nolint:errcheck
		manager.AddTradeSink(audit)
	}

	if cfg.QuestDB.Enabled {
		db, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
		if err != nil {
			return err
		}
		defer db.Close()

		store := tradestore.NewStore(db, log)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		manager.AddTradeSink(store)
	}

	if cfg.OrderBookFile != "" {
		loader := bookloader.NewLoader(manager, venues, log)
		if _, err := loader.ImportFile(ctx, cfg.OrderBookFile); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewServer(manager, venues, log).Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			logger.Field{Key: "addr", Value: cfg.HTTPAddr},
			logger.Field{Key: "pair", Value: cfg.Pair},
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
