// Package tradestore persists executed trades to QuestDB for later analysis.
package tradestore

import (
	"context"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/pkg/errors"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
	"github.com/tilenkocbek/MetaExchange/pkg/questdb"
)

const createTradesTable = `
CREATE TABLE IF NOT EXISTS trades (
	ts TIMESTAMP,
	pair SYMBOL,
	trade_id LONG,
	order_id LONG,
	exchange_id SYMBOL,
	exchange_order_id LONG,
	side SYMBOL,
	price DOUBLE,
	amount DOUBLE
) TIMESTAMP(ts) PARTITION BY DAY;
`

const insertTrade = `
INSERT INTO trades (ts, pair, trade_id, order_id, exchange_id, exchange_order_id, side, price, amount)
VALUES (systimestamp(), $1, $2, $3, $4, $5, $6, $7, $8);
`

// Store writes executed trades to the trades table. It satisfies the matching
// trade sink contract.
type Store struct {
	db     questdb.Client
	logger logger.Interface
}

// NewStore creates a store over an established QuestDB client.
func NewStore(db questdb.Client, log logger.Interface) *Store {
	return &Store{
		db:     db,
		logger: log,
	}
}

// Migrate creates the trades table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.Exec(ctx, createTradesTable); err != nil {
		return errors.NewTracer(string(errors.QuestDBExecError)).Wrap(err)
	}
	return nil
}

// PublishTrades inserts one row per trade. Prices and amounts are stored as
// doubles; the exact decimals live in the audit stream and the API response.
func (s *Store) PublishTrades(ctx context.Context, pair string, trades []orderbookv1.Trade) error {
	for _, t := range trades {
		err := s.db.Exec(ctx, insertTrade,
			pair,
			t.TradeID,
			t.OrderID,
			t.ExchangeID,
			t.ExchangeOrderID,
			string(t.OrderType),
			t.Price.InexactFloat64(),
			t.Amount.InexactFloat64(),
		)
		if err != nil {
			return errors.NewTracer(string(errors.QuestDBExecError)).Wrap(err)
		}
	}

	s.logger.DebugContext(ctx, "trades persisted",
		logger.Field{Key: "pair", Value: pair},
		logger.Field{Key: "count", Value: len(trades)},
	)
	return nil
}
