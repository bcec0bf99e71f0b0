// Package matching owns the matching loop and the book's serialization: at
// most one mutation of the book is in flight at any time, for resting-order
// insertion and user-order matching alike.
package matching

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/orderbook"
	"github.com/tilenkocbek/MetaExchange/pkg/errors"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// OrderUpdateHandler receives a snapshot for every resting order partially or
// fully consumed during a match. Handlers run synchronously inside the
// critical section, in maker mutation order; a slow handler extends the
// critical section, so heavy work must be deferred by the handler itself.
type OrderUpdateHandler func(orderbookv1.OrderUpdate)

// TradeSink receives the trades of one user-order execution. Sinks run after
// the critical section is released, so they never block the book.
type TradeSink interface {
	PublishTrades(ctx context.Context, pair string, trades []orderbookv1.Trade) error
}

// Manager validates and serializes all order flow into one instrument's book.
type Manager struct {
	pair   string
	book   *orderbook.Book
	logger logger.Interface

	mu          sync.Mutex
	nextOrderID int64
	nextTradeID int64
	corruptErr  error

	subscribers []OrderUpdateHandler
	sinks       []TradeSink
}

// NewManager creates a manager for one instrument pair with an empty book.
func NewManager(pair string, log logger.Interface) *Manager {
	return &Manager{
		pair:   pair,
		book:   orderbook.NewBook(),
		logger: log,
	}
}

// Pair returns the instrument pair this manager is scoped to.
func (m *Manager) Pair() string {
	return m.pair
}

// SubscribeOrderUpdates registers a handler for resting-order mutations.
// Register before traffic starts; the list is not guarded against concurrent
// registration.
func (m *Manager) SubscribeOrderUpdates(h OrderUpdateHandler) {
	m.subscribers = append(m.subscribers, h)
}

// AddTradeSink registers a sink for executed trades. Register before traffic
// starts.
func (m *Manager) AddTradeSink(s TradeSink) {
	m.sinks = append(m.sinks, s)
}

// AddExchangeOrder maps an order published by an origin exchange into the
// meta book. It fails with an order_not_valid error before any mutation, and
// with a book_corrupt error if the book refuses the insert, which can only
// mean a broken id counter or index.
func (m *Manager) AddExchangeOrder(ctx context.Context, eo orderbookv1.ExchangeOrder) (*orderbookv1.MetaOrder, error) {
	if err := validateExchangeOrder(eo); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.corruptErr != nil {
		return nil, m.corruptErr
	}

	m.nextOrderID++
	order := orderbookv1.FromExchangeOrder(eo)
	order.ID = m.nextOrderID

	if !m.book.AddOrder(order) {
		m.corruptErr = errors.NewTracer(string(errors.BookCorrupt)).Wrap(
			fmt.Errorf("book refused insert of order %d from exchange %s", order.ID, order.ExchangeID))
		m.logger.ErrorContext(ctx, m.corruptErr, logger.Field{
			Key:   "pair",
			Value: m.pair,
		})
		return nil, m.corruptErr
	}

	m.logger.DebugContext(ctx, "exchange order added",
		logger.Field{Key: "pair", Value: m.pair},
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "exchangeID", Value: order.ExchangeID},
		logger.Field{Key: "type", Value: order.Type},
		logger.Field{Key: "price", Value: order.Price},
		logger.Field{Key: "amount", Value: order.Amount},
	)

	return order, nil
}

// HandleUserOrder executes a user order against the best available resting
// liquidity. The whole walk is one critical section: other callers observe
// it as a single atomic step.
func (m *Manager) HandleUserOrder(ctx context.Context, uo orderbookv1.UserOrder) (*orderbookv1.UserOrderResult, error) {
	if err := validateUserOrder(uo); err != nil {
		return nil, err
	}

	result, err := m.match(ctx, uo)
	if err != nil {
		return nil, err
	}

	// Trades are immutable once created; sinks run outside the lock.
	if len(result.Trades) > 0 {
		for _, sink := range m.sinks {
			if sinkErr := sink.PublishTrades(ctx, m.pair, result.Trades); sinkErr != nil {
				m.logger.ErrorContext(ctx, sinkErr,
					logger.Field{Key: "pair", Value: m.pair},
					logger.Field{Key: "orderID", Value: result.ID},
				)
			}
		}
	}

	return result, nil
}

func (m *Manager) match(ctx context.Context, uo orderbookv1.UserOrder) (*orderbookv1.UserOrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.corruptErr != nil {
		return nil, m.corruptErr
	}

	result := orderbookv1.NewUserOrderResult(uo)
	m.nextOrderID++
	result.ID = m.nextOrderID

	if m.book.BestOpposing(uo.OrderType) == nil {
		result.Status = orderbookv1.StatusCancelled
		result.StatusChangeReason = orderbookv1.ReasonNoMarket
		m.logger.InfoContext(ctx, "no market for user order",
			logger.Field{Key: "pair", Value: m.pair},
			logger.Field{Key: "orderID", Value: result.ID},
			logger.Field{Key: "type", Value: uo.OrderType},
		)
		return result, nil
	}

	for result.RemainingAmount().IsPositive() {
		maker := m.book.BestOpposing(uo.OrderType)
		if maker == nil {
			break
		}

		fill := decimal.Min(result.RemainingAmount(), maker.RemainingAmount)

		m.nextTradeID++
		result.Trades = append(result.Trades, orderbookv1.Trade{
			OrderID:         result.ID,
			ExchangeOrderID: maker.ExchangeOrderID,
			ExchangeID:      maker.ExchangeID,
			TradeID:         m.nextTradeID,
			Price:           maker.Price,
			Amount:          fill,
			OrderType:       uo.OrderType,
		})

		result.ExecutedAmount = result.ExecutedAmount.Add(fill)
		maker.RemainingAmount = maker.RemainingAmount.Sub(fill)

		if maker.IsFilled() {
			if !m.book.RemoveOrder(maker) {
				m.corruptErr = errors.NewTracer(string(errors.BookCorrupt)).Wrap(
					fmt.Errorf("book refused removal of filled order %d", maker.ID))
				m.logger.ErrorContext(ctx, m.corruptErr, logger.Field{
					Key:   "pair",
					Value: m.pair,
				})
				return nil, m.corruptErr
			}
		}

		m.notify(maker.Update())
	}

	switch {
	case result.RemainingAmount().IsZero():
		result.Status = orderbookv1.StatusFullyExecuted
	case result.ExecutedAmount.IsPositive():
		result.Status = orderbookv1.StatusPartiallyExecuted
	default:
		// Unreachable under single-writer serialization: the opposing side
		// was non-empty a moment ago and nothing else mutates the book.
		result.Status = orderbookv1.StatusCancelled
		m.logger.Warn("match loop made no progress on a non-empty book",
			logger.Field{Key: "pair", Value: m.pair},
			logger.Field{Key: "orderID", Value: result.ID},
		)
	}
	result.StatusChangeReason = orderbookv1.ReasonFinished

	m.logger.InfoContext(ctx, "user order executed",
		logger.Field{Key: "pair", Value: m.pair},
		logger.Field{Key: "orderID", Value: result.ID},
		logger.Field{Key: "type", Value: uo.OrderType},
		logger.Field{Key: "status", Value: result.Status},
		logger.Field{Key: "executedAmount", Value: result.ExecutedAmount},
		logger.Field{Key: "trades", Value: len(result.Trades)},
	)

	return result, nil
}

func (m *Manager) notify(update orderbookv1.OrderUpdate) {
	for _, sub := range m.subscribers {
		sub(update)
	}
}

// BookSnapshot lists both sides of the book in price-then-time priority
// order, as update snapshots. Takes the same exclusive path as mutations.
func (m *Manager) BookSnapshot() (bids, asks []orderbookv1.OrderUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.book.AllBuyOrders() {
		bids = append(bids, o.Update())
	}
	for _, o := range m.book.AllSellOrders() {
		asks = append(asks, o.Update())
	}
	return bids, asks
}

// RestingOrders returns the number of resting orders across both sides.
func (m *Manager) RestingOrders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.Len()
}

func validateExchangeOrder(eo orderbookv1.ExchangeOrder) error {
	if strings.TrimSpace(eo.ExchangeID) == "" {
		return errors.NewErrorDetails("exchange id must not be blank", string(errors.OrderNotValid), "exchangeId")
	}
	if eo.Type != orderbookv1.SideBuy && eo.Type != orderbookv1.SideSell {
		return errors.NewErrorDetails("order side must be Buy or Sell", string(errors.OrderNotValid), "type")
	}
	if eo.Kind != orderbookv1.KindLimit && eo.Kind != orderbookv1.KindMarket {
		return errors.NewErrorDetails("order kind must be Limit or Market", string(errors.OrderNotValid), "kind")
	}
	if !eo.Price.IsPositive() {
		return errors.NewErrorDetails("order price must be positive", string(errors.OrderNotValid), "price")
	}
	if !eo.Amount.IsPositive() {
		return errors.NewErrorDetails("order amount must be positive", string(errors.OrderNotValid), "amount")
	}
	return nil
}

func validateUserOrder(uo orderbookv1.UserOrder) error {
	if uo.OrderType != orderbookv1.SideBuy && uo.OrderType != orderbookv1.SideSell {
		return errors.NewErrorDetails("order side must be Buy or Sell", string(errors.OrderNotValid), "orderType")
	}
	if !uo.Amount.IsPositive() {
		return errors.NewErrorDetails("order amount must be positive", string(errors.OrderNotValid), "amount")
	}
	return nil
}
