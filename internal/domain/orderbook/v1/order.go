package orderbookv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the side of an order.
type Side string

const (
	// SideUnknown is the zero value for an unspecified side.
	SideUnknown Side = ""
	// SideBuy represents a buy order.
	SideBuy Side = "Buy"
	// SideSell represents a sell order.
	SideSell Side = "Sell"
)

// Kind represents the kind of an order.
type Kind string

const (
	// KindUnknown is the zero value for an unspecified kind.
	KindUnknown Kind = ""
	// KindLimit represents a limit order.
	KindLimit Kind = "Limit"
	// KindMarket represents a market order. Market resting orders are
	// validated and stored at their carried price; the matcher treats them
	// like limits until product intent says otherwise.
	KindMarket Kind = "Market"
)

// Opposite returns the opposing side, or SideUnknown for an unknown side.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnknown
	}
}

// ExchangeOrder is a resting order as published by an origin exchange,
// before it is mapped into the meta book.
type ExchangeOrder struct {
	ID         int64           `json:"exchangeOrderId"`
	ExchangeID string          `json:"exchangeId"`
	Time       time.Time       `json:"time"`
	Type       Side            `json:"type"`
	Kind       Kind            `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Price      decimal.Decimal `json:"price"`
}

// MetaOrder is a resting order stored in the meta order book. It doubles as
// a node of its price level's FIFO queue via the intrusive next/prev links.
type MetaOrder struct {
	ID              int64           `json:"id"`
	ExchangeOrderID int64           `json:"exchangeOrderId"`
	ExchangeID      string          `json:"exchangeId"`
	Time            time.Time       `json:"time"`
	Type            Side            `json:"type"`
	Kind            Kind            `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Price           decimal.Decimal `json:"price"`

	next *MetaOrder
	prev *MetaOrder
}

// FromExchangeOrder maps an exchange order into a MetaOrder. The internal id
// is assigned by the manager on insertion, not here.
func FromExchangeOrder(eo ExchangeOrder) *MetaOrder {
	t := eo.Time
	if t.IsZero() {
		t = time.Now().UTC()
	}

	return &MetaOrder{
		ExchangeOrderID: eo.ID,
		ExchangeID:      eo.ExchangeID,
		Time:            t,
		Type:            eo.Type,
		Kind:            eo.Kind,
		Amount:          eo.Amount,
		RemainingAmount: eo.Amount,
		Price:           eo.Price,
	}
}

// IsFilled checks if the order has no remaining amount.
func (o *MetaOrder) IsFilled() bool {
	return !o.RemainingAmount.IsPositive()
}

// Next returns the order behind this one in its price level, if any.
func (o *MetaOrder) Next() *MetaOrder {
	return o.next
}

// OrderUpdate is an immutable snapshot of a resting order taken after a book
// mutation, carrying what the origin exchange needs to reconcile its view.
type OrderUpdate struct {
	OrderID         int64           `json:"orderId"`
	ExchangeOrderID int64           `json:"exchangeOrderId"`
	ExchangeID      string          `json:"exchangeId"`
	Type            Side            `json:"type"`
	Price           decimal.Decimal `json:"price"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// Update snapshots the order's current state.
func (o *MetaOrder) Update() OrderUpdate {
	return OrderUpdate{
		OrderID:         o.ID,
		ExchangeOrderID: o.ExchangeOrderID,
		ExchangeID:      o.ExchangeID,
		Type:            o.Type,
		Price:           o.Price,
		RemainingAmount: o.RemainingAmount,
	}
}
