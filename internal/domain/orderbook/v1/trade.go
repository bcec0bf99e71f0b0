package orderbookv1

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a user order.
type Status string

const (
	// StatusUnknown is the zero value.
	StatusUnknown Status = ""
	// StatusInProgress means the order is being matched.
	StatusInProgress Status = "InProgress"
	// StatusFullyExecuted means the full amount was traded.
	StatusFullyExecuted Status = "FullyExecuted"
	// StatusPartiallyExecuted means some but not all of the amount was traded.
	StatusPartiallyExecuted Status = "PartiallyExecuted"
	// StatusCancelled means the order was not executed at all.
	StatusCancelled Status = "Cancelled"
)

// StatusChangeReason explains the terminal status of a user order.
type StatusChangeReason string

const (
	// ReasonNone is the zero value.
	ReasonNone StatusChangeReason = "None"
	// ReasonNoMarket means the opposing side was empty at submission time.
	ReasonNoMarket StatusChangeReason = "NoMarket"
	// ReasonFinished means the match loop ran to completion.
	ReasonFinished StatusChangeReason = "Finished"
)

// Trade is an immutable record of one fill between a user order and a single
// resting order, at the resting order's price.
type Trade struct {
	OrderID         int64           `json:"orderId"`
	ExchangeOrderID int64           `json:"exchangeOrderId"`
	ExchangeID      string          `json:"exchangeId"`
	TradeID         int64           `json:"tradeId"`
	Price           decimal.Decimal `json:"price"`
	Amount          decimal.Decimal `json:"amount"`
	OrderType       Side            `json:"orderType"`
}

// Value is the traded notional, price times amount.
func (t Trade) Value() decimal.Decimal {
	return t.Price.Mul(t.Amount)
}

// MarshalJSON includes the derived value alongside the stored fields.
func (t Trade) MarshalJSON() ([]byte, error) {
	type alias Trade
	return json.Marshal(struct {
		alias
		Value decimal.Decimal `json:"value"`
	}{
		alias: alias(t),
		Value: t.Value(),
	})
}

// UserOrder is an incoming request to sweep the book. It carries no price;
// it always trades at the resting orders' prices.
type UserOrder struct {
	OrderType Side            `json:"orderType"`
	Amount    decimal.Decimal `json:"amount"`
}

// UserOrderResult is the outcome of matching one user order.
type UserOrderResult struct {
	ID                 int64              `json:"id"`
	OrderType          Side               `json:"orderType"`
	OriginalAmount     decimal.Decimal    `json:"originalAmount"`
	ExecutedAmount     decimal.Decimal    `json:"executedAmount"`
	Status             Status             `json:"status"`
	StatusChangeReason StatusChangeReason `json:"statusChangeReason"`
	Trades             []Trade            `json:"trades"`
}

// NewUserOrderResult initializes a result for the given user order.
func NewUserOrderResult(uo UserOrder) *UserOrderResult {
	return &UserOrderResult{
		OrderType:          uo.OrderType,
		OriginalAmount:     uo.Amount,
		ExecutedAmount:     decimal.Zero,
		Status:             StatusInProgress,
		StatusChangeReason: ReasonNone,
		Trades:             []Trade{},
	}
}

// RemainingAmount is the portion of the original amount not yet executed.
func (r *UserOrderResult) RemainingAmount() decimal.Decimal {
	return r.OriginalAmount.Sub(r.ExecutedAmount)
}

// AveragePrice is the volume-weighted price across all trades, zero when no
// trade happened. It is a single division at read time, never accumulated.
func (r *UserOrderResult) AveragePrice() decimal.Decimal {
	if len(r.Trades) == 0 {
		return decimal.Zero
	}

	totalValue := decimal.Zero
	totalAmount := decimal.Zero
	for _, t := range r.Trades {
		totalValue = totalValue.Add(t.Value())
		totalAmount = totalAmount.Add(t.Amount)
	}
	return totalValue.Div(totalAmount)
}

// Value is the executed notional at the average price.
func (r *UserOrderResult) Value() decimal.Decimal {
	return r.ExecutedAmount.Mul(r.AveragePrice())
}

// MarshalJSON includes the derived remaining amount, average price and value.
func (r *UserOrderResult) MarshalJSON() ([]byte, error) {
	type alias UserOrderResult
	return json.Marshal(struct {
		*alias
		RemainingAmount decimal.Decimal `json:"remainingAmount"`
		AveragePrice    decimal.Decimal `json:"averagePrice"`
		Value           decimal.Decimal `json:"value"`
	}{
		alias:           (*alias)(r),
		RemainingAmount: r.RemainingAmount(),
		AveragePrice:    r.AveragePrice(),
		Value:           r.Value(),
	})
}
