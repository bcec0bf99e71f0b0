package orderbookv1

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserOrderResult_DerivedFields(t *testing.T) {
	result := NewUserOrderResult(UserOrder{
		OrderType: SideBuy,
		Amount:    decimal.RequireFromString("10"),
	})

	assert.True(t, result.RemainingAmount().Equal(decimal.RequireFromString("10")))
	assert.True(t, result.AveragePrice().IsZero())
	assert.True(t, result.Value().IsZero())
	assert.Equal(t, StatusInProgress, result.Status)
	assert.Equal(t, ReasonNone, result.StatusChangeReason)

	result.Trades = append(result.Trades,
		Trade{TradeID: 1, Price: decimal.RequireFromString("3000"), Amount: decimal.RequireFromString("2")},
		Trade{TradeID: 2, Price: decimal.RequireFromString("3100"), Amount: decimal.RequireFromString("4")},
	)
	result.ExecutedAmount = decimal.RequireFromString("6")

	assert.True(t, result.RemainingAmount().Equal(decimal.RequireFromString("4")))
	// (3000*2 + 3100*4) / 6
	wantAvg := decimal.RequireFromString("18400").Div(decimal.RequireFromString("6"))
	assert.True(t, result.AveragePrice().Equal(wantAvg))
	assert.True(t, result.Value().Equal(decimal.RequireFromString("18400")))
}

func TestUserOrderResult_MarshalIncludesDerivedFields(t *testing.T) {
	result := NewUserOrderResult(UserOrder{
		OrderType: SideSell,
		Amount:    decimal.RequireFromString("3"),
	})
	result.ID = 7
	result.Trades = append(result.Trades, Trade{
		TradeID: 1,
		Price:   decimal.RequireFromString("2950"),
		Amount:  decimal.RequireFromString("3"),
	})
	result.ExecutedAmount = decimal.RequireFromString("3")
	result.Status = StatusFullyExecuted
	result.StatusChangeReason = ReasonFinished

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Contains(t, decoded, "remainingAmount")
	assert.Contains(t, decoded, "averagePrice")
	assert.Contains(t, decoded, "value")
	assert.JSONEq(t, `"2950"`, string(decoded["averagePrice"]))
	assert.JSONEq(t, `"8850"`, string(decoded["value"]))
}

func TestTrade_MarshalIncludesValue(t *testing.T) {
	raw, err := json.Marshal(Trade{
		OrderID:         1,
		ExchangeOrderID: 99,
		ExchangeID:      "Exchange-0",
		TradeID:         5,
		Price:           decimal.RequireFromString("2964.29"),
		Amount:          decimal.RequireFromString("0.01"),
		OrderType:       SideBuy,
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.JSONEq(t, `"29.6429"`, string(decoded["value"]))
}

func TestFromExchangeOrder(t *testing.T) {
	eo := ExchangeOrder{
		ID:         42,
		ExchangeID: "Exchange-1",
		Type:       SideSell,
		Kind:       KindLimit,
		Amount:     decimal.RequireFromString("1.25"),
		Price:      decimal.RequireFromString("2964"),
	}

	o := FromExchangeOrder(eo)

	assert.Equal(t, int64(0), o.ID, "internal id is assigned on insertion")
	assert.Equal(t, int64(42), o.ExchangeOrderID)
	assert.Equal(t, "Exchange-1", o.ExchangeID)
	assert.True(t, o.RemainingAmount.Equal(o.Amount))
	assert.False(t, o.Time.IsZero(), "zero time defaults to now")
	assert.False(t, o.IsFilled())

	o.RemainingAmount = decimal.Zero
	assert.True(t, o.IsFilled())
}
