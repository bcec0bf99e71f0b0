package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

func setupBenchmarkManager(b *testing.B) *Manager {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	if err != nil {
		b.Fatal(err)
	}
	return NewManager("BTC-EUR", log)
}

func BenchmarkManager_AddExchangeOrder(b *testing.B) {
	m := setupBenchmarkManager(b)
	ctx := context.Background()
	amount := decimal.RequireFromString("0.5")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Vary price across 100 levels, alternate sides.
		side := orderbookv1.SideBuy
		if i%2 == 0 {
			side = orderbookv1.SideSell
		}
		_, _ = m.AddExchangeOrder(ctx, orderbookv1.ExchangeOrder{
			ID:         int64(i),
			ExchangeID: fmt.Sprintf("Exchange-%d", i%4),
			Type:       side,
			Kind:       orderbookv1.KindLimit,
			Amount:     amount,
			Price:      decimal.NewFromInt(int64(3000 + i%100)),
		})
	}
}

func BenchmarkManager_HandleUserOrder(b *testing.B) {
	m := setupBenchmarkManager(b)
	ctx := context.Background()

	for i := 0; i < 10_000; i++ {
		_, _ = m.AddExchangeOrder(ctx, orderbookv1.ExchangeOrder{
			ID:         int64(i),
			ExchangeID: fmt.Sprintf("Exchange-%d", i%4),
			Type:       orderbookv1.SideSell,
			Kind:       orderbookv1.KindLimit,
			Amount:     decimal.RequireFromString("1000000"),
			Price:      decimal.NewFromInt(int64(3000 + i%100)),
		})
	}

	taker := orderbookv1.UserOrder{
		OrderType: orderbookv1.SideBuy,
		Amount:    decimal.RequireFromString("0.1"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.HandleUserOrder(ctx, taker); err != nil {
			b.Fatal(err)
		}
	}
}
