package bookloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/matching"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

type venueRecorderStub struct {
	venues []string
}

func (v *venueRecorderStub) AddUpdateExchange(exchangeID string) {
	v.venues = append(v.venues, exchangeID)
}

func writeSnapshotFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "order_books_data")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setupLoader(t *testing.T) (*Loader, *matching.Manager, *venueRecorderStub) {
	t.Helper()

	log, err := logger.NewLogger()
	require.NoError(t, err)

	manager := matching.NewManager("BTC-EUR", log)
	venues := &venueRecorderStub{}
	return NewLoader(manager, venues, log), manager, venues
}

func TestLoader_ImportFile(t *testing.T) {
	loader, manager, venues := setupLoader(t)

	path := writeSnapshotFile(t,
		`1548759600.25189	{"AcqTime":"2019-01-29T11:00:00Z","Bids":[{"Order":{"Id":null,"Time":"2019-01-29T11:00:00Z","Type":"Buy","Kind":"Limit","Amount":0.01,"Price":2960.64}}],"Asks":[{"Order":{"Id":null,"Time":"2019-01-29T11:00:00Z","Type":"Sell","Kind":"Limit","Amount":0.405,"Price":2964.29}},{"Order":{"Id":9999,"Time":"2019-01-29T11:00:00Z","Type":"Sell","Kind":"Limit","Amount":0.405,"Price":2964.3}}]}`,
		``,
		`1548759601.33694	{"Bids":[{"Order":{"Id":null,"Type":"Buy","Kind":"Limit","Amount":0.5,"Price":2961.01}}],"Asks":[]}`,
	)

	stats, err := loader.ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Exchanges, "blank lines are skipped")
	assert.Equal(t, 2, stats.BuyOrders)
	assert.Equal(t, 2, stats.SellOrders)
	assert.True(t, stats.BuyAmount.Equal(decimal.RequireFromString("0.51")))
	assert.True(t, stats.SellAmount.Equal(decimal.RequireFromString("0.81")))

	assert.Equal(t, []string{"Exchange-0", "Exchange-1"}, venues.venues)
	assert.Equal(t, 4, manager.RestingOrders())

	// The imported liquidity is matchable: the cheaper ask fills first.
	result, err := manager.HandleUserOrder(context.Background(), orderbookv1.UserOrder{
		OrderType: orderbookv1.SideBuy,
		Amount:    decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Trades)
	assert.True(t, result.Trades[0].Price.Equal(decimal.RequireFromString("2964.29")))
	assert.Equal(t, "Exchange-0", result.Trades[0].ExchangeID)
}

func TestLoader_ImportFileErrors(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
	}{
		{
			name:  "missing tab separator",
			lines: []string{`{"Bids":[],"Asks":[]}`},
		},
		{
			name:  "malformed json",
			lines: []string{"1548759600.25189\t{not json"},
		},
		{
			name:  "invalid order rejected by the manager",
			lines: []string{"1548759600.25189\t" + `{"Bids":[{"Order":{"Id":1,"Type":"Buy","Kind":"Limit","Amount":-1,"Price":2960}}],"Asks":[]}`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loader, manager, _ := setupLoader(t)
			path := writeSnapshotFile(t, tc.lines...)

			_, err := loader.ImportFile(context.Background(), path)

			require.Error(t, err)
			assert.Zero(t, manager.RestingOrders())
		})
	}
}

func TestLoader_ImportFileMissingFile(t *testing.T) {
	loader, _, _ := setupLoader(t)

	_, err := loader.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
