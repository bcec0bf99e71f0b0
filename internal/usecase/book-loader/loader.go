// Package bookloader imports venue order book snapshots from the
// line-oriented data file format: one venue per line, a tab-separated prefix
// that is ignored, then a JSON blob with the venue's bids and asks.
package bookloader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/matching"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// Snapshot lines can carry a venue's whole book.
const maxLineBytes = 16 * 1024 * 1024

// VenueRecorder records venue ids as their snapshots arrive.
type VenueRecorder interface {
	AddUpdateExchange(exchangeID string)
}

// Stats summarizes one import run.
type Stats struct {
	Exchanges  int
	BuyOrders  int
	SellOrders int
	BuyAmount  decimal.Decimal
	SellAmount decimal.Decimal
}

// Loader feeds snapshot files into a matching manager.
type Loader struct {
	manager *matching.Manager
	venues  VenueRecorder
	logger  logger.Interface
}

// NewLoader creates a loader targeting the given manager. venues may be nil.
func NewLoader(manager *matching.Manager, venues VenueRecorder, log logger.Interface) *Loader {
	return &Loader{
		manager: manager,
		venues:  venues,
		logger:  log,
	}
}

type bookEntries struct {
	Bids []bookEntry `json:"Bids"`
	Asks []bookEntry `json:"Asks"`
}

type bookEntry struct {
	Order bookOrder `json:"Order"`
}

type bookOrder struct {
	ID     *int64           `json:"Id"`
	Time   time.Time        `json:"Time"`
	Type   orderbookv1.Side `json:"Type"`
	Kind   orderbookv1.Kind `json:"Kind"`
	Amount decimal.Decimal  `json:"Amount"`
	Price  decimal.Decimal  `json:"Price"`
}

// ImportFile reads every snapshot line of the file and adds each bid and ask
// as a resting order. Each line becomes one synthetic venue, Exchange-<N> in
// arrival order.
func (l *Loader) ImportFile(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("order book data file: %w", err)
	}
	defer f.Close()

	stats := &Stats{
		BuyAmount:  decimal.Zero,
		SellAmount: decimal.Zero,
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		split := strings.SplitN(line, "\t", 2)
		if len(split) != 2 {
			return nil, fmt.Errorf("line %d: expected <prefix>\\t<json>", lineNo)
		}

		var book bookEntries
		if err := json.Unmarshal([]byte(split[1]), &book); err != nil {
			return nil, fmt.Errorf("line %d: decode order book: %w", lineNo, err)
		}

		exchangeID := fmt.Sprintf("Exchange-%d", stats.Exchanges)
		if l.venues != nil {
			l.venues.AddUpdateExchange(exchangeID)
		}

		for i, bid := range book.Bids {
			if err := l.addOrder(ctx, exchangeID, bid.Order, i); err != nil {
				return nil, fmt.Errorf("line %d bid %d: %w", lineNo, i, err)
			}
			stats.BuyOrders++
			stats.BuyAmount = stats.BuyAmount.Add(bid.Order.Amount)
		}
		for i, ask := range book.Asks {
			if err := l.addOrder(ctx, exchangeID, ask.Order, i); err != nil {
				return nil, fmt.Errorf("line %d ask %d: %w", lineNo, i, err)
			}
			stats.SellOrders++
			stats.SellAmount = stats.SellAmount.Add(ask.Order.Amount)
		}

		stats.Exchanges++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read order book data: %w", err)
	}

	l.logger.InfoContext(ctx, "order book data imported",
		logger.Field{Key: "exchanges", Value: stats.Exchanges},
		logger.Field{Key: "buyOrders", Value: stats.BuyOrders},
		logger.Field{Key: "sellOrders", Value: stats.SellOrders},
		logger.Field{Key: "buyAmount", Value: stats.BuyAmount},
		logger.Field{Key: "sellAmount", Value: stats.SellAmount},
	)

	return stats, nil
}

func (l *Loader) addOrder(ctx context.Context, exchangeID string, o bookOrder, ordinal int) error {
	id := time.Now().UnixNano() + int64(ordinal)
	if o.ID != nil {
		id = *o.ID
	}

	_, err := l.manager.AddExchangeOrder(ctx, orderbookv1.ExchangeOrder{
		ID:         id,
		ExchangeID: exchangeID,
		Time:       o.Time,
		Type:       o.Type,
		Kind:       o.Kind,
		Amount:     o.Amount,
		Price:      o.Price,
	})
	return err
}
