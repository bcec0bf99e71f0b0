// Package tradepublisher streams executed trades to a Kafka topic for the
// downstream audit pipeline.
package tradepublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/pkg/config"
	"github.com/tilenkocbek/MetaExchange/pkg/errors"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// tradeEvent is the audit wire format. EventID makes redelivered messages
// deduplicable downstream.
type tradeEvent struct {
	EventID string            `json:"eventId"`
	Pair    string            `json:"pair"`
	Time    time.Time         `json:"time"`
	Trade   orderbookv1.Trade `json:"trade"`
}

// Publisher writes trade events to Kafka. It satisfies the matching trade
// sink contract.
type Publisher struct {
	writer *kafka.Writer
	logger logger.Interface
}

// NewPublisher creates a publisher for the configured brokers and topic.
func NewPublisher(cfg config.AuditConfig, log logger.Interface) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Publisher{
		writer: writer,
		logger: log,
	}
}

// PublishTrades writes one event per trade, keyed by pair so a partition
// preserves per-instrument order.
func (p *Publisher) PublishTrades(ctx context.Context, pair string, trades []orderbookv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(trades))
	for _, t := range trades {
		event := tradeEvent{
			EventID: ulid.Make().String(),
			Pair:    pair,
			Time:    time.Now().UTC(),
			Trade:   t,
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return errors.NewTracer("encode trade event").Wrap(err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(pair),
			Value: payload,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return errors.NewTracer("write trade events").Wrap(err)
	}

	p.logger.DebugContext(ctx, "trade events published",
		logger.Field{Key: "pair", Value: pair},
		logger.Field{Key: "count", Value: len(messages)},
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
