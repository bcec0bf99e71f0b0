// Package venueregistry tracks the origin exchanges feeding the meta book and
// fans resting-order updates out to Redis pub/sub.
package venueregistry

import (
	"context"
	"encoding/json"
	"sync"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// Publisher is the pub/sub surface the registry needs. pkg/redis.Client
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

// Registry keeps the set of known venues and a bounded queue of order updates
// drained by a single publishing goroutine. Enqueueing never blocks the
// matching path; when the queue is full the update is dropped and counted.
type Registry struct {
	publisher Publisher
	channel   string
	logger    logger.Interface

	mu             sync.RWMutex
	venues         map[string]struct{}
	dropped        int64
	droppedUnknown int64

	updates chan orderbookv1.OrderUpdate
	done    chan struct{}
	stop    sync.Once
}

// NewRegistry creates a registry publishing to the given pub/sub channel.
// publisher may be nil, in which case updates are only logged at debug level.
func NewRegistry(publisher Publisher, channel string, buffer int, log logger.Interface) *Registry {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Registry{
		publisher: publisher,
		channel:   channel,
		logger:    log,
		venues:    make(map[string]struct{}),
		updates:   make(chan orderbookv1.OrderUpdate, buffer),
		done:      make(chan struct{}),
	}
}

// AddUpdateExchange records a venue id, once.
func (r *Registry) AddUpdateExchange(exchangeID string) {
	if exchangeID == "" {
		return
	}

	r.mu.Lock()
	_, known := r.venues[exchangeID]
	r.venues[exchangeID] = struct{}{}
	r.mu.Unlock()

	if !known {
		r.logger.Info("venue registered", logger.Field{
			Key:   "exchangeID",
			Value: exchangeID,
		})
	}
}

// Known reports whether a venue id has been seen.
func (r *Registry) Known(exchangeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.venues[exchangeID]
	return ok
}

// Venues lists the known venue ids.
func (r *Registry) Venues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.venues))
	for id := range r.venues {
		ids = append(ids, id)
	}
	return ids
}

// Dropped returns the number of updates dropped because the queue was full.
func (r *Registry) Dropped() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

// DroppedUnknown returns the number of updates dropped because their venue
// was never registered.
func (r *Registry) DroppedUnknown() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.droppedUnknown
}

// HandleOrderUpdate enqueues an update for publishing. Updates carrying a
// venue id that was never registered are dropped. It runs inside the matching
// critical section, so it must not block.
func (r *Registry) HandleOrderUpdate(u orderbookv1.OrderUpdate) {
	if !r.Known(u.ExchangeID) {
		r.mu.Lock()
		r.droppedUnknown++
		r.mu.Unlock()

		r.logger.Warn("order update from unknown venue dropped",
			logger.Field{Key: "exchangeID", Value: u.ExchangeID},
			logger.Field{Key: "orderID", Value: u.OrderID},
		)
		return
	}

	select {
	case r.updates <- u:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()

		r.logger.Warn("order update queue full, update dropped",
			logger.Field{Key: "orderID", Value: u.OrderID},
			logger.Field{Key: "dropped", Value: dropped},
		)
	}
}

// Start drains the queue until Stop is called or ctx is cancelled. Call it in
// its own goroutine.
func (r *Registry) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case u := <-r.updates:
			r.publish(ctx, u)
		}
	}
}

// Stop ends the publishing loop. Updates still queued are discarded.
func (r *Registry) Stop() {
	r.stop.Do(func() {
		close(r.done)
	})
}

func (r *Registry) publish(ctx context.Context, u orderbookv1.OrderUpdate) {
	payload, err := json.Marshal(u)
	if err != nil {
		r.logger.Error(err, logger.Field{Key: "orderID", Value: u.OrderID})
		return
	}

	if r.publisher == nil {
		r.logger.Debug("order update", logger.Field{
			Key:   "update",
			Value: string(payload),
		})
		return
	}

	if err := r.publisher.Publish(ctx, r.channel, payload); err != nil {
		r.logger.Error(err,
			logger.Field{Key: "channel", Value: r.channel},
			logger.Field{Key: "orderID", Value: u.OrderID},
		)
	}
}
