package matching

import (
	"sync"

	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// Registry maps instrument pairs to their managers. Each manager carries its
// own lock, so unrelated instruments never serialize against each other.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]*Manager
	logger   logger.Interface
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Interface) *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
		logger:   log,
	}
}

// GetOrCreate returns the manager for a pair, creating it on first use.
func (r *Registry) GetOrCreate(pair string) *Manager {
	r.mu.RLock()
	m, ok := r.managers[pair]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[pair]; ok {
		return m
	}

	m = NewManager(pair, r.logger)
	r.managers[pair] = m
	r.logger.Info("order book created", logger.Field{
		Key:   "pair",
		Value: pair,
	})
	return m
}

// Get returns the manager for a pair, or nil when none exists.
func (r *Registry) Get(pair string) *Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.managers[pair]
}

// Pairs lists the pairs with an existing manager.
func (r *Registry) Pairs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make([]string, 0, len(r.managers))
	for pair := range r.managers {
		pairs = append(pairs, pair)
	}
	return pairs
}
