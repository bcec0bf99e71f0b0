package matching

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	log, err := logger.NewLogger()
	require.NoError(t, err)
	registry := NewRegistry(log)

	first := registry.GetOrCreate("BTC-EUR")
	require.NotNil(t, first)
	assert.Equal(t, "BTC-EUR", first.Pair())

	assert.Same(t, first, registry.GetOrCreate("BTC-EUR"), "same pair returns the same manager")
	assert.NotSame(t, first, registry.GetOrCreate("ETH-EUR"))

	assert.Same(t, first, registry.Get("BTC-EUR"))
	assert.Nil(t, registry.Get("DOGE-EUR"))
	assert.ElementsMatch(t, []string{"BTC-EUR", "ETH-EUR"}, registry.Pairs())
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	log, err := logger.NewLogger()
	require.NoError(t, err)
	registry := NewRegistry(log)

	const goroutines = 16
	managers := make([]*Manager, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			managers[i] = registry.GetOrCreate("BTC-EUR")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, managers[0], managers[i])
	}
	assert.Equal(t, []string{"BTC-EUR"}, registry.Pairs())
}
