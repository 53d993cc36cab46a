package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSonyflake(t *testing.T) {
	t.Parallel()
	sf, err := NewSonyflake(7)
	require.NoError(t, err)

	seen := make(map[uint64]struct{}, 100)
	for i := 0; i < 100; i++ {
		id, err := sf.NextID()
		require.NoError(t, err)
		_, ok := seen[id]
		assert.False(t, ok)
		seen[id] = struct{}{}
	}
}

func TestSequenceGenerator_Concurrent(t *testing.T) {
	t.Parallel()
	g := NewSequenceGenerator(100)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := g.NextID()
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, n)
	for id := range ids {
		assert.Greater(t, id, uint64(100))
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}
