package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/entities"
)

func result(label string) entities.ReconciliationResult {
	return entities.ReconciliationResult{
		Candidates: []entities.MatchCandidate{{Label: label}},
	}
}

func TestGetPut(t *testing.T) {
	c := New(4)

	_, found := c.Get("fp1")
	assert.False(t, found)

	c.Put("fp1", result("a"))
	got, found := c.Get("fp1")
	require.True(t, found)
	assert.Equal(t, "a", got.Candidates[0].Label)

	st := c.Stats()
	assert.Equal(t, 1, st.Hits)
	assert.Equal(t, 1, st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestEvictsOldestFirst(t *testing.T) {
	c := New(3)
	for i := 1; i <= 3; i++ {
		c.Put(fmt.Sprintf("fp%d", i), result(fmt.Sprintf("r%d", i)))
	}

	// Read fp1 repeatedly; FIFO eviction must ignore recency of reads.
	for i := 0; i < 5; i++ {
		_, found := c.Get("fp1")
		require.True(t, found)
	}

	c.Put("fp4", result("r4"))

	_, found := c.Get("fp1")
	assert.False(t, found)
	_, found = c.Get("fp2")
	assert.True(t, found)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestOverwriteKeepsPosition(t *testing.T) {
	c := New(2)
	c.Put("fp1", result("old"))
	c.Put("fp2", result("b"))
	c.Put("fp1", result("new"))

	got, found := c.Get("fp1")
	require.True(t, found)
	assert.Equal(t, "new", got.Candidates[0].Label)
	assert.Equal(t, 2, c.Len())

	// fp1 kept its original slot, so it is still the oldest entry.
	c.Put("fp3", result("c"))
	_, found = c.Get("fp1")
	assert.False(t, found)
}

func TestDefaultCapacity(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultCapacity, c.Stats().Capacity)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("fp%d", j%60)
				c.Put(key, result(key))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
