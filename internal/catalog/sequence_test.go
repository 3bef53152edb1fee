package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_StartsAtOne(t *testing.T) {
	s := NewSequenceAt(0)
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
}

func TestSequence_At(t *testing.T) {
	s := NewSequenceAt(100)
	assert.Equal(t, int64(101), s.Next())
}

func TestSequence_ConcurrentNextIsUnique(t *testing.T) {
	s := NewSequenceAt(0)

	const workers, perWorker = 8, 250
	ids := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- s.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker+1), s.Next())
}
