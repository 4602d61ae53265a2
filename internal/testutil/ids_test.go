package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs_Sequence(t *testing.T) {
	g := NewSequentialIDs("rec")
	assert.Equal(t, "rec-1", g.NewID())
	assert.Equal(t, "rec-2", g.NewID())
	assert.Equal(t, "rec-3", g.NewID())
}

func TestSequentialIDs_DefaultPrefix(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "id-1", g.NewID())
}

func TestSequentialIDs_Reset(t *testing.T) {
	g := NewSequentialIDs("x")
	g.NewID()
	g.NewID()
	g.Reset()
	assert.Equal(t, "x-1", g.NewID())
}

func TestSequentialIDs_ConcurrentUnique(t *testing.T) {
	g := NewSequentialIDs("c")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.NewID()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}
