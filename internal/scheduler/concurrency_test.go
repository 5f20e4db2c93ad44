package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduler_ConcurrentDrain runs many goroutines that each pull ready work
// and complete it until the catalog is finished. Every measurement must be
// handed out exactly once and only after its dependencies completed.
func TestScheduler_ConcurrentDrain(t *testing.T) {
	ctx := context.Background()

	// Layered catalog: 10 roots, then 4 layers of 10 where each node depends
	// on two nodes of the previous layer.
	const width, layers = 10, 5
	var lines []string
	for layer := 0; layer < layers; layer++ {
		for i := 0; i < width; i++ {
			id := layer*width + i + 1
			deps := "0"
			if layer > 0 {
				prev := (layer-1)*width + 1
				deps = fmt.Sprintf("%d,%d", prev+i, prev+(i+1)%width)
			}
			lines = append(lines, fmt.Sprintf("%d fp%d 10 x 1000 1 %s", id, id, deps))
		}
	}
	s := New()
	total, err := s.LoadReader(ctx, strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	require.Equal(t, width*layers, total)

	var (
		mu      sync.Mutex
		handed  = map[measurement.ID]int{}
		done    = map[measurement.ID]bool{}
		wg      sync.WaitGroup
		handOut atomic.Int64
	)

	const numGoroutines = 16
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func() {
			defer wg.Done()
			for !s.IsFinished() {
				id := s.NextReady(ctx)
				if id == measurement.None {
					continue
				}
				handOut.Add(1)

				snap, err := s.Snapshot(id)
				if err != nil {
					t.Errorf("snapshot %d: %v", id, err)
					return
				}
				mu.Lock()
				handed[id]++
				for _, dep := range snap.Depends {
					if !done[dep] {
						t.Errorf("measurement %d started before dependency %d completed", id, dep)
					}
				}
				done[id] = true
				mu.Unlock()

				if err := s.MarkDone(ctx, id); err != nil {
					t.Errorf("mark done %d: %v", id, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(total), handOut.Load())
	assert.Len(t, handed, total)
	for id, n := range handed {
		assert.Equal(t, 1, n, "measurement %d handed out %d times", id, n)
	}
	assert.True(t, s.IsFinished())
	assert.Equal(t, total, s.CountComplete())
}
