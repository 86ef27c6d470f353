package pump

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPumpCoalescesPushes(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int]()
	var mu sync.Mutex
	var seen []int
	done := make(chan struct{})
	go func() {
		p.Run(func(v int) {
			mu.Lock()
			seen = append(seen, v)
			mu.Unlock()
		})
		close(done)
	}()

	p.Push(1)
	p.Push(2)
	p.Push(3) // 1 and 2 may be coalesced away; 3 must be observed eventually.

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == 3
	}, time.Second, time.Millisecond)

	p.Stop()
	<-done
}

func TestPumpPushNeverBlocks(t *testing.T) {
	p := New[int]()
	for i := 0; i < 100; i++ {
		p.Push(i) // no consumer running; must not block or panic.
	}
	p.Stop()
}

func TestPumpPushNeverAllocates(t *testing.T) {
	p := New[[4]float64]()
	var v [4]float64
	allocs := testing.AllocsPerRun(1000, func() {
		v[0]++
		p.Push(v)
	})
	assert.Equal(t, float64(0), allocs, "Push must never allocate once the Pump is constructed")
}

func TestPumpOneSnapshotPerDrain(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := New[string]()
	calls := 0
	var mu sync.Mutex
	go p.Run(func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	p.Push("a")
	p.Push("b")
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, 2)
	assert.GreaterOrEqual(t, calls, 1)
}
