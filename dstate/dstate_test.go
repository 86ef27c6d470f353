package dstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string
	Value int
}

func TestMutateThenReaderSeesUpdate(t *testing.T) {
	m := NewManager[sample]()
	m.Mutate(func(s *sample) { s.Value = 1 })
	assert.Equal(t, 1, m.Reader().Value)
}

func TestMutationsReplayOntoStaleCopy(t *testing.T) {
	m := NewManager[sample]()
	m.Mutate(func(s *sample) { s.Name = "a" })
	m.Mutate(func(s *sample) { s.Value = 1 })
	m.Mutate(func(s *sample) { s.Value++ })
	r := m.Reader()
	assert.Equal(t, "a", r.Name)
	assert.Equal(t, 2, r.Value)
}

func TestMutateCompactsLog(t *testing.T) {
	m := NewManager[sample]()
	for i := 0; i < 1000; i++ {
		m.Mutate(func(s *sample) { s.Value++ })
	}
	assert.LessOrEqual(t, len(m.log), 2, "log should be compacted down to at most the still-unsynced tail")
	assert.Equal(t, 1000, m.Reader().Value)
}

func TestReaderNeverObservesPartialWrite(t *testing.T) {
	m := NewManager[sample]()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Mutate(func(s *sample) { s.Value = i; s.Name = "writing" })
		}
	}()
	for i := 0; i < 1000; i++ {
		r := m.Reader()
		_ = r.Value
		_ = r.Name
	}
	wg.Wait()
	assert.Equal(t, 999, m.Reader().Value)
}
