package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitOrderAndDelivery(t *testing.T) {
	b := NewBus(nil)

	var mu sync.Mutex
	var received []string

	require.NoError(t, b.On(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, "cb1:"+e.Message)
	}))
	require.NoError(t, b.On(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, "cb2:"+e.Message)
	}))

	b.Emit(Log("agent-a", LevelInfo, "hello"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"cb1:hello", "cb2:hello"}, received)
}

func TestBus_CallbackIsolation(t *testing.T) {
	b := NewBus(nil)

	var secondCalled bool
	require.NoError(t, b.On(func(Event) {
		panic("boom")
	}))
	require.NoError(t, b.On(func(Event) {
		secondCalled = true
	}))

	assert.NotPanics(t, func() {
		b.Emit(Log("agent-a", LevelInfo, "hello"))
	})
	assert.True(t, secondCalled)
}

func TestBus_SequenceNumbersMonotonic(t *testing.T) {
	b := NewBus(nil)

	var seqs []uint64
	require.NoError(t, b.On(func(e Event) {
		seqs = append(seqs, e.Seq)
	}))

	for i := 0; i < 5; i++ {
		b.Emit(Done("agent-a"))
	}

	for i := 1; i < len(seqs); i++ {
		assert.Greater(t, seqs[i], seqs[i-1])
	}
}

func TestBus_RegisterInvalidArgument(t *testing.T) {
	b := NewBus(nil)
	err := b.On(nil)
	assert.Error(t, err)
}

func TestBus_UnregisterUnknownIsNoop(t *testing.T) {
	b := NewBus(nil)
	assert.NotPanics(t, func() {
		b.Unregister(func(Event) {})
	})
}

func TestBus_Unregister(t *testing.T) {
	b := NewBus(nil)
	var calls int
	cb := func(Event) { calls++ }

	require.NoError(t, b.On(cb))
	b.Emit(Done("a"))
	assert.Equal(t, 1, calls)

	b.Unregister(cb)
	b.Emit(Done("a"))
	assert.Equal(t, 1, calls)
}
