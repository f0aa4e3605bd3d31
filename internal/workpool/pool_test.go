package workpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	p := New(4)
	assert.Equal(t, 4, p.Workers())

	var mu sync.Mutex
	seen := make(map[int]int)
	err := p.Run(context.Background(), 1000, func(_ context.Context, i int) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 1000)
	for i, c := range seen {
		assert.Equal(t, 1, c, "index %d", i)
	}
	assert.EqualValues(t, 1000, p.Processed())
}

func TestRunStopsOnError(t *testing.T) {
	p := New(2)
	boom := errors.New("boom")
	var calls atomic.Int64
	err := p.Run(context.Background(), 100000, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 10 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int64(100000))
}

func TestRunStop(t *testing.T) {
	err := New(3).Run(context.Background(), 50, func(_ context.Context, i int) error {
		if i == 0 {
			return ErrStop
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrStop)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int64
	err := New(2).Run(ctx, 1000, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, calls.Load(), int64(1000))
}

func TestDefaultWorkers(t *testing.T) {
	assert.Greater(t, New(0).Workers(), 0)
	require.NoError(t, New(-1).Run(context.Background(), 0, func(context.Context, int) error { return nil }))
}
