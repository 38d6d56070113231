package mail

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCodeStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemoryCodeStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "a@example.com", "111111", time.Minute))

	now = now.Add(time.Minute)
	ok, err := s.Consume(ctx, "a@example.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "code must expire at its deadline")
}

func TestMemoryCodeStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCodeStore()
	require.NoError(t, s.Put(ctx, "a@example.com", "111111", time.Minute))
	require.NoError(t, s.Delete(ctx, "a@example.com"))

	ok, err := s.Consume(ctx, "a@example.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCodeStore_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCodeStore()
	require.NoError(t, s.Put(ctx, "a@example.com", "424242", time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(ctx, "a@example.com", "424242"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
