package eventlog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsJobsOneAtATime(t *testing.T) {
	q := NewQueue(nil)
	defer q.Close()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestQueueKeepsSubmissionOrder(t *testing.T) {
	q := NewQueue(nil)
	defer q.Close()

	var mu sync.Mutex
	var order []int
	results := make([]<-chan error, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		results = append(results, q.Submit(context.Background(), func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, result := range results {
		require.NoError(t, <-result)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestQueueContinuesAfterFailure(t *testing.T) {
	q := NewQueue(nil)
	defer q.Close()

	boom := errors.New("boom")
	first := q.Submit(context.Background(), func(ctx context.Context) error { return boom })
	second := q.Submit(context.Background(), func(ctx context.Context) error { panic("kaboom") })
	third := q.Submit(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, <-first, boom)
	assert.ErrorContains(t, <-second, "kaboom")
	assert.NoError(t, <-third)
}

func TestQueueSkipsCancelledJobs(t *testing.T) {
	q := NewQueue(nil)
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := q.Do(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(nil)

	var ran int32
	pending := q.Submit(context.Background(), func(ctx context.Context) error {
		time.Sleep(5 * time.Millisecond)
		atomic.StoreInt32(&ran, 1)
		return nil
	})
	q.Close()

	assert.NoError(t, <-pending)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
	assert.ErrorIs(t, q.Do(context.Background(), func(ctx context.Context) error { return nil }), ErrQueueClosed)

	q.Close()
}
