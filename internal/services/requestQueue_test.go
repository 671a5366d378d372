package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestQueue_FIFOOrder(t *testing.T) {
	queue := NewRequestQueueService()
	defer queue.Close()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)

	// Callers block on Do, so submissions happen from goroutines. Each
	// waits for the previous admission to keep the enqueue order fixed.
	for i := range 3 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = queue.Do(context.Background(), func() error {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return nil
			})
		}(i)
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestRequestQueue_DelayBetweenTasks(t *testing.T) {
	queue := NewRequestQueueService()
	defer queue.Close()

	start := time.Now()
	for range 3 {
		err := queue.Do(context.Background(), func() error { return nil })
		require.NoError(t, err)
	}

	// The first task starts immediately and the rest are spaced out.
	assert.GreaterOrEqual(t, time.Since(start), 2*TMDB_REQUEST_DELAY)
}

func TestRequestQueue_DelayCountsFromCompletion(t *testing.T) {
	queue := NewRequestQueueService()
	defer queue.Close()

	var firstDone, secondStart time.Time
	var wg sync.WaitGroup

	// The first task outlasts the delay on its own. Spacing anchored to the
	// task start would admit the second one with no gap at all.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = queue.Do(context.Background(), func() error {
			time.Sleep(2 * TMDB_REQUEST_DELAY)
			firstDone = time.Now()
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = queue.Do(context.Background(), func() error {
			secondStart = time.Now()
			return nil
		})
	}()
	wg.Wait()

	assert.GreaterOrEqual(t, secondStart.Sub(firstDone), TMDB_REQUEST_DELAY)
}

func TestRequestQueue_DoAfterCloseIsRejected(t *testing.T) {
	queue := NewRequestQueueService()
	queue.Close()

	err := queue.Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestRequestQueue_ErrorIsolation(t *testing.T) {
	queue := NewRequestQueueService()
	defer queue.Close()

	boom := errors.New("boom")
	err := queue.Do(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)

	err = queue.Do(context.Background(), func() error { return nil })
	assert.NoError(t, err)
}

func TestRequestQueue_ContextCancelledWhileWaiting(t *testing.T) {
	queue := NewRequestQueueService()
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	go func() {
		_ = queue.Do(context.Background(), func() error {
			<-release
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- queue.Do(ctx, func() error { return nil })
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}
