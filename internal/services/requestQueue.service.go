package services

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	TMDB_REQUEST_DELAY = 250 * time.Millisecond // TMDB enforces a requests-per-second ceiling
	REQUEST_QUEUE_SIZE = 256
)

// ErrQueueClosed rejects tasks submitted after Close.
var ErrQueueClosed = errors.New("request queue is closed")

// RequestQueueService serializes outbound catalog calls. At most one request
// is in flight at a time and a fixed delay elapses between the completion of
// one request and the start of the next, FIFO.
type RequestQueueService struct {
	log       logger.Logger
	tasks     chan func()
	mu        sync.Mutex
	closed    bool
	admitting sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

func NewRequestQueueService() *RequestQueueService {
	q := &RequestQueueService{
		log:   logger.New("RequestQueueService"),
		tasks: make(chan func(), REQUEST_QUEUE_SIZE),
		done:  make(chan struct{}),
	}
	go q.worker()
	return q
}

func (q *RequestQueueService) worker() {
	defer close(q.done)

	var lastFinish time.Time
	for task := range q.tasks {
		// The delay counts from the previous task finishing, not starting,
		// so a slow request still buys the upstream a full quiet window.
		if !lastFinish.IsZero() {
			if wait := TMDB_REQUEST_DELAY - time.Since(lastFinish); wait > 0 {
				time.Sleep(wait)
			}
		}
		task()
		lastFinish = time.Now()
	}
}

// Do enqueues fn and blocks until it has run. A failing fn rejects only its
// own caller; the worker proceeds to the next task. An abandoned caller does
// not cancel the underlying operation, its result is simply discarded.
func (q *RequestQueueService) Do(ctx context.Context, fn func() error) error {
	log := q.log.Function("Do")

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		log.Warn("task rejected, queue is closed")
		return ErrQueueClosed
	}
	q.admitting.Add(1)
	q.mu.Unlock()

	result := make(chan error, 1)
	task := func() {
		result <- fn()
	}

	select {
	case q.tasks <- task:
		q.admitting.Done()
	case <-ctx.Done():
		q.admitting.Done()
		return log.Err("context cancelled before task admission", ctx.Err())
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for the worker to drain. Callers
// already admitted keep their slot; late callers get ErrQueueClosed.
func (q *RequestQueueService) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()

		q.admitting.Wait()
		close(q.tasks)
		<-q.done
	})
}
