package eventlog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Queue runs server mutations one at a time, in submission order.
//
// Each job starts only after the previous one has settled, successfully or
// not, so the store never sees two concurrent increments from one session.
// A failing or panicking job does not stop the jobs behind it.
type Queue struct {
	jobs   chan *job
	done   chan struct{}
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	logger *zap.Logger
}

type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// NewQueue starts a queue worker
func NewQueue(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		jobs:   make(chan *job, 64),
		done:   make(chan struct{}),
		logger: logger,
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for j := range q.jobs {
		j.result <- q.execute(j)
		q.wg.Done()
	}
}

func (q *Queue) execute(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("mutation panicked", zap.Any("panic", r))
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()

	if err := j.ctx.Err(); err != nil {
		return err
	}
	return j.fn(j.ctx)
}

// Submit queues fn and returns a channel that receives its result
func (q *Queue) Submit(ctx context.Context, fn func(ctx context.Context) error) <-chan error {
	result := make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		result <- ErrQueueClosed
		return result
	}
	q.wg.Add(1)
	q.mu.Unlock()

	q.jobs <- &job{ctx: ctx, fn: fn, result: result}
	return result
}

// Do queues fn and waits for it to settle
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return <-q.Submit(ctx, fn)
}

// Drain blocks until every submitted job has settled
func (q *Queue) Drain() {
	q.wg.Wait()
}

// Close stops accepting jobs and waits for queued ones to finish
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
	close(q.jobs)
	<-q.done
}
