package taskqueue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of background work. Failures are logged and counted,
// never retried.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Stats struct {
	Enqueued  int64
	Completed int64
	Failed    int64
	Dropped   int64
	Pending   int
}

// Queue is a bounded buffer drained by a fixed pool of workers. Enqueue never
// blocks: when the buffer is full the task is dropped.
type Queue struct {
	tasks  chan Task
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool

	enqueued  atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func New(size, workers int, logger *slog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:  make(chan Task, size),
		group:  &errgroup.Group{},
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		q.group.Go(q.work)
	}
	return q
}

func (q *Queue) work() error {
	for t := range q.tasks {
		q.run(t)
	}
	return nil
}

func (q *Queue) run(t Task) {
	defer func() {
		if p := recover(); p != nil {
			q.failed.Add(1)
			q.logger.Error("task panicked", "task", t.Name, "panic", fmt.Sprint(p))
		}
	}()
	if err := t.Run(q.ctx); err != nil {
		q.failed.Add(1)
		q.logger.Warn("task failed", "task", t.Name, "error", err.Error())
		return
	}
	q.completed.Add(1)
}

// Enqueue hands t to the workers. Returns false when the queue is full or
// closed.
func (q *Queue) Enqueue(t Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.tasks <- t:
		q.enqueued.Add(1)
		return true
	default:
		q.dropped.Add(1)
		q.logger.Warn("task dropped, queue full", "task", t.Name, "capacity", cap(q.tasks))
		return false
	}
}

func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Completed: q.completed.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
		Pending:   len(q.tasks),
	}
}

// Close stops accepting tasks and waits for the buffer to drain. If ctx ends
// first the running tasks see a cancelled context and ctx.Err is returned.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = q.group.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}
