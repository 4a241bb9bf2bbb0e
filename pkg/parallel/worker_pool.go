// Package parallel runs force accumulation across a fixed set of workers.
package parallel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-layout/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrPoolClosed is returned when work is handed to a closed pool.
var ErrPoolClosed = errors.New("worker pool closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = 4096

// NewWorkerPool creates a new worker pool with specified number of workers.
// Returns an error if the worker count exceeds MaxWorkers.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	return NewWorkerPoolWithLogger(workers, logging.NewNopLogger())
}

// NewWorkerPoolWithLogger is NewWorkerPool with recovered task panics
// reported to logger.
func NewWorkerPoolWithLogger(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		logger:    logger.With(logging.Component("worker_pool")),
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.logger.Error("worker panic recovered", logging.Any("panic", fmt.Sprint(r)))
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// ForEachChunk splits [0, n) into contiguous ranges, runs fn on each range
// in the pool and waits for all of them. Ranges never overlap, so fn may
// write to disjoint slice elements without locking. A panic in fn is
// returned as an error once every range has finished.
func (wp *WorkerPool) ForEachChunk(n int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}

	chunks := wp.workers
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks

	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicked any
	)
	for lo := 0; lo < n; lo += size {
		lo := lo
		hi := lo + size
		if hi > n {
			hi = n
		}
		wg.Add(1)
		run := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if panicked == nil {
						panicked = r
					}
					panicMu.Unlock()
				}
			}()
			fn(lo, hi)
		}
		if !wp.Submit(run) {
			wg.Done()
			wg.Wait()
			return ErrPoolClosed
		}
	}
	wg.Wait()

	if panicked != nil {
		return fmt.Errorf("chunk panicked: %v", panicked)
	}
	return nil
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
