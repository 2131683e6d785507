// async_write.go implements the AsyncWriter, a bounded queue with a
// background goroutine so recording history never blocks an extraction
// run.
package db

import (
	"context"
	"sync"
	"time"
)

// DefaultQueueCapacity is the default buffer size for the write queue.
const DefaultQueueCapacity = 100

// DefaultDrainTimeout bounds the wait for pending writes during shutdown.
const DefaultDrainTimeout = 30 * time.Second

// WriteJob is one queued database write. Jobs handle their own error
// logging; a failed job is not retried.
type WriteJob func(ctx context.Context) error

// AsyncWriterConfig holds configuration for the async writer.
type AsyncWriterConfig struct {
	// QueueCapacity is the buffer size for pending writes
	QueueCapacity int

	// DrainTimeout is the maximum wait during shutdown
	DrainTimeout time.Duration
}

// DefaultAsyncWriterConfig returns the default configuration.
func DefaultAsyncWriterConfig() AsyncWriterConfig {
	return AsyncWriterConfig{
		QueueCapacity: DefaultQueueCapacity,
		DrainTimeout:  DefaultDrainTimeout,
	}
}

// AsyncWriter processes write jobs on a background goroutine. Enqueueing
// never blocks; a full queue drops the job and reports it to the caller.
type AsyncWriter struct {
	jobs    chan WriteJob
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	config  AsyncWriterConfig
}

// NewAsyncWriter creates an async writer with default configuration.
func NewAsyncWriter() *AsyncWriter {
	return NewAsyncWriterWithConfig(DefaultAsyncWriterConfig())
}

// NewAsyncWriterWithConfig creates an async writer with custom
// configuration.
func NewAsyncWriterWithConfig(config AsyncWriterConfig) *AsyncWriter {
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = DefaultQueueCapacity
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = DefaultDrainTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncWriter{
		jobs:   make(chan WriteJob, config.QueueCapacity),
		ctx:    ctx,
		cancel: cancel,
		config: config,
	}
}

// Start begins background processing. Safe to call more than once.
func (w *AsyncWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.run()
}

// run consumes jobs until the writer is stopped, then drains the buffer.
func (w *AsyncWriter) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			_ = job(context.Background())
		}
	}
}

// drain runs any jobs still buffered at shutdown.
func (w *AsyncWriter) drain() {
	for {
		select {
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			_ = job(context.Background())
		default:
			return
		}
	}
}

// Enqueue queues a job without blocking. Returns false if the queue is
// full.
func (w *AsyncWriter) Enqueue(job WriteJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// Pending returns the number of jobs waiting in the buffer.
func (w *AsyncWriter) Pending() int {
	return len(w.jobs)
}

// Stop signals the goroutine to stop and waits for pending jobs to
// drain, bounded by the configured drain timeout. Returns true if the
// drain completed in time.
func (w *AsyncWriter) Stop() bool {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(w.config.DrainTimeout):
		return false
	}
}

// IsStarted reports whether the background processor is running.
func (w *AsyncWriter) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}
