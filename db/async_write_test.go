package db

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestAsyncWriter_ProcessesJobs(t *testing.T) {
	w := NewAsyncWriter()
	w.Start()

	var processed atomic.Int64
	for i := 0; i < 5; i++ {
		queued := w.Enqueue(func(ctx context.Context) error {
			processed.Add(1)
			return nil
		})
		if !queued {
			t.Fatalf("job %d not queued", i)
		}
	}

	if !w.Stop() {
		t.Fatal("Stop timed out")
	}
	if processed.Load() != 5 {
		t.Errorf("processed = %d, want 5", processed.Load())
	}
}

func TestAsyncWriter_FullQueueDropsJob(t *testing.T) {
	// Not started, so nothing consumes the single slot.
	w := NewAsyncWriterWithConfig(AsyncWriterConfig{QueueCapacity: 1})

	if !w.Enqueue(func(ctx context.Context) error { return nil }) {
		t.Fatal("first job should be queued")
	}
	if w.Enqueue(func(ctx context.Context) error { return nil }) {
		t.Error("second job should be rejected when the queue is full")
	}
	if w.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", w.Pending())
	}
}

func TestAsyncWriter_StopDrainsPendingJobs(t *testing.T) {
	w := NewAsyncWriterWithConfig(AsyncWriterConfig{QueueCapacity: 10, DrainTimeout: 5 * time.Second})

	var processed atomic.Int64
	for i := 0; i < 10; i++ {
		w.Enqueue(func(ctx context.Context) error {
			processed.Add(1)
			return nil
		})
	}

	// Jobs queued before Start still drain on Stop.
	w.Start()
	if !w.Stop() {
		t.Fatal("Stop timed out")
	}
	if processed.Load() != 10 {
		t.Errorf("processed = %d, want all 10 drained", processed.Load())
	}
}

func TestAsyncWriter_StartIsIdempotent(t *testing.T) {
	w := NewAsyncWriter()
	w.Start()
	w.Start()

	if !w.IsStarted() {
		t.Error("IsStarted() = false after Start")
	}
	if !w.Stop() {
		t.Fatal("Stop timed out")
	}
}
