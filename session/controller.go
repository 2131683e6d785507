// controller.go implements the per-file Controller state machine. Each
// uploaded file gets its own instance; the machine drives the
// orchestrator exactly once per file and latches against duplicate
// invocation. Failure resets the latch so a retry can re-enter.
package session

import (
	"context"
	"errors"
	"sync"

	"edukai_backend/core"
	"edukai_backend/fileprocessor"
	"edukai_backend/logging"

	"go.uber.org/zap"
)

// State is the lifecycle phase of one file's extraction.
type State string

// Controller states. Succeeded is terminal; Failed permits retry.
const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Common errors for controllers.
var (
	// ErrNilOrchestrator indicates the orchestrator is nil.
	ErrNilOrchestrator = errors.New("session: orchestrator cannot be nil")

	// ErrNilLogger indicates the logger is nil.
	ErrNilLogger = errors.New("session: logger cannot be nil")

	// ErrAlreadyProcessing indicates a run is already in flight for
	// this file.
	ErrAlreadyProcessing = errors.New("session: file is already being processed")

	// ErrAlreadyProcessed indicates the file already completed
	// successfully; only a failed file may be retried.
	ErrAlreadyProcessed = errors.New("session: file has already been processed")
)

// Orchestrator is the extraction capability the controller drives.
// *fileprocessor.Processor satisfies it.
type Orchestrator interface {
	ProcessFile(ctx context.Context, file core.UploadedFile, progress fileprocessor.ProgressFunc) (*fileprocessor.Result, error)
}

// TextSink receives a file's extracted text on success. *Corpus
// satisfies it.
type TextSink interface {
	AddText(fileID, text string)
}

// Event is published to an observer on every state transition and
// progress update.
type Event struct {
	// FileID identifies the file
	FileID string

	// FileName is the declared file name
	FileName string

	// State is the controller state after the transition
	State State

	// Progress is the live progress, nil outside a run
	Progress *fileprocessor.Progress

	// Err is the failure cause when State is StateFailed
	Err error
}

// ObserverFunc receives controller events. Called synchronously; keep it
// cheap.
type ObserverFunc func(Event)

// Snapshot is a point-in-time view of one controller.
type Snapshot struct {
	FileID       string
	FileName     string
	State        State
	Processing   bool
	HasProcessed bool
	Progress     *fileprocessor.Progress
	Text         string
	Err          error
}

// Controller drives extraction for a single file.
//
// Thread-Safety:
//   - Controller is safe for concurrent use. The state transition into
//     StateProcessing is a compare-and-swap under the mutex, so at most
//     one run is ever in flight regardless of how many goroutines call
//     Process.
type Controller struct {
	mu           sync.Mutex
	file         core.UploadedFile
	state        State
	hasProcessed bool
	progress     *fileprocessor.Progress
	text         string
	err          error

	orchestrator Orchestrator
	sink         TextSink
	observer     ObserverFunc
	logger       *logging.Logger
}

// NewController creates a Controller for one file. The sink and observer
// may be nil.
func NewController(file core.UploadedFile, orchestrator Orchestrator, logger *logging.Logger, sink TextSink, observer ObserverFunc) (*Controller, error) {
	if orchestrator == nil {
		return nil, ErrNilOrchestrator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &Controller{
		file:         file,
		state:        StateIdle,
		orchestrator: orchestrator,
		sink:         sink,
		observer:     observer,
		logger:       logger.Named("controller").With(zap.String("file_id", file.ID)),
	}, nil
}

// Process runs extraction for this file.
//
// The guard is a compare-and-swap: the call that wins the transition to
// StateProcessing runs the orchestrator; concurrent callers get
// ErrAlreadyProcessing, and callers after a success get
// ErrAlreadyProcessed. A failed file resets its latch, so calling
// Process again retries it.
func (c *Controller) Process(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateProcessing {
		c.mu.Unlock()
		return ErrAlreadyProcessing
	}
	if c.hasProcessed {
		c.mu.Unlock()
		return ErrAlreadyProcessed
	}
	c.state = StateProcessing
	c.hasProcessed = true
	c.err = nil
	c.progress = nil
	c.mu.Unlock()

	c.logger.Info("processing started", zap.String("file_name", c.file.Name))
	c.publish(nil)

	result, err := c.orchestrator.ProcessFile(ctx, c.file, c.onProgress)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.hasProcessed = false // latch reset: retry permitted
		c.err = err
		c.progress = nil
		c.mu.Unlock()

		c.logger.Error("processing failed", zap.Error(err))
		c.publish(nil)
		return err
	}

	// The sink check and the AddText call stay under the mutex so a
	// concurrent Detach either prevents the contribution entirely or
	// happens-before the subsequent corpus withdrawal.
	c.mu.Lock()
	c.state = StateSucceeded
	c.text = result.Text
	c.progress = nil
	if c.sink != nil {
		c.sink.AddText(c.file.ID, result.Text)
	}
	c.mu.Unlock()

	c.logger.Info("processing succeeded", zap.Int("text_length", len(result.Text)))
	c.publish(nil)
	return nil
}

// Detach severs the controller from its text sink. A run still in
// flight completes its state transitions but no longer contributes
// extracted text. Used when a file is removed from the session while
// its extraction is running.
func (c *Controller) Detach() {
	c.mu.Lock()
	c.sink = nil
	c.mu.Unlock()
}

// onProgress stores the live progress and publishes it.
func (c *Controller) onProgress(p fileprocessor.Progress) {
	c.mu.Lock()
	c.progress = &p
	c.mu.Unlock()
	c.publish(&p)
}

// publish notifies the observer with the current state.
func (c *Controller) publish(progress *fileprocessor.Progress) {
	if c.observer == nil {
		return
	}
	c.mu.Lock()
	ev := Event{
		FileID:   c.file.ID,
		FileName: c.file.Name,
		State:    c.state,
		Progress: progress,
		Err:      c.err,
	}
	c.mu.Unlock()
	c.observer(ev)
}

// Snapshot returns a point-in-time view of this controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		FileID:       c.file.ID,
		FileName:     c.file.Name,
		State:        c.state,
		Processing:   c.state == StateProcessing,
		HasProcessed: c.hasProcessed,
		Progress:     c.progress,
		Text:         c.text,
		Err:          c.err,
	}
}

// File returns the file this controller owns.
func (c *Controller) File() core.UploadedFile {
	return c.file
}
