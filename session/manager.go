// manager.go implements the session Manager, the arena owning one
// Controller per uploaded file plus the shared Corpus. It composes:
//   - controller.go: per-file state machines
//   - corpus.go: text aggregation
//   - logging.Logger: structured logging
package session

import (
	"context"
	"errors"
	"sync"

	"edukai_backend/core"
	"edukai_backend/logging"

	"go.uber.org/zap"
)

// ErrUnknownFile is returned for operations on a file id the manager
// does not track.
var ErrUnknownFile = errors.New("session: unknown file id")

// Manager owns the controllers and corpus of one user session.
//
// Thread-Safety:
//   - Manager is safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	order       []string

	orchestrator Orchestrator
	corpus       *Corpus
	observer     ObserverFunc
	logger       *logging.Logger
}

// NewManager creates a session Manager. The observer may be nil.
func NewManager(orchestrator Orchestrator, logger *logging.Logger, observer ObserverFunc) (*Manager, error) {
	if orchestrator == nil {
		return nil, ErrNilOrchestrator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &Manager{
		controllers:  make(map[string]*Controller),
		orchestrator: orchestrator,
		corpus:       NewCorpus(),
		observer:     observer,
		logger:       logger.Named("session"),
	}, nil
}

// Add registers a file and creates its controller. Re-adding an id the
// manager already tracks returns the existing controller unchanged.
func (m *Manager) Add(file core.UploadedFile) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.controllers[file.ID]; ok {
		return existing, nil
	}

	controller, err := NewController(file, m.orchestrator, m.logger, m.corpus, m.observer)
	if err != nil {
		return nil, err
	}
	m.controllers[file.ID] = controller
	m.order = append(m.order, file.ID)

	m.logger.Info("file added to session",
		zap.String("file_id", file.ID),
		zap.String("file_name", file.Name))
	return controller, nil
}

// Remove deletes a file from the session, dropping its controller and
// withdrawing its corpus contribution.
func (m *Manager) Remove(fileID string) error {
	m.mu.Lock()
	controller, ok := m.controllers[fileID]
	if !ok {
		m.mu.Unlock()
		return ErrUnknownFile
	}
	delete(m.controllers, fileID)
	for i, id := range m.order {
		if id == fileID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	// Detach before withdrawing: an extraction still in flight for this
	// file must not land its text in the corpus after the withdrawal.
	controller.Detach()
	m.corpus.RemoveText(fileID)
	m.logger.Info("file removed from session", zap.String("file_id", fileID))
	return nil
}

// Process runs extraction for one tracked file.
func (m *Manager) Process(ctx context.Context, fileID string) error {
	m.mu.Lock()
	controller, ok := m.controllers[fileID]
	m.mu.Unlock()
	if !ok {
		return ErrUnknownFile
	}
	return controller.Process(ctx)
}

// ProcessAll runs extraction for every tracked file concurrently and
// waits for all runs to finish. Files complete in whatever order their
// extraction latency dictates. The first error per file is retained;
// already-processed files are not errors.
func (m *Manager) ProcessAll(ctx context.Context) map[string]error {
	m.mu.Lock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	controllers := make([]*Controller, 0, len(ids))
	for _, id := range ids {
		controllers = append(controllers, m.controllers[id])
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	var resultMu sync.Mutex
	failures := make(map[string]error)

	for i, controller := range controllers {
		wg.Add(1)
		go func(id string, c *Controller) {
			defer wg.Done()
			err := c.Process(ctx)
			if err == nil || errors.Is(err, ErrAlreadyProcessed) {
				return
			}
			resultMu.Lock()
			failures[id] = err
			resultMu.Unlock()
		}(ids[i], controller)
	}
	wg.Wait()
	return failures
}

// Snapshot returns the current view of one file.
func (m *Manager) Snapshot(fileID string) (Snapshot, error) {
	m.mu.Lock()
	controller, ok := m.controllers[fileID]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrUnknownFile
	}
	return controller.Snapshot(), nil
}

// Snapshots returns views of every tracked file in insertion order.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Snapshot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.controllers[id].Snapshot())
	}
	return out
}

// Corpus returns the ordered distinct extracted text across all files.
func (m *Manager) Corpus() []string {
	return m.corpus.Corpus()
}

// Len returns the number of tracked files.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
