// manager.go implements the Manager that runs the registry within a
// timeout and logs the outcome of each teardown.
package shutdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"edukai_backend/core"
	"edukai_backend/logging"

	"go.uber.org/zap"
)

// DefaultTimeout bounds the whole shutdown sequence.
const DefaultTimeout = 30 * time.Second

// ErrNilLogger indicates the logger is nil.
var ErrNilLogger = errors.New("shutdown: logger cannot be nil")

// Manager coordinates graceful shutdown: registered handlers run once,
// in priority order, within the configured timeout.
type Manager struct {
	logger   *logging.Logger
	registry *Registry
	timeout  time.Duration
	once     sync.Once
	errs     []error
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the shutdown timeout. Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// NewManager creates a Manager.
func NewManager(logger *logging.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	m := &Manager{
		logger:   logger.Named("shutdown"),
		registry: NewRegistry(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Register adds a cleanup handler. Lower priority values execute
// earlier.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
	m.logger.Debug("registered shutdown handler",
		zap.String("name", name),
		zap.Int("priority", priority))
}

// Shutdown runs all registered handlers. Safe to call more than once;
// only the first call executes handlers, later calls return the same
// errors.
func (m *Manager) Shutdown() []error {
	m.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		start := time.Now()
		m.logger.Info("shutdown started", zap.Int("handlers", m.registry.Len()))

		m.errs = m.registry.Run(ctx)
		for _, err := range m.errs {
			m.logger.Error("shutdown handler failed", zap.Error(err))
		}
		m.logger.Info("shutdown complete",
			zap.Int("failures", len(m.errs)),
			zap.Duration("duration", time.Since(start)))
	})
	return m.errs
}
