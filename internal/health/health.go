package health

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Checker is a single dependency probe.
type Checker interface {
	Name() string
	IsCritical() bool
	HealthCheck(ctx context.Context) error
}

// Report is the outcome of one round of checks.
type Report struct {
	Healthy bool
	Results map[string]error
}

// Manager runs registered checkers on demand
type Manager struct {
	checkers []Checker
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		logger:   logger,
	}
}

// AddChecker adds a health checker to the manager
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs every checker. The report is unhealthy only when a critical checker fails.
func (m *Manager) Check(ctx context.Context) Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := Report{
		Healthy: true,
		Results: make(map[string]error, len(m.checkers)),
	}

	for _, checker := range m.checkers {
		err := checker.HealthCheck(ctx)
		report.Results[checker.Name()] = err
		if err == nil {
			continue
		}

		if checker.IsCritical() {
			report.Healthy = false
			m.logger.Error("Critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		} else {
			m.logger.Warn("Non-critical service health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		}
	}

	return report
}
