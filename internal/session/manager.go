package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger is any session-keyed store that can drop idle entries. The vector
// store, the keyword index, and the registry all implement it, so one sweep
// expires a session's artifacts together instead of on separate schedules.
type Purger interface {
	EvictIdle(maxAge time.Duration) []string
}

// Manager runs the periodic idle-session sweep across every registered store.
type Manager struct {
	purgers       []Purger
	idleTTL       time.Duration
	sweepInterval time.Duration
	logger        *zap.Logger
}

// NewManager creates a manager that evicts sessions idle for longer than
// idleTTL, sweeping every sweepInterval.
func NewManager(idleTTL, sweepInterval time.Duration, logger *zap.Logger, purgers ...Purger) *Manager {
	return &Manager{
		purgers:       purgers,
		idleTTL:       idleTTL,
		sweepInterval: sweepInterval,
		logger:        logger,
	}
}

// Run sweeps on a ticker until ctx is canceled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep performs one eviction pass over all stores and returns the total
// number of evicted entries.
func (m *Manager) Sweep() int {
	total := 0
	for _, p := range m.purgers {
		evicted := p.EvictIdle(m.idleTTL)
		total += len(evicted)
		if len(evicted) > 0 {
			m.logger.Info("evicted idle sessions", zap.Strings("sessions", evicted))
		}
	}
	return total
}
