package manager

import (
	"sync"
	"time"

	"engined/internal/engine"
	"engined/pkg/types"
)

type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	defaultModel string
	numa         engine.NumaStrategy
	instances    map[string]*Instance
	lastErr      string
	loadsTotal   uint64

	maxWait      time.Duration
	drainTimeout time.Duration
	adapter      InferenceAdapter
	startTime    time.Time
}

// New constructs a Manager with package defaults.
func New(reg []types.Model, defaultModel string, numa engine.NumaStrategy) *Manager {
	return NewWithConfig(ManagerConfig{
		Registry:     reg,
		DefaultModel: defaultModel,
		Numa:         numa,
	})
}

// Ready reports whether any instance is ready to serve.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inst := range m.instances {
		if inst.State == StateReady {
			return true
		}
	}
	return false
}

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

func (m *Manager) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

func (m *Manager) setLastErr(msg string) {
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
}
