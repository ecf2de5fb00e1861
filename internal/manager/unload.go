package manager

import (
	"time"
)

// Unload initiates a graceful drain of a model instance and removes it.
// - Sets instance state to draining to reject new generations.
// - Waits up to drainTimeout for the in-flight generation to finish.
// - Closes the session, then releases the engine handle; the last release
//   across all instances tears the native engine down.
func (m *Manager) Unload(modelID string) error {
	if modelID == "" {
		return ErrModelNotFound("(unspecified)")
	}
	m.mu.Lock()
	inst := m.instances[modelID]
	if inst == nil {
		m.mu.Unlock()
		return ErrModelNotFound(modelID)
	}
	inst.State = StateDraining
	m.mu.Unlock()

	deadline := time.Now().Add(m.drainTimeout)
	for len(inst.genCh) > 0 {
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.mu.Lock()
	delete(m.instances, modelID)
	sess := inst.session
	ref := inst.engineRef
	inst.session = nil
	inst.engineRef = nil
	m.mu.Unlock()

	// Session first: it depends on the engine being initialized, which the
	// handle guarantees until Close.
	if sess != nil {
		if err := sess.Close(); err != nil {
			m.setLastErr(err.Error())
		}
	}
	if ref != nil {
		if err := ref.Close(); err != nil {
			m.setLastErr(err.Error())
		}
	}
	return nil
}

// Close unloads all instances. Used for graceful shutdown.
func (m *Manager) Close() error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		_ = m.Unload(id)
	}
	return nil
}
