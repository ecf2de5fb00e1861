package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"engined/internal/engine"
)

// EnsureInstance makes sure an instance for modelID exists and is ready,
// loading the model if necessary. The engine handle is acquired before the
// model load and released on every failure path: a model is never loaded
// against an uninitialized engine, and a failed load never leaks a handle.
func (m *Manager) EnsureInstance(ctx context.Context, modelID string) error {
	mdl, ok := m.getModelByID(modelID)
	if !ok {
		return ErrModelNotFound(modelID)
	}
	if strings.TrimSpace(mdl.Path) == "" {
		return fmt.Errorf("model %s has empty path", mdl.ID)
	}

	m.mu.Lock()
	if inst := m.instances[modelID]; inst != nil {
		m.mu.Unlock()
		return m.awaitReady(ctx, modelID)
	}
	inst := &Instance{
		ID:    modelID,
		State: StateLoading,
		genCh: make(chan struct{}, 1),
	}
	m.instances[modelID] = inst
	m.mu.Unlock()

	ref, err := engine.AcquireWithNuma(m.numa)
	if err != nil {
		m.failInstance(inst, fmt.Errorf("engine: %w", err))
		return err
	}
	sess, err := m.adapter.Start(mdl.Path, InferParams{})
	if err != nil {
		_ = ref.Close()
		m.failInstance(inst, err)
		return err
	}

	m.mu.Lock()
	inst.engineRef = ref
	inst.session = sess
	inst.State = StateReady
	inst.LastUsed = time.Now()
	m.loadsTotal++
	m.mu.Unlock()
	return nil
}

// failInstance removes a half-built instance and records the error.
func (m *Manager) failInstance(inst *Instance, err error) {
	m.mu.Lock()
	inst.State = StateError
	inst.Err = err.Error()
	delete(m.instances, inst.ID)
	m.lastErr = err.Error()
	m.mu.Unlock()
}

// awaitReady waits for a concurrently loading instance to settle.
func (m *Manager) awaitReady(ctx context.Context, modelID string) error {
	for {
		m.mu.RLock()
		inst := m.instances[modelID]
		var st State
		if inst != nil {
			st = inst.State
		}
		m.mu.RUnlock()
		switch {
		case inst == nil:
			// loader failed and removed it; surface the recorded error
			m.mu.RLock()
			msg := m.lastErr
			m.mu.RUnlock()
			if msg == "" {
				msg = "instance load failed"
			}
			return fmt.Errorf("%s", msg)
		case st == StateReady:
			return nil
		case st == StateDraining:
			return tooBusyError{modelID: modelID}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// beginGeneration admits one generation for the instance, enforcing a single
// in-flight generation with a bounded wait. The returned release func must be
// called when the generation finishes.
func (m *Manager) beginGeneration(ctx context.Context, modelID string) (func(), error) {
	m.mu.RLock()
	inst := m.instances[modelID]
	m.mu.RUnlock()
	if inst == nil || inst.State != StateReady {
		return nil, ErrModelNotFound(modelID)
	}
	select {
	case inst.genCh <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(m.maxWait):
		return nil, tooBusyError{modelID: modelID}
	}
	m.mu.Lock()
	inst.LastUsed = time.Now()
	m.mu.Unlock()
	return func() { <-inst.genCh }, nil
}
