package engine

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotInitialized is returned when a release is observed while no backend
// is live. With correct Ref usage this is unreachable; see (*Ref).Close.
var ErrNotInitialized = errors.New("engine backend is not initialized")

// backend marks the native engine as initialized. At most one instance exists
// process-wide, owned by the shared slot below. Creating it runs the native
// init sequence; freeing it runs the native teardown.
type backend struct {
	numa NumaStrategy
}

// state is the shared lifecycle slot. The mutex covers the emptiness check,
// the native init call, both count mutations, and the native free call, so
// the 0->1 and 1->0 transitions are linearized against all other acquires
// and releases.
var state struct {
	mu      sync.Mutex
	backend *backend
	refs    int
}

// initBackend runs the native init sequence. Callers must hold state.mu and
// must have checked that no backend exists.
func initBackend(rt nativeRuntime, numa NumaStrategy) (*backend, error) {
	if err := rt.Init(); err != nil {
		return nil, fmt.Errorf("native init: %w", err)
	}
	rt.InitNuma(numa.Native())
	// Installed once per backend lifetime, before any native log is emitted.
	rt.SetLogCallback(logLine)
	initTotal.Inc()
	return &backend{numa: numa}, nil
}

// free runs the native teardown. Callers must hold state.mu and must
// guarantee no model or session backed by the engine is still alive; the
// Ref count discipline is the only thing enforcing that.
func (b *backend) free(rt nativeRuntime) {
	rt.Free()
	freeTotal.Inc()
}

// Ref is a handle on the initialized engine. Holding one guarantees the
// native engine stays initialized until the handle is closed. Handles are
// cheap; components should acquire their own rather than share one.
type Ref struct {
	mu     sync.Mutex
	closed bool
}

// Acquire returns a new engine handle, initializing the native engine with
// the default NUMA strategy if no handle currently exists.
func Acquire() (*Ref, error) {
	return AcquireWithNuma(DefaultNumaStrategy)
}

// AcquireWithNuma is Acquire with an explicit NUMA strategy. The strategy is
// consumed only when this call initializes the engine; on the warm path the
// engine keeps the strategy it was initialized with.
func AcquireWithNuma(numa NumaStrategy) (*Ref, error) {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.backend != nil {
		state.refs++
		refsGauge.Inc()
		return &Ref{}, nil
	}
	b, err := initBackend(native, numa)
	if err != nil {
		return nil, err
	}
	state.backend = b
	state.refs = 1
	refsGauge.Inc()
	return &Ref{}, nil
}

// Clone returns a new handle on the same engine. It only ever increments the
// shared count; it never initializes or tears down. Cloning a handle that
// was already closed (and whose engine is gone) is a programming error: it
// is logged and an inert, already-closed handle is returned.
func (r *Ref) Clone() *Ref {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.backend == nil {
		logError("engine handle cloned after the backend was freed, this should never happen")
		return &Ref{closed: true}
	}
	state.refs++
	refsGauge.Inc()
	return &Ref{}
}

// Close releases the handle. When the last handle is released the native
// engine is torn down. Close is idempotent per handle; only the first call
// decrements the shared count.
func (r *Ref) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return release()
}

func release() error {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.backend == nil {
		// The engine may already be torn down; there is no safe corrective
		// action, so report and carry on.
		underflowTotal.Inc()
		logError("engine backend already freed on release, this should never happen")
		return ErrNotInitialized
	}
	state.refs--
	refsGauge.Dec()
	if state.refs == 0 {
		b := state.backend
		state.backend = nil
		b.free(native)
	}
	return nil
}

// Status is a point-in-time snapshot of the shared lifecycle slot.
type Status struct {
	Initialized  bool
	Refs         int
	NumaStrategy NumaStrategy
}

// Snapshot reports whether the engine is initialized, how many handles are
// live, and the NUMA strategy it was initialized with.
func Snapshot() Status {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.backend == nil {
		return Status{}
	}
	return Status{Initialized: true, Refs: state.refs, NumaStrategy: state.backend.numa}
}
