package manager

import (
	"time"

	"engined/internal/engine"
)

// State represents lifecycle state of an instance.
type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateDraining State = "draining"
	StateError    State = "error"
)

// Instance represents a live model context (one per model id). It owns one
// engine handle, held from before the model is loaded until after the
// session is closed.
type Instance struct {
	ID       string
	State    State
	LastUsed time.Time
	Err      string

	engineRef *engine.Ref
	session   InferSession

	// genCh has capacity 1: single in-flight generation per instance.
	genCh chan struct{}
}
