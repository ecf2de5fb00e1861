package manager

import (
	"time"

	"engined/internal/engine"
	"engined/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxWait      = 30 * time.Second
	defaultDrainTimeout = 10 * time.Second
	defaultCtxSize      = 2048
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry     []types.Model
	DefaultModel string
	// NUMA strategy applied when this manager's first instance initializes
	// the engine.
	Numa engine.NumaStrategy
	// MaxWait bounds how long a generation waits for the single in-flight
	// slot before being rejected as too busy.
	MaxWait      time.Duration
	DrainTimeout time.Duration
	// llama.cpp configuration (no envs; set by callers)
	CtxSize int
	Threads int
	// Adapter overrides the default llama adapter; used by tests.
	Adapter InferenceAdapter
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		numa:         cfg.Numa,
		instances:    make(map[string]*Instance),
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	ctxSize := cfg.CtxSize
	if ctxSize <= 0 {
		ctxSize = defaultCtxSize
	}
	if cfg.Adapter != nil {
		m.adapter = cfg.Adapter
	} else {
		m.adapter = NewLlamaAdapter(ctxSize, cfg.Threads)
	}
	m.startTime = time.Now()
	return m
}
