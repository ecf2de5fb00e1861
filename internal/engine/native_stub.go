//go:build !llama

package engine

import "github.com/rs/zerolog"

// This stub keeps default builds and CI CGO-free, matching the adapter stub
// in internal/manager. It tracks no native resources; the ref counting above
// it behaves identically to the tagged build.

type stubRuntime struct{}

func newNativeRuntime() nativeRuntime { return stubRuntime{} }

func (stubRuntime) Init() error {
	logDebug("engine init (stub, built without 'llama' tag)")
	return nil
}

func (stubRuntime) InitNuma(code int32) {}

func (stubRuntime) SetLogCallback(fn func(level zerolog.Level, msg string)) {}

func (stubRuntime) Free() {
	logDebug("engine free (stub)")
}
