package engine

import "github.com/rs/zerolog"

// nativeRuntime is the seam between the reference counting and the C
// boundary. The production implementation (build tag 'llama') calls straight
// into llama.cpp; the default build uses a no-op stub so the daemon and
// tests compile without the native library.
type nativeRuntime interface {
	// Init brings up the native engine. Must be called at most once while no
	// other native call is in flight. llama.cpp's own init cannot fail (it
	// aborts the process instead); the error return exists so alternative
	// runtimes can surface failures rather than silently proceeding.
	Init() error
	// InitNuma applies a ggml_numa_strategy code. Called once, immediately
	// after Init, before any model or session is created.
	InitNuma(code int32)
	// SetLogCallback installs fn as the sink for native log lines. Called
	// once per backend lifetime.
	SetLogCallback(fn func(level zerolog.Level, msg string))
	// Free tears the native engine down. Called at most once, only after all
	// models and sessions created under this backend have been released.
	Free()
}

// native is the runtime used by the package-level acquire/release path.
// Assigned by the build-tag-selected constructor; tests swap in a fake.
var native nativeRuntime = newNativeRuntime()
