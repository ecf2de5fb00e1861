// Package engine owns the llama.cpp backend lifecycle: the native engine is
// initialized when the first reference is acquired and freed when the last
// reference is released. It is structured into small files by concern:
//
//   - backend.go: shared lifecycle slot, Ref handles, acquire/clone/release.
//   - numa.go: NumaStrategy and its mapping to the native ggml enum.
//   - native.go: nativeRuntime seam between the ref counting and the C boundary.
//   - native_llama.go / native_llama_cb.go: cgo bindings (build tag 'llama').
//   - native_stub.go: no-CGO runtime compiled without the 'llama' tag.
//   - logging.go: structured logger hookup; native log lines route here.
//   - metrics.go: Prometheus counters/gauges for init, free, and live refs.
//
// Every component that needs the engine (model instances, inference sessions)
// must hold a Ref for its whole lifetime and Close it on every exit path,
// including error paths. The engine is guaranteed live for exactly the union
// of time any Ref exists.
package engine
