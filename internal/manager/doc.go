// Package manager coordinates model instances on top of the engine lifecycle
// in internal/engine. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (State, Instance).
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound).
//   - ensure.go: EnsureInstance lifecycle and generation admission.
//   - unload.go: graceful drain, session close, engine handle release.
//   - infer.go: inference entry point and NDJSON streaming.
//   - status.go: Status reporting.
//   - adapter_iface.go: InferenceAdapter/InferSession seam.
//
// Every instance holds one engine handle for its whole life, acquired before
// the model is loaded and released after the session is closed; in-flight
// generations clone the handle for their duration. The native engine is
// therefore initialized exactly while at least one instance or generation
// exists.
//
// Build tags:
//
//   - In-process llama: go-llama.cpp adapter, enabled with `-tags=llama`
//     (adapter_llama.go). A no-CGO stub compiles otherwise (adapter_stub.go).
package manager
