//go:build llama

package engine

// cgo bindings for the llama.cpp backend entry points. libllama.so is
// expected next to the built binary (./bin) with an $ORIGIN rpath so no
// environment variables are needed at runtime; point CGO_CFLAGS at the
// llama.cpp headers when building with -tags=llama.

/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
#include <stdlib.h>
#include "llama.h"

extern void enginedLogCallback(int level, char *text);

static void engined_log_cb(enum ggml_log_level level, const char *text, void *user_data) {
	(void)user_data;
	enginedLogCallback((int)level, (char *)text);
}

static void engined_log_set(void) {
	llama_log_set(engined_log_cb, NULL);
}
*/
import "C"

import (
	"sync"

	"github.com/rs/zerolog"
)

type llamaRuntime struct{}

func newNativeRuntime() nativeRuntime { return llamaRuntime{} }

// nativeLogFn holds the sink for native log lines. Guarded by its own mutex
// because llama.cpp may log from arbitrary native threads.
var (
	nativeLogMu sync.RWMutex
	nativeLogFn func(level zerolog.Level, msg string)
)

func (llamaRuntime) Init() error {
	C.llama_backend_init()
	return nil
}

func (llamaRuntime) InitNuma(code int32) {
	C.llama_numa_init(C.enum_ggml_numa_strategy(code))
}

func (llamaRuntime) SetLogCallback(fn func(level zerolog.Level, msg string)) {
	nativeLogMu.Lock()
	nativeLogFn = fn
	nativeLogMu.Unlock()
	C.engined_log_set()
}

func (llamaRuntime) Free() {
	C.llama_backend_free()
}
