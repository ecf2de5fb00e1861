//go:build llama

package engine

// The exported callback lives in its own file: cgo forbids C definitions in
// the preamble of a file that uses //export.

import "C"

import (
	"strings"

	"github.com/rs/zerolog"
)

// ggml_log_level codes as of the pinned llama.cpp revision.
const (
	ggmlLogLevelError = 2
	ggmlLogLevelWarn  = 3
	ggmlLogLevelInfo  = 4
	ggmlLogLevelDebug = 5
)

//export enginedLogCallback
func enginedLogCallback(level C.int, text *C.char) {
	nativeLogMu.RLock()
	fn := nativeLogFn
	nativeLogMu.RUnlock()
	if fn == nil {
		return
	}
	msg := strings.TrimRight(C.GoString(text), "\n")
	if msg == "" {
		return
	}
	var lvl zerolog.Level
	switch level {
	case ggmlLogLevelError:
		lvl = zerolog.ErrorLevel
	case ggmlLogLevelWarn:
		lvl = zerolog.WarnLevel
	case ggmlLogLevelDebug:
		lvl = zerolog.DebugLevel
	default:
		lvl = zerolog.InfoLevel
	}
	fn(lvl, msg)
}
