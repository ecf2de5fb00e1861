package engine

import (
	"log"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used for engine lifecycle messages
// and as the sink for native log lines.
func SetLogger(l zerolog.Logger) { zlog = &l }

// logLine routes a native engine log line into the installed logger. This is
// the callback registered with the native layer at backend initialization.
func logLine(level zerolog.Level, msg string) {
	if zlog != nil {
		zlog.WithLevel(level).Str("source", "llama").Msg(msg)
		return
	}
	log.Printf("llama> %s", msg)
}

func logError(msg string) {
	if zlog != nil {
		zlog.Error().Msg(msg)
		return
	}
	log.Printf("ERROR %s", msg)
}

func logDebug(msg string) {
	if zlog != nil {
		zlog.Debug().Msg(msg)
		return
	}
	log.Printf("DEBUG %s", msg)
}
