package httpapi

import (
	"log"
	"net/http"
	"os"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off":
		return LevelOff
	case "error":
		return LevelError
	case "warn":
		return LevelWarn
	case "info", "":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("SENTIMENTD_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

func logWarn(r *http.Request, msg string) {
	if requestLogLevel(r) < LevelWarn {
		return
	}
	if zlog != nil {
		zlog.Warn().Str("path", r.URL.Path).Msg(msg)
		return
	}
	log.Printf("warn: %s path=%s", msg, r.URL.Path)
}

func logError(r *http.Request, err error, msg string) {
	if requestLogLevel(r) < LevelError {
		return
	}
	if zlog != nil {
		zlog.Error().Str("path", r.URL.Path).Err(err).Msg(msg)
		return
	}
	log.Printf("error: %s path=%s err=%v", msg, r.URL.Path, err)
}
