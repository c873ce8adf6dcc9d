// Package logger builds the process-wide structured logger (zerolog) used
// by every component, optionally fanning out to a size-rotated log file
// alongside the console stream.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // enable pretty console output

	FilePath     string // optional rotating log file; empty disables it
	MaxBytes     int64  // size threshold that triggers rotation
	BackupCount  int    // number of rotated files to retain
}

// New creates a structured logger per cfg. When cfg.FilePath is set, log
// lines are written to both the console and the rotating file.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	output := console
	if cfg.FilePath != "" {
		fw := newRotatingWriter(cfg.FilePath, cfg.MaxBytes, cfg.BackupCount)
		output = zerolog.MultiLevelWriter(console, fw)
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetGlobalLogger sets the package-level zerolog logger.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
