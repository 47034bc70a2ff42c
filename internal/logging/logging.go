// Package logging installs the process-wide slog default the hub's other
// packages pick up with slog.Default().With("component", ...), the same
// way main.go blank-imports a logging package before anything else runs.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

func init() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelInfo,
	})))
}

// SetLevel rebuilds the default logger at the given level; navhub's "serve
// --verbose" flag calls this once at startup rather than threading a level
// through every component.
func SetLevel(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	})))
}
