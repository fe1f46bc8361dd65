// Package enginelog adapts github.com/charmbracelet/log for the engine's
// diagnostic breadcrumbs: rollback events and recovered handler panics.
// Grounded on the teacher's cmd/holdem/main.go createLogger and
// internal/game/engine.go's injected *log.Logger field — the core itself
// never prints (spec §7: "the engine itself never prints"), it only writes
// to a logger the host supplies, defaulting to a discard sink.
package enginelog

import (
	"io"

	"github.com/charmbracelet/log"
)

// Discard returns a logger that writes nothing, the default for a
// CommandService constructed without an explicit logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// New builds a logger writing to w at the given level ("debug", "info",
// "warn", "error"), with a "engine" prefix matching the teacher's
// per-component logger prefixes (cmd/holdem/main.go's "main"/"tui" split).
func New(w io.Writer, level string) (*log.Logger, error) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "engine",
		TimeFormat:      "15:04:05",
		Level:           parsed,
	}), nil
}
