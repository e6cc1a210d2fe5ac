package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. The controller,
// storage and transport suites use it to keep test output quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
