package logger

import (
	"log"
	"log/slog"
)

// New returns a stdlib *log.Logger that forwards to base at error level with
// a component attribute. It serves APIs such as http.Server.ErrorLog that
// only accept the stdlib type.
func New(component string, base *slog.Logger) *log.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelError)
}
