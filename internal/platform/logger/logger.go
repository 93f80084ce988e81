package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so log aggregation can key on
// request_id and entity ids without parsing.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
