package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newLogger builds the invocation's logger on w. Every line carries a run id
// so interleaved invocations against one database can be told apart.
func newLogger(w io.Writer, level string, jsonFormat bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if jsonFormat {
		logger.SetFormatter(log.JSONFormatter)
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}
	return logger.With("run", runID.String()), nil
}
