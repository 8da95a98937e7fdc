package rcrelay

import (
	"io"
	"log/slog"

	"golang.org/x/time/rate"
)

const (
	// maxLoggedLineSize bounds how much of a feed line goes into a log record.
	maxLoggedLineSize = 256

	// lineLogRate is the maximum number of line warnings per second.
	lineLogRate = 10
)

// discardLogger is a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// lineLogger reports malformed feed lines. A flooded feed would otherwise
// turn every bad line into a log record, so warnings are rate limited and
// dropped silently once the budget is spent.
type lineLogger struct {
	log     *slog.Logger
	limiter *rate.Limiter
}

func newLineLogger(logger *slog.Logger) *lineLogger {
	if logger == nil {
		logger = discardLogger
	}
	return &lineLogger{
		log:     logger,
		limiter: rate.NewLimiter(lineLogRate, lineLogRate),
	}
}

func (l *lineLogger) warn(msg, line string, err error) {
	if !l.limiter.Allow() {
		return
	}
	truncated := len(line) > maxLoggedLineSize
	if truncated {
		line = line[:maxLoggedLineSize]
	}
	l.log.Warn(msg, "line", line, "truncated", truncated, "error", err)
}
