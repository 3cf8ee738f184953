// Package cli implements the schedulator command-line interface.
//
// This package provides commands for scheduling task files, validating them,
// rendering their dependency graphs, serving the HTTP API, and managing the
// artifact cache. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - schedule: Print the task table, critical path and duration
//   - validate: Check a task file without printing the schedule
//   - render: Write DOT, SVG or PNG diagrams
//   - serve: Run the HTTP API
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/schedulator/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Scheduled 42 tasks (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnReadStart(ctx context.Context, source string) {
	h.logger.Debug("reading tasks", "source", source)
}

func (h *logHooks) OnReadComplete(ctx context.Context, source string, taskCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("read failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("read complete", "source", source, "tasks", taskCount, "elapsed", d)
}

func (h *logHooks) OnAnalyzeStart(ctx context.Context, taskCount int) {
	h.logger.Debug("analyzing", "tasks", taskCount)
}

func (h *logHooks) OnAnalyzeComplete(ctx context.Context, taskCount int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("analysis complete", "tasks", taskCount, "elapsed", d)
}

func (h *logHooks) OnRenderStart(ctx context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h *logHooks) OnRenderComplete(ctx context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "elapsed", d)
}

func (h *logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(ctx context.Context, method, path string) {
	h.logger.Debug("request started", "method", method, "path", path)
}

// OnResponse surfaces server errors at warn level; other responses are
// already logged by the request middleware.
func (h *logHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "elapsed", d)
	}
}
