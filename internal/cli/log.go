// Package cli implements the chartkit command-line interface.
//
// This package provides commands for rendering chart definition files to
// ApexCharts option objects, scripts and preview pages, inspecting the
// option trees they produce, and serving them with live reload. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Write options, scripts or an HTML page for a definition file
//   - inspect: Show the option paths of a chart as a table, a diagram or a dump
//   - serve: Run the live preview server
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/chartkit/internal/cli"
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

// newLogger returns the CLI logger: timestamps as "15:04:05.00", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, rounded to
// the millisecond, as "took".
func (p *progress) done(msg string, keyvals ...any) {
	took := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "took", took)...)
}

type ctxKey struct{}

// withLogger attaches l to ctx for code that only receives a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
