// Package controller provides output surfaces for displaying specification runs.
package controller

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	m "bespec.dev/pkg/bespec/internal/model"
)

// DisplayOption is a functional option for DisplayReport.
type DisplayOption func(*DisplayConfig)

// DisplayConfig holds configuration for rendering a stored report.
type DisplayConfig struct {
	failuresOnly bool
}

// WithFailuresOnly narrows the report view to failed examples and the groups
// that contain them.
func WithFailuresOnly() DisplayOption {
	return func(c *DisplayConfig) {
		c.failuresOnly = true
	}
}

// UI defines the interface for displaying specification runs.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	RunStarted(ctx context.Context, info m.RunInfo)
	ExampleStarted(ctx context.Context, path []string)
	ExampleFinished(ctx context.Context, path []string, result m.ExampleResult)
	RunFinished(ctx context.Context, report m.RunReport)
	DisplayReport(ctx context.Context, report m.RunReport, options ...DisplayOption) error
}

// NewUI picks a UI for the output. Interactive terminals get the Bubble Tea
// report viewer, everything else gets plain line output.
func NewUI(output io.Writer, interactive bool) UI {
	if interactive {
		return NewTUI(output)
	}

	return NewSimpleUI(output)
}

// IsTTY reports whether the writer is attached to a terminal.
func IsTTY(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
