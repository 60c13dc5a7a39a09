// Package notify renders breach events to an output sink.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/resource-pulse/internal/format"
)

// Notifier delivers a single breach event. Implementations must treat
// delivery as best-effort: a returned error is logged by the caller and
// never aborts the sampling loop.
type Notifier interface {
	// Notify reports that resource's windowed average reached value
	// (percent, 0-100 scale) while its window was full.
	Notify(resource string, value float64) error
}

// warnStyle colors the breach prefix. Matches the warning yellow used
// across the status widgets.
var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")).Bold(true)

// ConsoleNotifier writes one human-readable warning line per breach.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to out.
// If out is nil, os.Stdout is used.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleNotifier{out: out}
}

// Notify writes the breach line, e.g.:
//
//	Warning: threshold breach for CPU, windowed average is 82.3%
func (n *ConsoleNotifier) Notify(resource string, value float64) error {
	line := fmt.Sprintf("%s threshold breach for %s, windowed average is %s\n",
		warnStyle.Render("Warning:"), resource, format.Percent(value))
	if _, err := io.WriteString(n.out, line); err != nil {
		return fmt.Errorf("notify: write breach line: %w", err)
	}
	return nil
}

// LogNotifier reports breaches through a structured logger. Used in
// daemon mode when output goes to a log file rather than a terminal.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. If logger is nil, slog.Default()
// is used.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the breach at warning level. It never fails.
func (n *LogNotifier) Notify(resource string, value float64) error {
	n.logger.Warn("threshold breach",
		"resource", resource,
		"windowed_average", format.Percent(value),
	)
	return nil
}

// Compile-time interface compliance checks.
var (
	_ Notifier = (*ConsoleNotifier)(nil)
	_ Notifier = (*LogNotifier)(nil)
)
