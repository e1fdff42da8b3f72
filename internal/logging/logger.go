// Package logging provides colored, leveled log output for the interviewer
// CLI and API server.
//
// All output functions write a prefixed, color-coded line to the configured
// writer (stderr by default), keeping stdout free for the candidate-facing
// terminal UI. Debug output is suppressed unless verbose mode is enabled via
// SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects all log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

func emit(lines ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}

// Info prints an informational message in blue.
func Info(msg string) {
	emit(infoPrefix("[INFO]") + " " + msg)
}

// Success prints a success message in green.
func Success(msg string) {
	emit(successPrefix("[SUCCESS]") + " " + msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	emit(warnPrefix("[WARN]") + " " + msg)
}

// Error prints an error message in red.
func Error(msg string) {
	emit(errorPrefix("[ERROR]") + " " + msg)
}

// Phase prints a phase header in cyan, surrounded by separator lines.
func Phase(msg string) {
	sep := phasePrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	emit(sep, phasePrefix("[PHASE]")+" "+msg, sep)
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(debugPrefix("[DEBUG]") + " " + msg)
}

// Request logs one served HTTP request.
func Request(method, path string, status int, elapsed time.Duration) {
	line := fmt.Sprintf("%s %s -> %d (%s)", method, path, status, elapsed.Round(time.Millisecond))
	switch {
	case status >= 500:
		Error(line)
	case status >= 400:
		Warn(line)
	default:
		Debug(line)
	}
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
//	FormatDuration(7200) => "2h 0m 0s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		m := seconds / 60
		s := seconds % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatSeconds rounds fractional seconds and formats them with FormatDuration.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	return FormatDuration(int(seconds + 0.5))
}
