// Package ui provides stderr-based output for grafo. The Printer implements
// the analysis engine's Notifier interface; rendering stays out of the
// engine itself.
package ui

import (
	"fmt"
	"os"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// Printer writes colored status output to stderr, keeping stdout free for
// machine-readable command output.
type Printer struct{}

// New creates a Printer.
func New() *Printer {
	return &Printer{}
}

// Banner prints the startup header.
func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, bold+cyan+"grafo"+reset+dim+" | LLM call-graph analyzer"+reset)
	fmt.Fprintln(os.Stderr)
}

// Info prints a dim informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

// Success prints a green success line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(os.Stderr, green+"✓ "+reset+"%s\n", msg)
}

// Warning prints a yellow warning line.
func (p *Printer) Warning(msg string) {
	fmt.Fprintf(os.Stderr, yellow+bold+"⚠ "+reset+"%s\n", msg)
}

// Error prints a red error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

// FileDone prints a per-file progress line.
func (p *Printer) FileDone(progress float64, file, status string, seconds float64) {
	color := green
	switch status {
	case "error":
		color = red
	case "checkpoint", "empty":
		color = dim
	}
	fmt.Fprintf(os.Stderr, "%5.1f%% "+color+"%-10s"+reset+" %s "+dim+"(%.1fs)"+reset+"\n",
		progress, status, file, seconds)
}

// RunSummary prints the end-of-run accounting.
func (p *Printer) RunSummary(processed int, analysisSeconds, pausedSeconds float64) {
	fmt.Fprintf(os.Stderr, green+"◆ run complete"+reset+": %d file(s), %.1fs analysis"+dim+" (+%.1fs paused)"+reset+"\n",
		processed, analysisSeconds, pausedSeconds)
}
