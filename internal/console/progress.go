package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// progress.go renders a single-line progress bar on stderr.

// ProgressBar shows completed and failed counts for a batch of work
type ProgressBar struct {
	label string
	total int
	width int
	out   io.Writer
	mu    sync.Mutex
}

// NewProgressBar creates a progress bar writing to stderr
func NewProgressBar(label string, total int) *ProgressBar {
	return NewProgressBarTo(os.Stderr, label, total)
}

// NewProgressBarTo creates a progress bar writing to out
func NewProgressBarTo(out io.Writer, label string, total int) *ProgressBar {
	if total < 1 {
		total = 1
	}
	return &ProgressBar{
		label: label,
		total: total,
		width: 28,
		out:   out,
	}
}

// Update redraws the bar; it ends the line once everything completed
func (p *ProgressBar) Update(completed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	completed = clamp(completed, 0, p.total)
	failed = clamp(failed, 0, completed)

	filled := completed * p.width / p.total
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", p.width-filled)

	line := fmt.Sprintf("\r%s [%s] %3d%% (%d/%d)", p.label, bar, completed*100/p.total, completed, p.total)
	if failed > 0 {
		line += fmt.Sprintf(" %d failed", failed)
	}
	fmt.Fprint(p.out, line)

	if completed == p.total {
		fmt.Fprintln(p.out)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
