package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar displays how much of a bounded retry budget has been used,
// e.g. the listener poll after a daemon restart.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int
	current int
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a new progress bar over total steps.
func NewProgressBar(w io.Writer, title string, total int) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Update sets the number of completed steps.
func (p *ProgressBar) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.render()
}

// Finish ends the progress line with a status word.
func (p *ProgressBar) Finish(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
	fmt.Fprintf(p.w, " %s\n", status)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	current := p.current
	if current > p.total {
		current = p.total
	}
	filled := p.width * current / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %d/%d", p.title, bar, current, p.total)
}
