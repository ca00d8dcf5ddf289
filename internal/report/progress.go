package report

import (
	"fmt"
	"io"
	"strings"
)

// BarWidth is the number of cells in the progress bar.
const BarWidth = 50

// Progress redraws a single-line progress bar. A disabled Progress writes nothing.
type Progress struct {
	w       io.Writer
	enabled bool
	drawn   bool
}

// NewProgress returns a progress bar writing to w when enabled is true.
func NewProgress(w io.Writer, enabled bool) *Progress {
	return &Progress{w: w, enabled: enabled && w != nil}
}

// Update redraws the bar for current of total, overwriting the previous line.
func (p *Progress) Update(current, total int) {
	if p == nil || !p.enabled {
		return
	}
	fmt.Fprint(p.w, "\r"+RenderBar(current, total))
	p.drawn = true
}

// Finish terminates the bar line if one was drawn.
func (p *Progress) Finish() {
	if p == nil || !p.enabled || !p.drawn {
		return
	}
	fmt.Fprintln(p.w)
	p.drawn = false
}

// RenderBar formats "[####----] NN% (current/total)". A zero total renders
// an empty bar at 0%.
func RenderBar(current, total int) string {
	percent := 0
	filled := 0
	if total > 0 {
		current = min(max(current, 0), total)
		percent = current * 100 / total
		filled = current * BarWidth / total
	} else {
		current = 0
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", BarWidth-filled)
	return fmt.Sprintf("[%s] %d%% (%d/%d)", bar, percent, current, total)
}
