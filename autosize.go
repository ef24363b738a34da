package xlgen

import (
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

const (
	autoSizeScale   = 1.1
	autoSizePadding = 2
)

// widthTracker records the widest rendered text per auto-sized column.
type widthTracker struct {
	widths []float64
	dirty  bool
}

func newWidthTracker(n int) *widthTracker {
	return &widthTracker{widths: make([]float64, n)}
}

// observe measures text rendered into column col.
func (t *widthTracker) observe(col int, text string) {
	if col < 0 || col >= len(t.widths) {
		return
	}
	if w := columnWidth(text); w > t.widths[col] {
		t.widths[col] = w
		t.dirty = true
	}
}

// width returns the tracked width of col, or 0 when nothing was observed.
func (t *widthTracker) width(col int) float64 {
	if col < 0 || col >= len(t.widths) {
		return 0
	}
	return t.widths[col]
}

// columnWidth converts text to a column width. East Asian wide and
// fullwidth runes take two cells; multi-line text is measured by its
// longest line.
func columnWidth(text string) float64 {
	longest := 0
	for _, line := range strings.Split(text, "\n") {
		if n := displayWidth(line); n > longest {
			longest = n
		}
	}
	if longest == 0 {
		return 0
	}
	w := float64(longest)*autoSizeScale + autoSizePadding
	if w > excelize.MaxColumnWidth {
		w = excelize.MaxColumnWidth
	}
	return w
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
