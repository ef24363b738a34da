package xlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, displayWidth("hello"))
	assert.Equal(t, 4, displayWidth("日本"))
	assert.Equal(t, 6, displayWidth("ab한글"))
	assert.Equal(t, 0, displayWidth(""))
}

func TestColumnWidth(t *testing.T) {
	assert.Zero(t, columnWidth(""))
	assert.InDelta(t, 10*autoSizeScale+autoSizePadding, columnWidth("0123456789"), 0.001)
	// longest line wins
	assert.InDelta(t, 4*autoSizeScale+autoSizePadding, columnWidth("ab\nabcd\na"), 0.001)
	assert.Equal(t, float64(excelize.MaxColumnWidth), columnWidth(strings.Repeat("x", 1000)))
}

func TestWidthTracker(t *testing.T) {
	tr := newWidthTracker(2)
	assert.False(t, tr.dirty)
	tr.observe(0, "abc")
	tr.observe(0, "a")
	tr.observe(5, "ignored")
	assert.True(t, tr.dirty)
	assert.InDelta(t, 3*autoSizeScale+autoSizePadding, tr.width(0), 0.001)
	assert.Zero(t, tr.width(1))
	assert.Zero(t, tr.width(-1))
}
