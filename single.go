package xlgen

import (
	"fmt"
	"io"
)

// SingleSheet writes every record into one worksheet.
type SingleSheet[T any] struct {
	*base[T]
	sheet *worksheet
}

var _ Generator[struct{}] = (*SingleSheet[struct{}])(nil)

// NewSingleSheet creates a generator for record type T, which must be a
// struct or a pointer to one. The sheet and its header row are created
// immediately.
func NewSingleSheet[T any](opts ...Option) (*SingleSheet[T], error) {
	b, err := newBase[T](opts)
	if err != nil {
		return nil, err
	}
	ws, err := b.newSheet(SafeSheetName(b.schema.sheet.Name))
	if err != nil {
		b.Close()
		return nil, err
	}
	return &SingleSheet[T]{base: b, sheet: ws}, nil
}

// AddRow renders record as the next body row.
func (g *SingleSheet[T]) AddRow(record T) error {
	if g.closed {
		return ErrClosed
	}
	row, err := g.renderer.body(record)
	if err != nil {
		return fmt.Errorf("row %d: %w", g.sheet.rows, err)
	}
	return g.sheet.writeRow(row)
}

// AddRows renders records in order.
func (g *SingleSheet[T]) AddRows(records []T) error {
	for _, r := range records {
		if err := g.AddRow(r); err != nil {
			return err
		}
	}
	return nil
}

// Write auto-sizes the sheet, writes the workbook to w and releases it.
func (g *SingleSheet[T]) Write(w io.Writer) error {
	return g.write(g.sheet, w)
}

// Rows returns the number of body rows written.
func (g *SingleSheet[T]) Rows() int {
	return g.sheet.rows - 1
}
