package xlgen

import (
	"fmt"
	"io"
)

// MultiSheet writes records into consecutive worksheets of at most chunk
// body rows each, named "<name>_1", "<name>_2" and so on.
type MultiSheet[T any] struct {
	*base[T]
	chunk  int
	count  int
	sheets []string
	sheet  *worksheet
}

var _ Generator[struct{}] = (*MultiSheet[struct{}])(nil)

// NewMultiSheet creates a splitting generator for record type T. The chunk
// size comes from WithChunkSize and is capped by the engine's row limit.
func NewMultiSheet[T any](opts ...Option) (*MultiSheet[T], error) {
	b, err := newBase[T](opts)
	if err != nil {
		return nil, err
	}
	g := &MultiSheet[T]{base: b, chunk: chunkSize(b.opts.chunkSize, b.opts.engine)}
	if err := g.nextSheet(); err != nil {
		b.Close()
		return nil, err
	}
	return g, nil
}

// chunkSize returns the number of body rows per sheet: n capped by the
// engine's row limit minus the header row; n <= 0 means that limit.
func chunkSize(n int, e Engine) int {
	limit := e.MaxRows() - 1
	if n <= 0 || n > limit {
		return limit
	}
	return n
}

func (g *MultiSheet[T]) nextSheet() error {
	name := chunkSheetName(g.schema.sheet.Name, len(g.sheets)+1)
	ws, err := g.newSheet(name)
	if err != nil {
		return err
	}
	g.sheets = append(g.sheets, name)
	g.sheet = ws
	return nil
}

// AddRow renders record, starting a new sheet when the current one holds
// chunk rows.
func (g *MultiSheet[T]) AddRow(record T) error {
	if g.closed {
		return ErrClosed
	}
	row, err := g.renderer.body(record)
	if err != nil {
		return fmt.Errorf("row %d: %w", g.count, err)
	}
	if g.count > 0 && g.count%g.chunk == 0 {
		if err := g.sheet.finalize(); err != nil {
			return err
		}
		if err := g.nextSheet(); err != nil {
			return err
		}
		g.opts.logger.Debug().Int("rows", g.count).Str("sheet", g.sheet.name).Msg("sheet rollover")
	}
	if err := g.sheet.writeRow(row); err != nil {
		return err
	}
	g.count++
	return nil
}

// AddRows renders records in order.
func (g *MultiSheet[T]) AddRows(records []T) error {
	for _, r := range records {
		if err := g.AddRow(r); err != nil {
			return err
		}
	}
	return nil
}

// Write auto-sizes the open sheet, writes the workbook to w and releases it.
func (g *MultiSheet[T]) Write(w io.Writer) error {
	return g.write(g.sheet, w)
}

// Rows returns the number of body rows written across all sheets.
func (g *MultiSheet[T]) Rows() int {
	return g.count
}

// Sheets returns the names of the sheets created so far.
func (g *MultiSheet[T]) Sheets() []string {
	return append([]string(nil), g.sheets...)
}
