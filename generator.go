package xlgen

import (
	"fmt"
	"io"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// Generator writes records of type T into a workbook. Generators are not
// safe for concurrent use.
type Generator[T any] interface {
	// AddRow renders one record as a body row.
	AddRow(record T) error
	// AddRows renders records in order, stopping at the first error.
	AddRows(records []T) error
	// Write finalizes the workbook, writes it to w and releases it.
	Write(w io.Writer) error
	// Close releases the workbook without writing it.
	Close() error
	FileExtension() string
	MediaType() string
	Engine() Engine
}

// base holds what both generators share: the schema, the workbook and the
// renderer.
type base[T any] struct {
	opts     *Options
	schema   *schema
	wb       *workbook
	renderer *renderer
	closed   bool
}

func newBase[T any](opts []Option) (*base[T], error) {
	o := buildOptions(opts)
	if err := o.engine.check(); err != nil {
		return nil, err
	}
	sc, err := reflectSchema(reflect.TypeOf((*T)(nil)).Elem(), o.sheet)
	if err != nil {
		return nil, err
	}
	wb := newWorkbook(o)
	styles, err := wb.resolver.resolveSheet(sc.sheet, sc.columns)
	if err != nil {
		wb.close()
		return nil, err
	}
	return &base[T]{
		opts:     o,
		schema:   sc,
		wb:       wb,
		renderer: &renderer{schema: sc, styles: styles},
	}, nil
}

// newSheet creates a worksheet and writes its header row.
func (b *base[T]) newSheet(name string) (*worksheet, error) {
	ws, err := b.wb.addSheet(name, b.schema.sheet, b.schema.columns)
	if err != nil {
		return nil, err
	}
	if err := ws.writeRow(b.renderer.header()); err != nil {
		return nil, fmt.Errorf("sheet %q header: %w", name, err)
	}
	b.opts.logger.Debug().Str("sheet", name).Int("columns", len(b.schema.columns)).Msg("sheet created")
	return ws, nil
}

// write finalizes ws, writes the workbook and releases it.
func (b *base[T]) write(ws *worksheet, w io.Writer) error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	defer b.wb.close()
	if err := ws.finalize(); err != nil {
		return err
	}
	if err := b.wb.write(w); err != nil {
		return err
	}
	return b.wb.close()
}

// Close releases the workbook without writing it. It is a no-op after
// Write.
func (b *base[T]) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.wb.close()
}

// Columns returns the resolved columns in output order.
func (b *base[T]) Columns() []Column {
	cols := make([]Column, len(b.schema.columns))
	for i, c := range b.schema.columns {
		cols[i] = *c
	}
	return cols
}

// SheetName returns the base sheet name.
func (b *base[T]) SheetName() string {
	return b.schema.sheet.Name
}

// Workbook exposes the underlying excelize file for advanced use. It is
// closed by Write and Close.
func (b *base[T]) Workbook() *excelize.File {
	return b.wb.file
}

// FileExtension returns "xlsx" or "xls" depending on the engine.
func (b *base[T]) FileExtension() string { return b.opts.engine.FileExtension() }

// MediaType returns the MIME type of the written file.
func (b *base[T]) MediaType() string { return b.opts.engine.MediaType() }

// Engine returns the engine backing the generator.
func (b *base[T]) Engine() Engine { return b.opts.engine }
