package xlgen

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// streamWindow is how many body rows a streamed sheet holds back so
// auto-sized columns can be measured before the stream writer needs its
// column widths.
const streamWindow = 100

// workbook wraps an excelize file for one generator.
type workbook struct {
	file     *excelize.File
	engine   Engine
	resolver *styleResolver
	logger   zerolog.Logger
	sheets   int
	closed   bool
}

func newWorkbook(o *Options) *workbook {
	f := excelize.NewFile()
	return &workbook{
		file:     f,
		engine:   o.engine,
		resolver: newStyleResolver(f, o.stylers, o.dataFormat),
		logger:   o.logger,
	}
}

// addSheet creates a worksheet. The first call takes over the default
// "Sheet1" of a new file.
func (wb *workbook) addSheet(name string, sheet Sheet, cols []*Column) (*worksheet, error) {
	if wb.sheets == 0 {
		if err := wb.file.SetSheetName(wb.file.GetSheetName(0), name); err != nil {
			return nil, fmt.Errorf("rename sheet %q: %w", name, err)
		}
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	wb.sheets++

	colWidth, rowHeight, custom := sheet.ColumnWidth, sheet.RowHeight, true
	if err := wb.file.SetSheetProps(name, &excelize.SheetPropsOptions{
		DefaultColWidth:  &colWidth,
		DefaultRowHeight: &rowHeight,
		CustomHeight:     &custom,
	}); err != nil {
		return nil, fmt.Errorf("sheet %q props: %w", name, err)
	}
	if sheet.FreezeHeaderPane {
		if err := wb.file.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("sheet %q panes: %w", name, err)
		}
	}

	ws := &worksheet{
		wb:        wb,
		name:      name,
		cols:      cols,
		rowHeight: sheet.RowHeight,
		tracker:   newWidthTracker(len(cols)),
	}
	if wb.engine == EngineStream {
		sw, err := wb.file.NewStreamWriter(name)
		if err != nil {
			return nil, fmt.Errorf("stream sheet %q: %w", name, err)
		}
		ws.stream = sw
	} else if err := ws.applyWidths(); err != nil {
		return nil, err
	}
	return ws, nil
}

// write serializes the workbook. Sheets must be finalized first.
func (wb *workbook) write(w io.Writer) error {
	if err := wb.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// close releases the file and its temporary stream files. Safe to call
// more than once.
func (wb *workbook) close() error {
	if wb.closed {
		return nil
	}
	wb.closed = true
	if err := wb.file.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	return nil
}

// worksheet writes rows into one sheet through either engine.
type worksheet struct {
	wb        *workbook
	name      string
	cols      []*Column
	rowHeight float64
	tracker   *widthTracker
	rows      int // rows written, header included

	stream  *excelize.StreamWriter
	pending []pendingRow
	pushed  bool // stream column widths are fixed
	done    bool
}

type pendingRow struct {
	index int
	row   renderedRow
}

// writeRow writes r as the next row.
func (ws *worksheet) writeRow(r renderedRow) error {
	if ws.done {
		return fmt.Errorf("sheet %q: %w", ws.name, ErrClosed)
	}
	index := ws.rows + 1
	ws.rows++
	for i, col := range ws.cols {
		if col.AutoSize {
			ws.tracker.observe(i, r.texts[i])
		}
	}
	if ws.stream == nil {
		return ws.setRowMemory(index, r)
	}
	if ws.pushed {
		return ws.setRowStream(index, r)
	}
	ws.pending = append(ws.pending, pendingRow{index: index, row: r})
	if len(ws.pending) > streamWindow {
		return ws.push()
	}
	return nil
}

// push fixes the column widths and writes the held rows.
func (ws *worksheet) push() error {
	if err := ws.applyWidths(); err != nil {
		return err
	}
	ws.pushed = true
	for _, p := range ws.pending {
		if err := ws.setRowStream(p.index, p.row); err != nil {
			return err
		}
	}
	ws.pending = nil
	return nil
}

// applyWidths sets every column to its declared or measured width.
func (ws *worksheet) applyWidths() error {
	for i, col := range ws.cols {
		w := col.Width
		if col.AutoSize {
			if measured := ws.tracker.width(i); measured > 0 {
				w = measured
			}
		}
		if w <= 0 {
			continue
		}
		var err error
		if ws.stream != nil {
			err = ws.stream.SetColWidth(i+1, i+1, w)
		} else {
			name, _ := excelize.ColumnNumberToName(i + 1)
			err = ws.wb.file.SetColWidth(ws.name, name, name, w)
		}
		if err != nil {
			return fmt.Errorf("sheet %q column %q width: %w", ws.name, col.Name, err)
		}
	}
	return nil
}

func (ws *worksheet) setRowStream(index int, r renderedRow) error {
	cell, err := excelize.CoordinatesToCellName(1, index)
	if err != nil {
		return err
	}
	values := make([]any, len(r.cells))
	for i := range r.cells {
		values[i] = r.cells[i]
	}
	if err := ws.stream.SetRow(cell, values, excelize.RowOpts{Height: ws.rowHeight}); err != nil {
		return fmt.Errorf("sheet %q row %d: %w", ws.name, index, err)
	}
	ws.setLinks(index, r.links)
	return nil
}

func (ws *worksheet) setRowMemory(index int, r renderedRow) error {
	f := ws.wb.file
	for i, c := range r.cells {
		cell, err := excelize.CoordinatesToCellName(i+1, index)
		if err != nil {
			return err
		}
		if runs, ok := c.Value.([]excelize.RichTextRun); ok {
			err = f.SetCellRichText(ws.name, cell, runs)
		} else {
			err = f.SetCellValue(ws.name, cell, c.Value)
		}
		if err != nil {
			return fmt.Errorf("sheet %q cell %s: %w", ws.name, cell, err)
		}
		if err := f.SetCellStyle(ws.name, cell, cell, c.StyleID); err != nil {
			return fmt.Errorf("sheet %q cell %s style: %w", ws.name, cell, err)
		}
	}
	if err := f.SetRowHeight(ws.name, index, ws.rowHeight); err != nil {
		return fmt.Errorf("sheet %q row %d height: %w", ws.name, index, err)
	}
	ws.setLinks(index, r.links)
	return nil
}

// setLinks attaches hyperlinks. Failures are logged, never returned.
func (ws *worksheet) setLinks(index int, links []cellLink) {
	for _, l := range links {
		cell, err := excelize.CoordinatesToCellName(l.col+1, index)
		if err == nil {
			err = ws.wb.file.SetCellHyperLink(ws.name, cell, l.target, "External")
		}
		if err != nil {
			ws.wb.logger.Warn().Err(err).
				Str("sheet", ws.name).
				Str("cell", cell).
				Str("type", l.kind.String()).
				Msg("hyperlink not set")
		}
	}
}

// finalize sizes columns and flushes the stream. Further rows are an
// error; finalize itself is idempotent.
func (ws *worksheet) finalize() error {
	if ws.done {
		return nil
	}
	ws.done = true
	if ws.stream == nil {
		if ws.tracker.dirty {
			if err := ws.applyWidths(); err != nil {
				return err
			}
		}
	} else {
		if !ws.pushed {
			if err := ws.push(); err != nil {
				return err
			}
		}
		if err := ws.stream.Flush(); err != nil {
			return fmt.Errorf("flush sheet %q: %w", ws.name, err)
		}
	}
	ws.wb.logger.Debug().Str("sheet", ws.name).Int("rows", ws.rows).Msg("sheet finalized")
	return nil
}
