package xlgen

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseOption configures the parser.
type ParseOption func(*parseOptions)

type parseOptions struct {
	headerRow  int
	sheetIndex int
	sheetName  string
}

// WithHeaderRow sets the zero-based row holding the header (default 0).
// Rows above it are skipped.
func WithHeaderRow(n int) ParseOption {
	return func(o *parseOptions) { o.headerRow = n }
}

// WithSheetIndex selects the zero-based sheet to read (default 0).
func WithSheetIndex(i int) ParseOption {
	return func(o *parseOptions) { o.sheetIndex = i }
}

// WithSheetName selects the sheet to read by name. It takes precedence
// over WithSheetIndex.
func WithSheetName(name string) ParseOption {
	return func(o *parseOptions) { o.sheetName = name }
}

func buildParseOptions(opts []ParseOption) *parseOptions {
	o := &parseOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Parse reads the workbook from r and calls fn once per row below the
// header, with the row keyed by header name. Values are float64,
// time.Time (date formatted numbers), string, bool or nil for blanks.
// Formula cells are evaluated. Parse stops at the first error from fn.
// Header names are compared as written, surrounding spaces included; a
// missing header row is an error.
func Parse(r io.Reader, fn func(row map[string]any) error, opts ...ParseOption) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ParseWorkbook(f, fn, opts...)
}

// ParseFile is Parse for a file on disk.
func ParseFile(path string, fn func(row map[string]any) error, opts ...ParseOption) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()
	return ParseWorkbook(f, fn, opts...)
}

// ParseWorkbook is Parse over an open workbook. The caller keeps ownership
// of f.
func ParseWorkbook(f *excelize.File, fn func(row map[string]any) error, opts ...ParseOption) error {
	o := buildParseOptions(opts)
	p, err := newParser(f, o)
	if err != nil {
		return err
	}
	var headers []string
	err = p.each(func(index int, raw []string) error {
		if index < o.headerRow {
			return nil
		}
		if index == o.headerRow {
			var err error
			headers, err = parseHeaders(raw)
			return err
		}
		row := make(map[string]any, len(headers))
		for col, name := range headers {
			v, err := p.value(index, col, raw)
			if err != nil {
				return err
			}
			row[name] = v
		}
		return fn(row)
	})
	if err != nil {
		return err
	}
	if headers == nil {
		return fmt.Errorf("%w: sheet %q has no row %d", ErrBlankHeader, p.sheet, o.headerRow+1)
	}
	return nil
}

// ParseWithoutHeader reads every row of the sheet, header included, and
// calls fn with the row's values in column order.
func ParseWithoutHeader(r io.Reader, fn func(row []any) error, opts ...ParseOption) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ParseWorkbookWithoutHeader(f, fn, opts...)
}

// ParseFileWithoutHeader is ParseWithoutHeader for a file on disk.
func ParseFileWithoutHeader(path string, fn func(row []any) error, opts ...ParseOption) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()
	return ParseWorkbookWithoutHeader(f, fn, opts...)
}

// ParseWorkbookWithoutHeader is ParseWithoutHeader over an open workbook.
func ParseWorkbookWithoutHeader(f *excelize.File, fn func(row []any) error, opts ...ParseOption) error {
	p, err := newParser(f, buildParseOptions(opts))
	if err != nil {
		return err
	}
	return p.each(func(index int, raw []string) error {
		row := make([]any, len(raw))
		for col := range raw {
			v, err := p.value(index, col, raw)
			if err != nil {
				return err
			}
			row[col] = v
		}
		return fn(row)
	})
}

func parseHeaders(raw []string) ([]string, error) {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			return nil, fmt.Errorf("%w: column %d", ErrBlankHeader, i+1)
		}
		if first, ok := seen[h]; ok {
			return nil, fmt.Errorf("%w: %q in columns %d and %d", ErrDuplicateHeader, h, first+1, i+1)
		}
		seen[h] = i
		headers[i] = h
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: header row is empty", ErrBlankHeader)
	}
	return headers, nil
}

// parser reads typed values from one sheet.
type parser struct {
	file  *excelize.File
	sheet string
	dates map[int]bool // style id -> date formatted
}

func newParser(f *excelize.File, o *parseOptions) (*parser, error) {
	sheet := o.sheetName
	if sheet == "" {
		list := f.GetSheetList()
		if o.sheetIndex < 0 || o.sheetIndex >= len(list) {
			return nil, fmt.Errorf("%w: index %d", ErrSheetNotFound, o.sheetIndex)
		}
		sheet = list[o.sheetIndex]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	return &parser{file: f, sheet: sheet, dates: make(map[int]bool)}, nil
}

// each calls fn for every row with its zero-based index and raw values.
func (p *parser) each(fn func(index int, raw []string) error) error {
	rows, err := p.file.Rows(p.sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", p.sheet, err)
	}
	defer rows.Close()
	for index := 0; rows.Next(); index++ {
		raw, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("sheet %q row %d: %w", p.sheet, index+1, err)
		}
		if err := fn(index, raw); err != nil {
			return err
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("read sheet %q: %w", p.sheet, err)
	}
	return nil
}

// value types the cell at (row, col) given the row's raw values.
func (p *parser) value(row, col int, raw []string) (any, error) {
	var s string
	if col < len(raw) {
		s = raw[col]
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	if formula, err := p.file.GetCellFormula(p.sheet, cell); err == nil && formula != "" {
		return p.formulaValue(cell)
	}
	typ, err := p.file.GetCellType(p.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("cell %s!%s: %w", p.sheet, cell, err)
	}
	switch typ {
	case excelize.CellTypeError:
		return nil, fmt.Errorf("%w: %s!%s %s", ErrCellError, p.sheet, cell, s)
	case excelize.CellTypeBool:
		return parseBool(s), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		return s, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		if s == "" {
			return nil, nil
		}
		return s, nil
	}
	// numbers carry no type attribute
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s, nil
	}
	if p.isDate(cell) {
		t, err := excelize.ExcelDateToTime(n, false)
		if err == nil {
			return t, nil
		}
	}
	return n, nil
}

func (p *parser) formulaValue(cell string) (any, error) {
	result, err := p.file.CalcCellValue(p.sheet, cell, excelize.Options{RawCellValue: true})
	if isErrorValue(result) {
		return nil, fmt.Errorf("%w: %s!%s %s", ErrCellError, p.sheet, cell, result)
	}
	// excelize reports an error result through err with an empty result
	if err != nil && isErrorValue(err.Error()) {
		return nil, fmt.Errorf("%w: %s!%s %s", ErrCellError, p.sheet, cell, err)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate %s!%s: %w", p.sheet, cell, err)
	}
	if strings.HasPrefix(result, "=") {
		return nil, fmt.Errorf("%w: %s!%s", ErrNestedFormula, p.sheet, cell)
	}
	switch result {
	case "":
		return nil, nil
	case "TRUE", "FALSE":
		return result == "TRUE", nil
	}
	if n, err := strconv.ParseFloat(result, 64); err == nil {
		return n, nil
	}
	return result, nil
}

// isDate reports whether the cell's style has a date number format.
func (p *parser) isDate(cell string) bool {
	id, err := p.file.GetCellStyle(p.sheet, cell)
	if err != nil {
		return false
	}
	if d, ok := p.dates[id]; ok {
		return d
	}
	d := false
	if st, err := p.file.GetStyle(id); err == nil && st != nil {
		d = isDateFormat(st.NumFmt, st.CustomNumFmt)
	}
	p.dates[id] = d
	return d
}

var errorValues = map[string]bool{
	"#NULL!": true, "#DIV/0!": true, "#VALUE!": true, "#REF!": true, "#NAME?": true,
	"#NUM!": true, "#N/A": true, "#GETTING_DATA": true, "#SPILL!": true, "#CALC!": true,
}

func isErrorValue(s string) bool {
	return errorValues[strings.ToUpper(strings.TrimSpace(s))]
}

func parseBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "TRUE":
		return true
	}
	return false
}
