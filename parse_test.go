package xlgen

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type ledger struct {
	Name   string     `xlsx:"Name"`
	Count  int        `xlsx:"Count"`
	Price  float64    `xlsx:"Price"`
	Active bool       `xlsx:"Active"`
	When   time.Time  `xlsx:"When"`
	Day    civil.Date `xlsx:"Day"`
	Memo   *string    `xlsx:"Memo"`
}

func (ledger) Sheet() Sheet { return Sheet{Name: "Ledger"} }

func TestParse_RoundTrip(t *testing.T) {
	when := time.Date(2023, 7, 14, 8, 30, 0, 0, time.UTC)
	for _, engine := range []Engine{EngineStream, EngineMemory} {
		t.Run(engine.String(), func(t *testing.T) {
			g, err := NewSingleSheet[ledger](WithEngine(engine))
			require.NoError(t, err)
			defer g.Close()
			require.NoError(t, g.AddRows([]ledger{
				{Name: "tea", Count: 3, Price: 1.25, Active: true, When: when, Day: civil.Date{Year: 2023, Month: time.July, Day: 14}},
				{Name: "cake", Count: 1, Price: 4.5},
			}))

			var buf bytes.Buffer
			require.NoError(t, g.Write(&buf))

			var rows []map[string]any
			err = Parse(&buf, func(row map[string]any) error {
				rows = append(rows, row)
				return nil
			})
			require.NoError(t, err)
			require.Len(t, rows, 2)

			first := rows[0]
			assert.Equal(t, "tea", first["Name"])
			assert.Equal(t, 3.0, first["Count"])
			assert.Equal(t, 1.25, first["Price"])
			assert.Equal(t, true, first["Active"])
			require.IsType(t, time.Time{}, first["When"])
			assert.WithinDuration(t, when, first["When"].(time.Time), time.Second)
			require.IsType(t, time.Time{}, first["Day"])
			assert.Equal(t, "2023-07-14", first["Day"].(time.Time).Format("2006-01-02"))
			assert.Nil(t, first["Memo"])

			assert.Equal(t, false, rows[1]["Active"])
			assert.Equal(t, 4.5, rows[1]["Price"])
		})
	}
}

func TestParse_HeaderCount(t *testing.T) {
	g, err := NewSingleSheet[person]()
	require.NoError(t, err)
	defer g.Close()
	require.NoError(t, g.AddRow(people()[0]))
	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))

	var headers [][]any
	err = ParseWithoutHeader(&buf, func(row []any) error {
		headers = append(headers, row)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, []any{"Name", "Age", "E-mail"}, headers[0])
	assert.Equal(t, []any{"Alice", 30.0, "alice@example.com"}, headers[1])
}

// newSheetFile builds a workbook whose first sheet holds rows.
func newSheetFile(t *testing.T, rows ...[]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestParse_HeaderErrors(t *testing.T) {
	noop := func(map[string]any) error { return nil }

	f := newSheetFile(t, []any{"Name", "Name"}, []any{"a", "b"})
	assert.ErrorIs(t, ParseWorkbook(f, noop), ErrDuplicateHeader)

	f = newSheetFile(t, []any{"Name", "", "Age"}, []any{"a", "b", 1})
	assert.ErrorIs(t, ParseWorkbook(f, noop), ErrBlankHeader)

	f = newSheetFile(t, []any{"Name", "   "}, []any{"a", "b"})
	assert.ErrorIs(t, ParseWorkbook(f, noop), ErrBlankHeader)
}

func TestParse_HeaderRowAndSheet(t *testing.T) {
	f := newSheetFile(t, []any{"title"}, []any{"K", "V"}, []any{"a", 1})
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"X"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"y"}))

	var got []map[string]any
	collect := func(row map[string]any) error {
		got = append(got, row)
		return nil
	}
	require.NoError(t, ParseWorkbook(f, collect, WithHeaderRow(1)))
	assert.Equal(t, []map[string]any{{"K": "a", "V": 1.0}}, got)

	got = nil
	require.NoError(t, ParseWorkbook(f, collect, WithSheetIndex(1)))
	assert.Equal(t, []map[string]any{{"X": "y"}}, got)

	got = nil
	require.NoError(t, ParseWorkbook(f, collect, WithSheetName("Other")))
	assert.Len(t, got, 1)

	assert.ErrorIs(t, ParseWorkbook(f, collect, WithSheetIndex(5)), ErrSheetNotFound)
	assert.ErrorIs(t, ParseWorkbook(f, collect, WithSheetName("Missing")), ErrSheetNotFound)
}

func TestParse_Formulas(t *testing.T) {
	f := newSheetFile(t, []any{"A", "B", "Sum"}, []any{1, 2})
	require.NoError(t, f.SetCellFormula("Sheet1", "C2", "A2+B2"))

	var got map[string]any
	err := ParseWorkbook(f, func(row map[string]any) error {
		got = row
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got["Sum"])
}

func TestParse_FormulaError(t *testing.T) {
	f := newSheetFile(t, []any{"A", "Ratio"}, []any{1})
	require.NoError(t, f.SetCellFormula("Sheet1", "B2", "A2/0"))

	err := ParseWorkbook(f, func(map[string]any) error { return nil })
	assert.ErrorIs(t, err, ErrCellError)
	assert.Contains(t, err.Error(), "#DIV/0!")
}

// withSheetXML saves f and replaces the first worksheet part with sheetXML.
// excelize has no setter for error cells, so they are written as raw XML.
func withSheetXML(t *testing.T, f *excelize.File, sheetXML string) *excelize.File {
	t.Helper()
	src, err := f.WriteToBuffer()
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(src.Bytes()), int64(src.Len()))
	require.NoError(t, err)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, entry := range zr.File {
		w, err := zw.Create(entry.Name)
		require.NoError(t, err)
		if entry.Name == "xl/worksheets/sheet1.xml" {
			_, err = io.WriteString(w, sheetXML)
			require.NoError(t, err)
			continue
		}
		r, err := entry.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, r)
		r.Close()
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	opened, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	t.Cleanup(func() { opened.Close() })
	return opened
}

func TestParse_ErrorCell(t *testing.T) {
	f := withSheetXML(t, excelize.NewFile(), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`+
		`<row r="1"><c r="A1" t="inlineStr"><is><t>A</t></is></c><c r="B1" t="inlineStr"><is><t>Lookup</t></is></c></row>`+
		`<row r="2"><c r="A2"><v>1</v></c><c r="B2" t="e"><v>#N/A</v></c></row>`+
		`</sheetData></worksheet>`)

	err := ParseWorkbook(f, func(map[string]any) error { return nil })
	assert.ErrorIs(t, err, ErrCellError)
	assert.Contains(t, err.Error(), "#N/A")

	err = ParseWorkbookWithoutHeader(f, func([]any) error { return nil })
	assert.ErrorIs(t, err, ErrCellError)
}

func TestParse_MissingHeaderRow(t *testing.T) {
	f := newSheetFile(t, []any{"N"}, []any{"v"})
	calls := 0
	err := ParseWorkbook(f, func(map[string]any) error {
		calls++
		return nil
	}, WithHeaderRow(50))
	assert.ErrorIs(t, err, ErrBlankHeader)
	assert.Zero(t, calls)

	_, err = f.NewSheet("Empty")
	require.NoError(t, err)
	err = ParseWorkbook(f, func(map[string]any) error { return nil }, WithSheetName("Empty"))
	assert.ErrorIs(t, err, ErrBlankHeader)
}

func TestParse_HeadersComparedAsWritten(t *testing.T) {
	f := newSheetFile(t, []any{"A", "A "}, []any{"x", "y"})
	var got map[string]any
	require.NoError(t, ParseWorkbook(f, func(row map[string]any) error {
		got = row
		return nil
	}))
	assert.Equal(t, map[string]any{"A": "x", "A ": "y"}, got)
}

func TestParse_CallbackErrorStops(t *testing.T) {
	f := newSheetFile(t, []any{"N"}, []any{1}, []any{2})
	calls := 0
	err := ParseWorkbook(f, func(map[string]any) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestParseFile(t *testing.T) {
	f := newSheetFile(t, []any{"N"}, []any{"v"})
	path := filepath.Join(t.TempDir(), "parse.xlsx")
	require.NoError(t, f.SaveAs(path))

	var rows []map[string]any
	require.NoError(t, ParseFile(path, func(row map[string]any) error {
		rows = append(rows, row)
		return nil
	}))
	assert.Equal(t, []map[string]any{{"N": "v"}}, rows)

	var raw [][]any
	require.NoError(t, ParseFileWithoutHeader(path, func(row []any) error {
		raw = append(raw, row)
		return nil
	}))
	assert.Len(t, raw, 2)

	err := ParseFile(filepath.Join(t.TempDir(), "missing.xlsx"), func(map[string]any) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }
	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.True(t, isDateFormat(46, nil))
	assert.False(t, isDateFormat(0, nil))
	assert.False(t, isDateFormat(4, nil))
	assert.False(t, isDateFormat(textNumFmt, nil))
	assert.True(t, isDateFormat(0, custom("yyyy-mm-dd")))
	assert.True(t, isDateFormat(0, custom("[h]:mm:ss")))
	assert.True(t, isDateFormat(0, custom("hh:mm")))
	assert.False(t, isDateFormat(0, custom("#,##0.00")))
	assert.False(t, isDateFormat(0, custom("[Red]#,##0")))
	assert.False(t, isDateFormat(0, custom(`0.0" days"`)))
	assert.False(t, isDateFormat(0, custom("General")))
	assert.False(t, isDateFormat(22, custom("0.00")))
}
