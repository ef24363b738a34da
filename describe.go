package xlgen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Describe reflects record type T and returns a human-readable summary of
// the sheet layout: sheet settings and every column in output order with
// its source, kind, width and format. Useful for checking declarations
// during development; no workbook is created.
func Describe[T any](opts ...Option) (string, error) {
	o := buildOptions(opts)
	sc, err := reflectSchema(reflect.TypeOf((*T)(nil)).Elem(), o.sheet)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s (%s, %s)\n", sc.sheet.Name, o.engine, o.engine.FileExtension())
	fmt.Fprintf(&b, "  Defaults: column width %g, row height %g", sc.sheet.ColumnWidth, sc.sheet.RowHeight)
	if sc.sheet.FreezeHeaderPane {
		b.WriteString(", freeze header")
	}
	b.WriteByte('\n')
	if len(sc.sheet.FieldOrder) > 0 {
		fmt.Fprintf(&b, "  Order: field order %s\n", strings.Join(sc.sheet.FieldOrder, ", "))
	} else {
		fmt.Fprintf(&b, "  Order: %s\n", sc.sheet.FieldSort)
	}

	b.WriteString("  Columns:\n")
	for i, col := range sc.columns {
		letter, _ := excelize.ColumnNumberToName(i + 1)
		fmt.Fprintf(&b, "    %s %s: %s %s, %s, width %g", letter, col.Name, col.access, col.Member, col.Kind, col.Width)
		if col.AutoSize {
			b.WriteString(" autosize")
		}
		b.WriteString(describeColumnStyle(col, o.dataFormat))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func describeColumnStyle(col *Column, formats DataFormatStrategy) string {
	var parts []string
	switch {
	case col.styler != "":
		parts = append(parts, fmt.Sprintf("styler=%q", col.styler))
	case col.style != nil:
		parts = append(parts, "style")
	}
	if col.styler == "" {
		if col.style != nil && col.style.NumberFormat != "" {
			parts = append(parts, fmt.Sprintf("format=%q", col.style.NumberFormat))
		} else if f := formats.Apply(col.Type); !f.IsZero() {
			parts = append(parts, fmt.Sprintf("format=%q", f))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
