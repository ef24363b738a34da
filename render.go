package xlgen

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	secondsPerDay  = 24 * 60 * 60
)

// cellLink is a hyperlink attached to a rendered cell.
type cellLink struct {
	col    int
	target string
	kind   HyperlinkType
}

// renderedRow is one row ready for the workbook: a cell per column, the
// text used to measure each cell, and any hyperlinks.
type renderedRow struct {
	cells []excelize.Cell
	texts []string
	links []cellLink
}

// renderer turns records of one schema into rows.
type renderer struct {
	schema *schema
	styles sheetStyles
}

// header renders the header row.
func (r *renderer) header() renderedRow {
	row := renderedRow{
		cells: make([]excelize.Cell, len(r.schema.columns)),
		texts: make([]string, len(r.schema.columns)),
	}
	for i, col := range r.schema.columns {
		row.cells[i] = excelize.Cell{StyleID: r.styles.header, Value: col.Name}
		row.texts[i] = col.Name
	}
	return row
}

// body renders one record.
func (r *renderer) body(record any) (renderedRow, error) {
	rv, err := r.recordValue(record)
	if err != nil {
		return renderedRow{}, err
	}
	row := renderedRow{
		cells: make([]excelize.Cell, len(r.schema.columns)),
		texts: make([]string, len(r.schema.columns)),
	}
	for i, col := range r.schema.columns {
		v, err := col.value(rv)
		if err != nil {
			return renderedRow{}, err
		}
		value, text, link := coerce(col.Kind, v)
		row.cells[i] = excelize.Cell{StyleID: r.styles.body[i], Value: value}
		row.texts[i] = text
		if link.kind != HyperlinkNone {
			link.col = i
			row.links = append(row.links, link)
		}
	}
	return row, nil
}

// recordValue returns an addressable struct value for record so pointer
// receiver methods can be called.
func (r *renderer) recordValue(record any) (reflect.Value, error) {
	rv := reflect.ValueOf(record)
	if !rv.IsValid() {
		return reflect.Value{}, ErrNilRecord
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, ErrNilRecord
		}
		rv = rv.Elem()
	}
	if rv.Type() != r.schema.typ {
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrNotStruct, rv.Type(), r.schema.typ)
	}
	if !rv.CanAddr() {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}
	return rv, nil
}

// coerce converts a column value into an excelize cell value according to
// kind. It also returns the display text and a detected hyperlink.
func coerce(kind ValueKind, v any) (any, string, cellLink) {
	var none cellLink
	if h, ok := v.(HyperlinkValue); ok {
		target, lk := detectHyperlink(h.URL)
		return h.String(), h.String(), cellLink{target: target, kind: lk}
	}
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return "", "", none
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "", "", none
	}
	if kind == KindAuto {
		kind = kindOf(rv.Type())
		if kind == KindAuto {
			kind = KindText
		}
	}

	switch kind {
	case KindNumber:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := rv.Int()
			return n, strconv.FormatInt(n, 10), none
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := rv.Uint()
			return n, strconv.FormatUint(n, 10), none
		case reflect.Float32, reflect.Float64:
			n := rv.Float()
			return n, strconv.FormatFloat(n, 'f', -1, 64), none
		}
	case KindBool:
		b := rv.Bool()
		return b, strings.ToUpper(strconv.FormatBool(b)), none
	case KindDate:
		d := rv.Interface().(civil.Date)
		if d == (civil.Date{}) {
			return "", "", none
		}
		return d.In(time.UTC), d.String(), none
	case KindDateTime:
		var t time.Time
		switch x := rv.Interface().(type) {
		case time.Time:
			t = x
		case civil.DateTime:
			if x != (civil.DateTime{}) {
				t = x.In(time.UTC)
			}
		}
		if t.IsZero() {
			return "", "", none
		}
		return t, t.Format(dateTimeLayout), none
	case KindTime:
		ct := rv.Interface().(civil.Time)
		secs := float64(ct.Hour*3600+ct.Minute*60+ct.Second) + float64(ct.Nanosecond)/1e9
		return secs / secondsPerDay, ct.String(), none
	case KindRichText:
		runs := rv.Interface().([]excelize.RichTextRun)
		var b strings.Builder
		for _, run := range runs {
			b.WriteString(run.Text)
		}
		return runs, b.String(), none
	case KindEnum:
		s := enumString(rv)
		return s, s, none
	}

	s := fmt.Sprint(rv.Interface())
	if strings.TrimSpace(s) == "" {
		return "", "", none
	}
	target, lk := detectHyperlink(s)
	return s, s, cellLink{target: target, kind: lk}
}

// enumString calls String on rv, taking its address when String has a
// pointer receiver.
func enumString(rv reflect.Value) string {
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.Interface().(fmt.Stringer).String()
}
