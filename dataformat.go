package xlgen

import (
	"reflect"

	"github.com/xuri/excelize/v2"
)

// DataFormat is a cell number format: a built-in id or a custom pattern.
// The zero value means "no format".
type DataFormat struct {
	ID      int
	Pattern string
}

// IsZero reports whether f carries no format.
func (f DataFormat) IsZero() bool {
	return f.ID == 0 && f.Pattern == ""
}

func (f DataFormat) String() string {
	if f.Pattern != "" {
		return f.Pattern
	}
	if f.ID == textNumFmt {
		return "@"
	}
	if f.ID == 0 {
		return "General"
	}
	return builtInNumFmt[f.ID]
}

// DataFormatStrategy picks a number format for a column's declared type.
// It is consulted only for columns whose style has no number format.
type DataFormatStrategy interface {
	Apply(t reflect.Type) DataFormat
}

// DataFormatFunc adapts a function to DataFormatStrategy.
type DataFormatFunc func(t reflect.Type) DataFormat

// Apply calls fn(t).
func (fn DataFormatFunc) Apply(t reflect.Type) DataFormat {
	return fn(t)
}

// Formats used by the default strategy.
var (
	FormatInteger  = DataFormat{Pattern: "#,##0"}
	FormatDecimal  = DataFormat{Pattern: "#,##0.00"}
	FormatDateTime = DataFormat{Pattern: "yyyy-mm-dd hh:mm:ss"}
	FormatDate     = DataFormat{Pattern: "yyyy-mm-dd"}
	FormatTime     = DataFormat{Pattern: "hh:mm:ss"}
	FormatText     = DataFormat{ID: textNumFmt}
)

type defaultDataFormat struct{}

// DefaultDataFormat returns the strategy used when none is configured.
// Integers get "#,##0", floats "#,##0.00", temporal types an ISO-like
// pattern, booleans stay General and everything else is text.
func DefaultDataFormat() DataFormatStrategy {
	return defaultDataFormat{}
}

func (defaultDataFormat) Apply(t reflect.Type) DataFormat {
	if t == nil {
		return DataFormat{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch kindOf(t) {
	case KindNumber:
		switch t.Kind() {
		case reflect.Float32, reflect.Float64:
			return FormatDecimal
		default:
			return FormatInteger
		}
	case KindDateTime:
		return FormatDateTime
	case KindDate:
		return FormatDate
	case KindTime:
		return FormatTime
	case KindBool, KindAuto:
		return DataFormat{}
	default:
		return FormatText
	}
}

type emptyDataFormat struct{}

// EmptyDataFormat returns a strategy that never assigns a format.
func EmptyDataFormat() DataFormatStrategy {
	return emptyDataFormat{}
}

func (emptyDataFormat) Apply(reflect.Type) DataFormat {
	return DataFormat{}
}

// apply writes f into st.
func (f DataFormat) apply(st *excelize.Style) {
	if f.Pattern != "" {
		p := f.Pattern
		st.CustomNumFmt = &p
		return
	}
	st.NumFmt = f.ID
}
