package xlgen

import (
	"fmt"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/xuri/excelize/v2"
)

// ValueKind is the coercion applied to a column's values. It is resolved
// once per column from the declared type.
type ValueKind int

const (
	KindText     ValueKind = iota // fmt representation, hyperlinks detected
	KindNumber                    // native numeric cell
	KindBool                      // native boolean cell
	KindDate                      // civil.Date
	KindDateTime                  // time.Time, civil.DateTime
	KindTime                      // civil.Time
	KindRichText                  // []excelize.RichTextRun
	KindEnum                      // named integer type implementing fmt.Stringer
	KindAuto                      // interface-typed source, resolved per value
)

// String returns a human-readable name for the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindBool:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindDateTime:
		return "DateTime"
	case KindTime:
		return "Time"
	case KindRichText:
		return "RichText"
	case KindEnum:
		return "Enum"
	case KindAuto:
		return "Auto"
	default:
		return "Unknown"
	}
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	civilDateType     = reflect.TypeOf(civil.Date{})
	civilDateTimeType = reflect.TypeOf(civil.DateTime{})
	civilTimeType     = reflect.TypeOf(civil.Time{})
	richTextType      = reflect.TypeOf([]excelize.RichTextRun(nil))
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// kindOf maps a declared type to its value kind. Named integer types with a
// String method are enums: they export their name, not their number.
func kindOf(t reflect.Type) ValueKind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType, civilDateTimeType:
		return KindDateTime
	case civilDateType:
		return KindDate
	case civilTimeType:
		return KindTime
	case richTextType:
		return KindRichText
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t.Implements(stringerType) || reflect.PointerTo(t).Implements(stringerType) {
			return KindEnum
		}
		return KindNumber
	case reflect.Uintptr:
		return KindText
	case reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Bool:
		return KindBool
	case reflect.Interface:
		return KindAuto
	default:
		return KindText
	}
}

// accessorKind tells where a column reads its value from.
type accessorKind int

const (
	accessField accessorKind = iota
	accessMethod
	accessExpr
)

func (a accessorKind) String() string {
	switch a {
	case accessField:
		return "field"
	case accessMethod:
		return "method"
	default:
		return "expr"
	}
}

// Column describes one exported value source of a record type.
type Column struct {
	Name     string       // resolved header text
	Member   string       // Go field or method name, or the expression
	Order    int          // declared order
	Width    float64      // width in characters
	AutoSize bool         // measure the width on finalize
	Kind     ValueKind    // coercion applied to values
	Type     reflect.Type // declared value type

	style  *Style
	styler string

	access   accessorKind
	index    []int
	method   reflect.Method
	embed    []int // embedded field a promoted method comes from
	program  *vm.Program
	declared int
}

// StyleKey returns the key of the column's resolved style.
func (c *Column) StyleKey() string {
	return c.Name + "Style"
}

// value reads the column from an addressable struct value.
func (c *Column) value(rv reflect.Value) (any, error) {
	switch c.access {
	case accessField:
		fv, err := rv.FieldByIndexErr(c.index)
		if err != nil {
			// nil embedded pointer
			return nil, nil
		}
		return fv.Interface(), nil
	case accessMethod:
		return c.call(rv)
	case accessExpr:
		v, err := expr.Run(c.program, rv.Interface())
		if err != nil {
			return nil, fmt.Errorf("evaluate column %q: %w", c.Name, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("column %q has no accessor", c.Name)
	}
}

// call invokes a method column. A method promoted through a nil embedded
// pointer or interface yields a blank cell, like a field behind one.
func (c *Column) call(rv reflect.Value) (v any, err error) {
	if c.embedNil(rv) {
		defer func() {
			if recover() != nil {
				v, err = nil, nil
			}
		}()
	}
	out := c.method.Func.Call([]reflect.Value{rv.Addr()})
	return out[0].Interface(), nil
}

func (c *Column) embedNil(rv reflect.Value) bool {
	if len(c.embed) == 0 {
		return false
	}
	ev, err := rv.FieldByIndexErr(c.embed)
	if err != nil {
		return true
	}
	switch ev.Kind() {
	case reflect.Pointer, reflect.Interface:
		return ev.IsNil()
	}
	return false
}
