package xlgen

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/expr-lang/expr"
)

var (
	sheeterType = reflect.TypeOf((*Sheeter)(nil)).Elem()
	anyType     = reflect.TypeOf((*any)(nil)).Elem()
)

// schema is the reflected layout of a record type.
type schema struct {
	typ     reflect.Type // struct type, never a pointer
	ptr     bool         // records are passed as *typ
	sheet   Sheet
	columns []*Column
}

// reflectSchema builds the schema of record type t. override, when
// non-nil, replaces the type's own sheet declaration.
func reflectSchema(t reflect.Type, override *Sheet) (*schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotStruct)
	}
	s := &schema{typ: t}
	if t.Kind() == reflect.Pointer {
		s.typ, s.ptr = t.Elem(), true
	}
	if s.typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	switch {
	case override != nil:
		s.sheet = *override
	case reflect.PointerTo(s.typ).Implements(sheeterType):
		s.sheet = reflect.New(s.typ).Interface().(Sheeter).Sheet()
	default:
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, s.typ)
	}
	if err := s.sheet.Validate(); err != nil {
		return nil, err
	}
	s.sheet = s.sheet.withDefaults()

	cols, err := reflectColumns(s.typ, s.sheet)
	if err != nil {
		return nil, err
	}
	s.columns = cols
	return s, nil
}

// reflectColumns discovers the columns of struct type t and orders them.
func reflectColumns(t reflect.Type, sheet Sheet) ([]*Column, error) {
	var cols []*Column
	if err := collectFields(t, nil, &cols); err != nil {
		return nil, err
	}

	methods := append([]MethodColumn(nil), sheet.Methods...)
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Method < methods[j].Method })
	for _, m := range methods {
		col, err := methodColumn(t, m)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	for _, e := range sheet.Expressions {
		col, err := exprColumn(t, e)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, t)
	}
	for i, col := range cols {
		col.declared = i
		if col.Width == 0 {
			col.Width = sheet.ColumnWidth
		}
	}
	orderColumns(cols, sheet)
	return cols, nil
}

// collectFields appends the tagged fields of t, own fields first, then the
// fields of embedded structs in declaration order.
func collectFields(t reflect.Type, prefix []int, cols *[]*Column) error {
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(tagColumn)
		if tag == "-" {
			continue
		}
		if f.Anonymous && !tagged {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				embedded = append(embedded, f)
			}
			continue
		}
		if !tagged || !f.IsExported() {
			continue
		}
		opts, err := parseColumnTag(tag)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
		}
		if s, ok := f.Tag.Lookup(tagStyle); ok {
			if opts.Style, err = parseStyleTag(s); err != nil {
				return fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
			}
		}
		opts.Styler = f.Tag.Get(tagStyler)

		col := newColumn(f.Name, f.Type, opts)
		col.access = accessField
		col.index = append(append([]int(nil), prefix...), i)
		*cols = append(*cols, col)
	}
	for _, f := range embedded {
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if err := collectFields(ft, append(append([]int(nil), prefix...), f.Index...), cols); err != nil {
			return err
		}
	}
	return nil
}

func methodColumn(t reflect.Type, mc MethodColumn) (*Column, error) {
	m, ok := reflect.PointerTo(t).MethodByName(mc.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrInvalidMethod, t, mc.Method)
	}
	// the receiver is the first input
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return nil, fmt.Errorf("%w: %s.%s must take no arguments and return one value", ErrInvalidMethod, t, mc.Method)
	}
	col := newColumn(m.Name, m.Type.Out(0), mc.ColumnOptions)
	col.access = accessMethod
	col.method = m
	col.embed = promotionPath(t, m.Name)
	return col, nil
}

// promotionPath returns the index path of the embedded field that provides
// method name, or nil when no embedded field has it.
func promotionPath(t reflect.Type, name string) []int {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		methods := reflect.PointerTo(ft)
		if ft.Kind() == reflect.Interface {
			methods = ft
		}
		if _, ok := methods.MethodByName(name); !ok {
			continue
		}
		if ft.Kind() == reflect.Struct {
			if sub := promotionPath(ft, name); sub != nil {
				return append([]int{i}, sub...)
			}
		}
		return []int{i}
	}
	return nil
}

func exprColumn(t reflect.Type, ec ExprColumn) (*Column, error) {
	program, err := expr.Compile(ec.Expr, expr.Env(reflect.New(t).Elem().Interface()))
	if err != nil {
		return nil, fmt.Errorf("%w: compile expression %q: %v", ErrInvalidSheet, ec.Expr, err)
	}
	col := newColumn(ec.Expr, anyType, ec.ColumnOptions)
	col.access = accessExpr
	col.program = program
	return col, nil
}

func newColumn(member string, t reflect.Type, opts ColumnOptions) *Column {
	name := opts.Name
	if name == "" {
		name = member
	}
	return &Column{
		Name:     name,
		Member:   member,
		Order:    opts.Order,
		Width:    opts.Width,
		AutoSize: opts.AutoSize,
		Kind:     kindOf(t),
		Type:     t,
		style:    opts.Style,
		styler:   opts.Styler,
	}
}

// orderColumns sorts cols in place. A non-empty FieldOrder wins over
// FieldSort; names missing from it go last in declaration order.
func orderColumns(cols []*Column, sheet Sheet) {
	if len(sheet.FieldOrder) > 0 {
		pos := make(map[string]int, len(sheet.FieldOrder))
		for i, name := range sheet.FieldOrder {
			pos[name] = i
		}
		rank := func(c *Column) int {
			if p, ok := pos[c.Name]; ok {
				return p
			}
			if p, ok := pos[c.Member]; ok {
				return p
			}
			return len(pos)
		}
		sort.SliceStable(cols, func(i, j int) bool { return rank(cols[i]) < rank(cols[j]) })
		return
	}
	switch sheet.FieldSort {
	case SortName:
		sort.SliceStable(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	case SortOrder:
		sort.SliceStable(cols, func(i, j int) bool { return cols[i].Order < cols[j].Order })
	}
}
