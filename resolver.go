package xlgen

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// styleResolver turns style declarations into excelize style ids for one
// workbook. Identical styles share an id.
type styleResolver struct {
	file    *excelize.File
	stylers *StylerRegistry
	formats DataFormatStrategy
	ids     map[string]int
}

func newStyleResolver(f *excelize.File, stylers *StylerRegistry, formats DataFormatStrategy) *styleResolver {
	return &styleResolver{
		file:    f,
		stylers: stylers,
		formats: formats,
		ids:     make(map[string]int),
	}
}

// sheetStyles holds the resolved ids of a schema.
type sheetStyles struct {
	header int
	body   []int // per column
}

// resolveSheet resolves the header style and every column's body style.
func (r *styleResolver) resolveSheet(sheet Sheet, cols []*Column) (sheetStyles, error) {
	var styles sheetStyles
	headerStyle := sheet.HeaderStyle
	if headerStyle == nil {
		headerStyle = DefaultHeaderStyle()
	}
	id, err := r.resolve(sheet.HeaderStyler, headerStyle, nil)
	if err != nil {
		return styles, fmt.Errorf("header style: %w", err)
	}
	styles.header = id

	bodyStyle := sheet.BodyStyle
	if bodyStyle == nil {
		bodyStyle = DefaultBodyStyle()
	}
	styles.body = make([]int, len(cols))
	for i, col := range cols {
		styler, style := col.styler, col.style
		if styler == "" && style == nil {
			styler, style = sheet.BodyStyler, bodyStyle
		}
		id, err := r.resolve(styler, style, col.Type)
		if err != nil {
			return styles, fmt.Errorf("column %q style: %w", col.Name, err)
		}
		styles.body[i] = id
	}
	return styles, nil
}

// resolve returns the id of the style produced by the named styler, or by
// style when styler is empty. A non-nil t selects a data format when the
// style carries none.
func (r *styleResolver) resolve(styler string, style *Style, t reflect.Type) (int, error) {
	var st *excelize.Style
	if styler != "" {
		s, err := r.stylers.Get(styler)
		if err != nil {
			return 0, err
		}
		produced, err := s.CellStyle(r.file)
		if err != nil {
			return 0, fmt.Errorf("styler %q: %w", styler, err)
		}
		// copy: the styler may hand out a shared value
		st = &excelize.Style{}
		if produced != nil {
			*st = *produced
		}
	} else {
		st = style.Excelize()
	}
	if t != nil && !hasNumFmt(st) {
		r.formats.Apply(t).apply(st)
	}
	return r.id(st)
}

func (r *styleResolver) id(st *excelize.Style) (int, error) {
	key, err := json.Marshal(st)
	if err != nil {
		return 0, fmt.Errorf("style key: %w", err)
	}
	if id, ok := r.ids[string(key)]; ok {
		return id, nil
	}
	id, err := r.file.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	r.ids[string(key)] = id
	return id, nil
}
