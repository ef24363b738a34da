package xlgen

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Sheeter is implemented by record types that can back a generator. The
// returned Sheet is the sheet-level declaration of the type; it is read once,
// from the zero value, when a generator is built.
type Sheeter interface {
	Sheet() Sheet
}

// SortMode controls column ordering when Sheet.FieldOrder is empty.
type SortMode int

const (
	SortNone  SortMode = iota // declaration order
	SortName                  // by resolved column name
	SortOrder                 // by the column's order value
)

// String returns the lower-case mode name.
func (m SortMode) String() string {
	switch m {
	case SortNone:
		return "none"
	case SortName:
		return "name"
	case SortOrder:
		return "order"
	default:
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
}

// UnmarshalText parses "none", "name" or "order".
func (m *SortMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "none":
		*m = SortNone
	case "name":
		*m = SortName
	case "order":
		*m = SortOrder
	default:
		return fmt.Errorf("unknown sort mode %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m SortMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Sheet describes how a record type is laid out in a worksheet.
type Sheet struct {
	Name             string   `yaml:"name" validate:"max=31"`
	ColumnWidth      float64  `yaml:"column_width" validate:"gte=0,lte=255"`
	RowHeight        float64  `yaml:"row_height" validate:"gte=0,lte=409"`
	FreezeHeaderPane bool     `yaml:"freeze_header_pane"`
	FieldOrder       []string `yaml:"field_order" validate:"unique,dive,required"`
	FieldSort        SortMode `yaml:"field_sort" validate:"gte=0,lte=2"`

	HeaderStyle  *Style `yaml:"header_style"`
	HeaderStyler string `yaml:"header_styler"`
	BodyStyle    *Style `yaml:"body_style"`
	BodyStyler   string `yaml:"body_styler"`

	Methods     []MethodColumn `yaml:"methods" validate:"dive"`
	Expressions []ExprColumn   `yaml:"expressions" validate:"dive"`
}

// ColumnOptions are the per-column settings shared by every column source.
type ColumnOptions struct {
	Name     string  `yaml:"name"`
	Order    int     `yaml:"order"`
	Width    float64 `yaml:"width" validate:"gte=0,lte=255"`
	AutoSize bool    `yaml:"auto_size"`
	Style    *Style  `yaml:"style"`
	Styler   string  `yaml:"styler"`
}

// MethodColumn exports the result of a method that takes no arguments and
// returns a single value.
type MethodColumn struct {
	Method        string `yaml:"method" validate:"required"`
	ColumnOptions `yaml:",inline"`
}

// ExprColumn exports the result of an expr-lang expression evaluated
// against the record, e.g. "Salary * 12".
type ExprColumn struct {
	Expr          string `yaml:"expr" validate:"required"`
	ColumnOptions `yaml:",inline"`
}

const (
	defaultSheetName   = "Sheet"
	defaultColumnWidth = 8
	defaultRowHeight   = 15
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// withDefaults fills zero values.
func (s Sheet) withDefaults() Sheet {
	if strings.TrimSpace(s.Name) == "" {
		s.Name = defaultSheetName
	}
	if s.ColumnWidth == 0 {
		s.ColumnWidth = defaultColumnWidth
	}
	if s.RowHeight == 0 {
		s.RowHeight = defaultRowHeight
	}
	return s
}

// Validate checks the declaration.
func (s Sheet) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	return nil
}

// ParseSheetYAML decodes a sheet declaration from YAML.
func ParseSheetYAML(data []byte) (Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sheet{}, fmt.Errorf("decode sheet yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Sheet{}, err
	}
	return s, nil
}

// LoadSheetYAML reads a sheet declaration from a YAML file.
func LoadSheetYAML(path string) (Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet yaml %q: %w", path, err)
	}
	return ParseSheetYAML(data)
}
