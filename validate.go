package xlgen

import (
	"fmt"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Generation or parsing will fail
	SeverityWarning                 // Output may not be what was intended
)

// ValidationIssue represents a single problem found in a declaration.
type ValidationIssue struct {
	Severity Severity
	Column   string // resolved column name, empty for sheet-level issues
	Message  string
}

// String formats the issue as "[ERROR] Name: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	if v.Column == "" {
		return fmt.Sprintf("[%s] %s", sev, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Column, v.Message)
}

// Validate checks the declaration of record type T without creating a
// workbook. A non-nil error means no generator can be built for T at all;
// softer problems are returned as issues.
func Validate[T any](opts ...Option) ([]ValidationIssue, error) {
	o := buildOptions(opts)
	if err := o.engine.check(); err != nil {
		return nil, err
	}
	sc, err := reflectSchema(reflect.TypeOf((*T)(nil)).Elem(), o.sheet)
	if err != nil {
		return nil, err
	}

	var issues []ValidationIssue
	issues = append(issues, validateNames(sc.columns)...)
	issues = append(issues, validateFieldOrder(sc.sheet, sc.columns)...)
	issues = append(issues, validateStylers(sc.sheet, sc.columns, o.stylers)...)
	issues = append(issues, validateWidths(sc.columns)...)
	return issues, nil
}

// validateNames flags duplicate headers: the parser rejects them.
func validateNames(cols []*Column) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if seen[col.Name] {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Column:   col.Name,
				Message:  fmt.Sprintf("duplicate column name (from %s %s)", col.access, col.Member),
			})
		}
		seen[col.Name] = true
	}
	return issues
}

// validateFieldOrder flags FieldOrder entries that match no column.
func validateFieldOrder(sheet Sheet, cols []*Column) []ValidationIssue {
	var issues []ValidationIssue
	for _, name := range sheet.FieldOrder {
		found := false
		for _, col := range cols {
			if col.Name == name || col.Member == name {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("field order entry %q matches no column", name),
			})
		}
	}
	return issues
}

// validateStylers flags styler names missing from the registry.
func validateStylers(sheet Sheet, cols []*Column, stylers *StylerRegistry) []ValidationIssue {
	registered := make(map[string]bool)
	for _, name := range stylers.Names() {
		registered[name] = true
	}
	var issues []ValidationIssue
	check := func(column, name string) {
		if name != "" && !registered[name] {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Column:   column,
				Message:  fmt.Sprintf("styler %q is not registered", name),
			})
		}
	}
	check("", sheet.HeaderStyler)
	check("", sheet.BodyStyler)
	for _, col := range cols {
		check(col.Name, col.styler)
	}
	return issues
}

// validateWidths flags widths excelize will refuse.
func validateWidths(cols []*Column) []ValidationIssue {
	var issues []ValidationIssue
	for _, col := range cols {
		if col.Width > excelize.MaxColumnWidth {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Column:   col.Name,
				Message:  fmt.Sprintf("width %g exceeds the maximum of %d", col.Width, excelize.MaxColumnWidth),
			})
		}
		if col.AutoSize && col.Kind == KindRichText {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Column:   col.Name,
				Message:  "auto-size measures rich text without its formatting",
			})
		}
	}
	return issues
}
