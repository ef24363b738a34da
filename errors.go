package xlgen

import "errors"

// Configuration errors are returned by generator constructors.
var (
	ErrMissingSheet      = errors.New("record type has no sheet declaration")
	ErrNotStruct         = errors.New("record type is not a struct")
	ErrNoColumns         = errors.New("record type has no exported columns")
	ErrInvalidSheet      = errors.New("invalid sheet declaration")
	ErrInvalidTag        = errors.New("invalid struct tag")
	ErrInvalidMethod     = errors.New("invalid method column")
	ErrUnknownStyler     = errors.New("unknown styler")
	ErrUnsupportedEngine = errors.New("engine cannot write workbooks")
)

// Malformed-input errors are returned by the parser.
var (
	ErrBlankHeader     = errors.New("blank header name")
	ErrDuplicateHeader = errors.New("duplicate header name")
	ErrCellError       = errors.New("cell holds an error value")
	ErrNestedFormula   = errors.New("formula result is itself a formula")
	ErrSheetNotFound   = errors.New("sheet not found")
)

// Lifecycle errors.
var (
	ErrClosed    = errors.New("generator is closed")
	ErrNilRecord = errors.New("nil record")
)
