package xlgen

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Engine selects how the workbook is backed while rows are added.
type Engine int

const (
	// EngineStream writes rows through an excelize StreamWriter. Only a window
	// of rows is kept in memory per sheet. This is the default.
	EngineStream Engine = iota
	// EngineMemory keeps the whole workbook in memory.
	EngineMemory
	// EngineLegacy selects the BIFF8 (.xls) container. It answers the format
	// queries but cannot back a generator.
	EngineLegacy
)

const legacyMaxRows = 65536

const (
	mediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mediaTypeXLS  = "application/vnd.ms-excel"
)

// String returns the engine name.
func (e Engine) String() string {
	switch e {
	case EngineStream:
		return "stream"
	case EngineMemory:
		return "memory"
	case EngineLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

// FileExtension returns the file extension without the leading dot.
func (e Engine) FileExtension() string {
	if e == EngineLegacy {
		return "xls"
	}
	return "xlsx"
}

// MediaType returns the MIME type of the files produced by the engine.
func (e Engine) MediaType() string {
	if e == EngineLegacy {
		return mediaTypeXLS
	}
	return mediaTypeXLSX
}

// MaxRows returns the maximum number of rows in one sheet, header included.
func (e Engine) MaxRows() int {
	if e == EngineLegacy {
		return legacyMaxRows
	}
	return excelize.TotalRows
}

func (e Engine) check() error {
	switch e {
	case EngineStream, EngineMemory:
		return nil
	case EngineLegacy:
		return fmt.Errorf("%w: %s (.xls output is not supported by excelize)", ErrUnsupportedEngine, e)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEngine, e)
	}
}
