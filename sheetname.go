package xlgen

import (
	"strconv"
	"strings"
)

// maxSheetNameLen is the Excel limit on sheet name length, in characters.
const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_",
)

// SafeSheetName sanitizes a string for use as an Excel sheet name.
// It replaces forbidden characters ([]*?/\:) with underscore, strips
// leading and trailing apostrophes and truncates to 31 characters.
func SafeSheetName(name string) string {
	name = strings.Trim(sheetNameReplacer.Replace(name), "'")
	if strings.TrimSpace(name) == "" {
		return defaultSheetName
	}
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	return string(runes)
}

// chunkSheetName names the n-th continuation sheet of base, e.g.
// "Orders_2". The base is shortened so the suffix always survives.
func chunkSheetName(base string, n int) string {
	suffix := "_" + strconv.Itoa(n)
	runes := []rune(SafeSheetName(base))
	if limit := maxSheetNameLen - len(suffix); len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + suffix
}
