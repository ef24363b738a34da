package xlgen

import "strings"

// builtInNumFmt lists the built-in number formats that are not locale
// dependent.
var builtInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// isDateFormat reports whether a number format renders numbers as dates or
// times. A custom pattern wins over the built-in id.
func isDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDatePattern(*custom)
	}
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDatePattern scans a format pattern for date or time tokens outside of
// quoted literals, escapes and bracketed colors or conditions.
func isDatePattern(pattern string) bool {
	p := strings.ToLower(pattern)
	if p == "general" || p == "@" {
		return false
	}
	for i := 0; i < len(p); i++ {
		switch c := p[i]; c {
		case '"':
			end := strings.IndexByte(p[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(p[i+1:], ']')
			if end < 0 {
				return false
			}
			// elapsed time: [h], [mm], [ss]
			if inner := p[i+1 : i+1+end]; inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end + 1
		case 'y', 'm', 'd', 'h', 's':
			return true
		case ';':
			// only the first (positive) section decides
			return false
		}
	}
	return false
}
