package xlgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Struct tags read by the reflector.
const (
	tagColumn = "xlsx"     // `xlsx:"Name,order=1,width=20,autosize"`
	tagStyle  = "xlstyle"  // `xlstyle:"bold;color=FF0000;align=center;format=0.00"`
	tagStyler = "xlstyler" // `xlstyler:"money"`
)

// parseColumnTag parses an xlsx tag. The first element is the column name
// and may be empty.
func parseColumnTag(tag string) (ColumnOptions, error) {
	parts := strings.Split(tag, ",")
	opts := ColumnOptions{Name: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "":
			continue
		case "order":
			n, err := strconv.Atoi(val)
			if err != nil {
				return opts, fmt.Errorf("%w: order %q: %v", ErrInvalidTag, val, err)
			}
			opts.Order = n
		case "width":
			w, err := strconv.ParseFloat(val, 64)
			if err != nil || w < 0 {
				return opts, fmt.Errorf("%w: width %q", ErrInvalidTag, val)
			}
			opts.Width = w
		case "autosize":
			opts.AutoSize = val == "" || val == "true"
		default:
			return opts, fmt.Errorf("%w: unknown xlsx option %q", ErrInvalidTag, key)
		}
	}
	return opts, nil
}

// parseStyleTag parses an xlstyle tag: ';' separated flags and key=value
// pairs. "format=" must come last since number formats may contain ';'.
func parseStyleTag(tag string) (*Style, error) {
	s := &Style{}
	rest := tag
	for rest != "" {
		var item string
		if strings.HasPrefix(strings.TrimSpace(rest), "format=") {
			item, rest = strings.TrimSpace(rest), ""
		} else {
			item, rest, _ = strings.Cut(rest, ";")
			item = strings.TrimSpace(item)
		}
		if item == "" {
			continue
		}
		key, val, _ := strings.Cut(item, "=")
		if err := s.set(key, val); err != nil {
			return nil, fmt.Errorf("%w: xlstyle %q: %v", ErrInvalidTag, item, err)
		}
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("%w: xlstyle %q: %v", ErrInvalidTag, tag, err)
	}
	return s, nil
}

func (s *Style) set(key, val string) error {
	var err error
	switch key {
	case "font":
		s.FontName = val
	case "size":
		s.FontSize, err = strconv.ParseFloat(val, 64)
	case "color":
		s.FontColor = val
	case "bold":
		s.Bold = true
	case "italic":
		s.Italic = true
	case "strike":
		s.Strikeout = true
	case "underline":
		s.Underline = val
		if val == "" {
			s.Underline = "single"
		}
	case "fill":
		s.FillPattern, err = strconv.Atoi(val)
	case "fg":
		s.FillColor = val
		if s.FillPattern == 0 {
			s.FillPattern = 1
		}
	case "bg":
		s.FillBgColor = val
	case "align":
		s.Horizontal = val
	case "valign":
		s.Vertical = val
	case "border":
		s.Border, err = strconv.Atoi(val)
	case "bordercolor":
		s.BorderColor = val
	case "shrink":
		s.ShrinkToFit = true
	case "wrap":
		s.WrapText = true
	case "quote":
		s.QuotePrefix = true
	case "rotation":
		s.Rotation, err = strconv.Atoi(val)
	case "format":
		s.NumberFormat = val
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return err
}
