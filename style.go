package xlgen

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Style is a structured cell style declaration. Colors are RRGGBB hex
// strings, with or without a leading '#'. Border applies to all four sides.
type Style struct {
	FontName     string  `yaml:"font_name"`
	FontSize     float64 `yaml:"font_size" validate:"gte=0,lte=409"`
	FontColor    string  `yaml:"font_color" validate:"omitempty,hexadecimal|hexcolor"`
	Bold         bool    `yaml:"bold"`
	Italic       bool    `yaml:"italic"`
	Strikeout    bool    `yaml:"strikeout"`
	Underline    string  `yaml:"underline" validate:"omitempty,oneof=single double"`
	FillPattern  int     `yaml:"fill_pattern" validate:"gte=0,lte=18"`
	FillColor    string  `yaml:"fill_color" validate:"omitempty,hexadecimal|hexcolor"`
	FillBgColor  string  `yaml:"fill_bg_color" validate:"omitempty,hexadecimal|hexcolor"`
	Horizontal   string  `yaml:"horizontal" validate:"omitempty,oneof=left center right fill justify centerContinuous distributed general"`
	Vertical     string  `yaml:"vertical" validate:"omitempty,oneof=top center bottom justify distributed"`
	Border       int     `yaml:"border" validate:"gte=0,lte=13"`
	BorderColor  string  `yaml:"border_color" validate:"omitempty,hexadecimal|hexcolor"`
	ShrinkToFit  bool    `yaml:"shrink_to_fit"`
	WrapText     bool    `yaml:"wrap_text"`
	QuotePrefix  bool    `yaml:"quote_prefix"`
	Rotation     int     `yaml:"rotation" validate:"gte=0,lte=255"`
	NumberFormat string  `yaml:"number_format"`
}

// textNumFmt is the built-in "@" format.
const textNumFmt = 49

var borderSides = [...]string{"left", "top", "right", "bottom"}

// Excelize converts the declaration to an excelize style.
func (s *Style) Excelize() *excelize.Style {
	st := &excelize.Style{}
	if s == nil {
		return st
	}
	st.Font = &excelize.Font{
		Family:    s.FontName,
		Size:      s.FontSize,
		Color:     trimColor(s.FontColor),
		Bold:      s.Bold,
		Italic:    s.Italic,
		Strike:    s.Strikeout,
		Underline: s.Underline,
	}
	if s.FillPattern > 0 {
		// excelize pattern fills carry a single color
		color := trimColor(s.FillColor)
		if color == "" {
			color = trimColor(s.FillBgColor)
		}
		st.Fill = excelize.Fill{Type: "pattern", Pattern: s.FillPattern}
		if color != "" {
			st.Fill.Color = []string{color}
		}
	}
	if s.Horizontal != "" || s.Vertical != "" || s.ShrinkToFit || s.WrapText || s.Rotation != 0 {
		st.Alignment = &excelize.Alignment{
			Horizontal:   s.Horizontal,
			Vertical:     s.Vertical,
			ShrinkToFit:  s.ShrinkToFit,
			WrapText:     s.WrapText,
			TextRotation: s.Rotation,
		}
	}
	if s.Border > 0 {
		color := trimColor(s.BorderColor)
		if color == "" {
			color = "000000"
		}
		for _, side := range borderSides {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: color, Style: s.Border})
		}
	}
	switch {
	case s.NumberFormat != "":
		format := s.NumberFormat
		st.CustomNumFmt = &format
	case s.QuotePrefix:
		// excelize has no quote-prefix flag; the text format has the same effect on entry
		st.NumFmt = textNumFmt
	}
	return st
}

func trimColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}

// hasNumFmt reports whether a number format was ever assigned.
func hasNumFmt(st *excelize.Style) bool {
	return st.NumFmt != 0 || (st.CustomNumFmt != nil && *st.CustomNumFmt != "")
}

// DefaultHeaderStyle is used when the sheet declares no header style.
func DefaultHeaderStyle() *Style {
	return &Style{
		Bold:        true,
		Horizontal:  "center",
		Vertical:    "center",
		Border:      1,
		FillPattern: 1,
		FillColor:   "D9D9D9",
	}
}

// DefaultBodyStyle is used when the sheet declares no body style.
func DefaultBodyStyle() *Style {
	return &Style{
		Horizontal: "right",
		Vertical:   "center",
		Border:     1,
	}
}
