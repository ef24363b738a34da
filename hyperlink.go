package xlgen

import (
	"net/url"
	"strings"
)

// HyperlinkType classifies a detected link target.
type HyperlinkType int

const (
	HyperlinkNone HyperlinkType = iota
	HyperlinkURL
	HyperlinkEmail
)

func (h HyperlinkType) String() string {
	switch h {
	case HyperlinkURL:
		return "url"
	case HyperlinkEmail:
		return "email"
	default:
		return "none"
	}
}

// HyperlinkValue is a cell value that renders as a clickable link. Text
// columns holding a URL become links automatically; return a HyperlinkValue
// from a method or expression to show display text instead of the address.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Hyperlink creates a HyperlinkValue.
func Hyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}

// detectHyperlink reports whether text is a link target. Text that looks
// like a link but does not parse as a URI is not one.
func detectHyperlink(text string) (string, HyperlinkType) {
	s := strings.TrimSpace(text)
	lower := strings.ToLower(s)
	var kind HyperlinkType
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		kind = HyperlinkURL
	case strings.HasPrefix(lower, "mailto:"):
		kind = HyperlinkEmail
	default:
		return "", HyperlinkNone
	}
	if _, err := url.Parse(s); err != nil {
		return "", HyperlinkNone
	}
	return s, kind
}
