package css

import (
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.TrimSpace(strings.ToLower(property))
		value = strings.TrimSpace(value)
		if property == "" || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

// expandShorthand stores property, splitting the shorthands the layout
// reads into their longhands.
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "font":
		// font: [weight] <size>[/<line-height>] <family>
		for _, part := range strings.Fields(value) {
			size, lineHeight, hasLH := strings.Cut(part, "/")
			if isFontSize(size) {
				style.Set("font-size", size)
				if hasLH {
					style.Set("line-height", lineHeight)
				}
			}
		}
	default:
		style.Set(property, value)
	}
}

func isFontSize(v string) bool {
	if _, ok := fontSizeKeywords[v]; ok {
		return true
	}
	_, ok := ParseLength(v)
	return ok
}

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value. The initial value is inline; block
// elements get display:block from the user-agent sheet. Values this engine
// has no formatting context for (list-item, flex, table...) lay out as
// block.
func (s *Style) GetDisplay() DisplayType {
	display, ok := s.Get("display")
	if !ok {
		return DisplayInline
	}
	switch strings.ToLower(strings.TrimSpace(display)) {
	case "inline":
		return DisplayInline
	case "inline-block", "inline-flex", "inline-table":
		return DisplayInlineBlock
	case "none":
		return DisplayNone
	}
	return DisplayBlock
}

// DefaultFontSize is the medium font size in pixels.
const DefaultFontSize = 16.0

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   DefaultFontSize,
	"large":    18,
	"x-large":  2 * DefaultFontSize,
	"xx-large": 3 * DefaultFontSize,
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	val, ok := s.Get("font-size")
	if !ok {
		return DefaultFontSize
	}
	if size, ok := fontSizeKeywords[strings.ToLower(strings.TrimSpace(val))]; ok {
		return size
	}
	if size, ok := ParseLength(val); ok && size > 0 {
		return size
	}
	return DefaultFontSize
}

// LineHeightRatio is the default line height as a multiple of font-size.
const LineHeightRatio = 1.25

// GetLineHeight returns the line-height in pixels. Unitless numbers
// multiply the font size; the default is LineHeightRatio × font-size.
func (s *Style) GetLineHeight() float64 {
	fontSize := s.GetFontSize()
	val, ok := s.Get("line-height")
	if !ok {
		return fontSize * LineHeightRatio
	}
	val = strings.TrimSpace(val)
	if strings.HasSuffix(val, "px") {
		if lh, ok := ParseLength(val); ok && lh >= 0 {
			return lh
		}
	} else if ratio, err := strconv.ParseFloat(val, 64); err == nil && ratio >= 0 {
		return ratio * fontSize
	}
	return fontSize * LineHeightRatio
}
