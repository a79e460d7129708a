package text

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Measurer reports the advance width of a run of text at a font size.
type Measurer interface {
	Measure(text string, fontSize float64) float64
}

// referenceFontSize is the size at which a FixedMeasurer's CharWidth applies.
const referenceFontSize = 16.0

// DefaultCharWidth is the advance of one character at 16px.
const DefaultCharWidth = 8.0

// FixedMeasurer gives every character the same advance, scaled linearly
// with the font size. It needs no font files and is fully deterministic.
type FixedMeasurer struct {
	CharWidth float64 // advance at 16px; DefaultCharWidth when zero
}

func (m FixedMeasurer) Measure(text string, fontSize float64) float64 {
	cw := m.CharWidth
	if cw <= 0 {
		cw = DefaultCharWidth
	}
	return float64(utf8.RuneCountInString(text)) * cw * fontSize / referenceFontSize
}

// FontMeasurer measures text with a TrueType/OpenType font through gg.
// Faces are loaded lazily per font size and cached; it is safe for
// concurrent use.
type FontMeasurer struct {
	path string

	mu    sync.Mutex
	faces map[float64]font.Face
	dc    *gg.Context
}

// NewFontMeasurer loads the font at path once to validate it.
func NewFontMeasurer(path string) (*FontMeasurer, error) {
	face, err := gg.LoadFontFace(path, referenceFontSize)
	if err != nil {
		return nil, fmt.Errorf("loading font %s: %w", path, err)
	}
	return &FontMeasurer{
		path:  path,
		faces: map[float64]font.Face{referenceFontSize: face},
		dc:    gg.NewContext(1, 1),
	}, nil
}

func (m *FontMeasurer) Measure(text string, fontSize float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, ok := m.faces[fontSize]
	if !ok {
		var err error
		face, err = gg.LoadFontFace(m.path, fontSize)
		if err != nil {
			// The file loaded at construction; a failure here means it
			// changed on disk. Fall back to a fixed advance.
			return FixedMeasurer{}.Measure(text, fontSize)
		}
		m.faces[fontSize] = face
	}
	m.dc.SetFontFace(face)
	w, _ := m.dc.MeasureString(text)
	return w
}

// BreakLines breaks text into lines no wider than maxWidth, breaking only
// at whitespace. A word wider than maxWidth gets a line of its own. Text
// that fits (or a non-positive maxWidth) is returned as a single line.
func BreakLines(m Measurer, text string, fontSize, maxWidth float64) []string {
	if maxWidth <= 0 || m.Measure(text, fontSize) <= maxWidth {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	lines := make([]string, 0)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || m.Measure(candidate, fontSize) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
