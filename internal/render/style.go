// Package render defines the drawing contract between the viewer and its
// backends, plus the backend-neutral style and viewport types they share.
package render

// Color is a terminal palette color. The zero value is the backend default.
type Color int

// ColorDefault leaves the color to the backend.
const ColorDefault Color = 0

// PaletteColor returns the color for palette index n (0-255).
func PaletteColor(n int) Color {
	return Color(n + 1)
}

// Index returns the palette index, or false for ColorDefault.
func (c Color) Index() (int, bool) {
	if c == ColorDefault {
		return 0, false
	}
	return int(c) - 1, true
}

// Style holds the visual attributes of a cell.
type Style struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Underline bool
	Reverse   bool
	Blink     bool
}

// IsZero reports whether s carries no attributes at all.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Add layers o on top of s: colors set in o replace those of s and
// attributes are combined.
func (s Style) Add(o Style) Style {
	if o.Fg != ColorDefault {
		s.Fg = o.Fg
	}
	if o.Bg != ColorDefault {
		s.Bg = o.Bg
	}
	s.Bold = s.Bold || o.Bold
	s.Underline = s.Underline || o.Underline
	s.Reverse = s.Reverse || o.Reverse
	s.Blink = s.Blink || o.Blink
	return s
}
