package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const fullwidthBase = '！' // U+FF01, the fullwidth form of '!'

// ToFullwidth returns a two-column rendering of r. Visible ASCII maps onto the
// fullwidth forms block at a fixed offset; anything else is written twice.
func ToFullwidth(r rune) string {
	if r >= '!' && r <= '~' {
		return string(r - '!' + fullwidthBase)
	}
	return string([]rune{r, r})
}

// Widen applies ToFullwidth to every rune of s.
func Widen(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(ToFullwidth(r))
	}
	return b.String()
}

// TwoCell returns glyph as exactly two columns: single-rune glyphs are
// widened, two-rune glyphs already fill the cell.
func TwoCell(glyph string) string {
	if utf8.RuneCountInString(glyph) == 1 {
		return Widen(glyph)
	}
	return glyph
}

// Narrow maps fullwidth forms back to their ASCII counterparts, for backends
// whose font only covers ASCII.
func Narrow(s string) string {
	return width.Narrow.String(s)
}
