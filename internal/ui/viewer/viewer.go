// Package viewer is the interactive world view: a cursor moved over the field
// with the keyboard, with side panels describing the tile under it.
package viewer

import (
	"context"
	"fmt"
	"strings"

	"chosenoffset.com/cadastre/internal/render"
	"chosenoffset.com/cadastre/internal/world/catalog"
	"chosenoffset.com/cadastre/internal/world/field"
)

// CursorMarker replaces the glyph under the cursor.
const CursorMarker = "}{"

var (
	// BaseStyle is layered under every entity style.
	BaseStyle = render.Style{Fg: render.PaletteColor(0), Bg: render.PaletteColor(10)}

	// CursorStyle is used for the cursor marker.
	CursorStyle = render.Style{Fg: render.PaletteColor(11), Bold: true}
)

// Config holds viewer settings.
type Config struct {
	Keymap string `json:"keymap"` // "default" or "legacy"
	Wide   bool   `json:"wide"`   // Draw glyphs two columns wide
}

// DefaultConfig returns the settings used by cadastre-view.
func DefaultConfig() *Config {
	return &Config{
		Keymap: "default",
		Wide:   true,
	}
}

// Viewer owns the cursor over a read-only field.
type Viewer struct {
	field   *field.Field
	catalog *catalog.Catalog
	keymap  Keymap
	wide    bool

	cursor field.Position
}

// New creates a viewer with the cursor at the middle of the field.
func New(f *field.Field, c *catalog.Catalog, config *Config) (*Viewer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	km, err := KeymapByName(config.Keymap)
	if err != nil {
		return nil, err
	}

	total := f.TotalSize()
	return &Viewer{
		field:   f,
		catalog: c,
		keymap:  km,
		wide:    config.Wide,
		cursor:  field.Position{X: total.X / 2, Y: total.Y / 2},
	}, nil
}

// Cursor returns the current cursor position.
func (v *Viewer) Cursor() field.Position {
	return v.cursor
}

// Update moves the cursor for key, clamping each axis to the field. It
// reports whether the key is bound.
func (v *Viewer) Update(key string) bool {
	delta, ok := v.keymap[key]
	if !ok {
		return false
	}
	total := v.field.TotalSize()
	next := v.cursor.Add(delta)
	v.cursor = field.Position{
		X: clamp(next.X, 0, total.X-1),
		Y: clamp(next.Y, 0, total.Y-1),
	}
	return true
}

func clamp(n, lower, upper int) int {
	return max(min(n, upper), lower)
}

// Draw paints the whole field, the cursor, and the side panels, then flushes
// the frame.
func (v *Viewer) Draw(s render.Surface) error {
	total := v.field.TotalSize()
	s.SetSize(total.X, total.Y)
	for x := 0; x < total.X; x++ {
		for y := 0; y < total.Y; y++ {
			label, _ := v.field.Get(x, y)
			view, err := v.catalog.Resolve(label)
			if err != nil {
				return fmt.Errorf("tile %d,%d: %w", x, y, err)
			}
			s.ChangeCell(x, y, v.glyph(view.Glyph), BaseStyle.Add(view.Style))
		}
	}

	s.SetCenter(v.cursor.X, v.cursor.Y)
	s.ChangeCell(v.cursor.X, v.cursor.Y, CursorMarker, CursorStyle)

	label, _ := v.field.At(v.cursor)
	view, err := v.catalog.Resolve(label)
	if err != nil {
		return fmt.Errorf("tile %s: %w", v.cursor, err)
	}
	viewed := label.Name
	if label.IsZero() {
		viewed = catalog.EmptyKey
	}
	s.SetText(render.PanelPosition, v.cursor.String())
	s.SetText(render.PanelViewed, viewed)
	s.SetText(render.PanelActions, strings.Join(view.Actions, "\n"))

	return s.Update()
}

func (v *Viewer) glyph(g string) string {
	if v.wide {
		return catalog.TwoCell(g)
	}
	return g
}

// Run draws, waits for a key, moves the cursor, and repeats. It only returns
// when drawing fails or the surface stops delivering keys (interrupt, closed
// window, cancelled ctx).
func (v *Viewer) Run(ctx context.Context, s render.Surface) error {
	for {
		if err := v.Draw(s); err != nil {
			return err
		}
		key, err := s.NextKey(ctx)
		if err != nil {
			return err
		}
		v.Update(key)
	}
}
