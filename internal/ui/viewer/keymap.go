package viewer

import (
	"fmt"
	"sort"

	"chosenoffset.com/cadastre/internal/render"
	"chosenoffset.com/cadastre/internal/world/field"
)

// Keymap maps key symbols to cursor deltas.
type Keymap map[string]field.Position

var (
	right = field.Position{X: 1}
	left  = field.Position{X: -1}
	down  = field.Position{Y: 1}
	up    = field.Position{Y: -1}
)

// DefaultKeymap binds each key to exactly one direction: WASD, arrows, and
// vi keys.
var DefaultKeymap = Keymap{
	"d": right, render.KeyRight: right, "l": right,
	"a": left, render.KeyLeft: left, "h": left,
	"s": down, render.KeyDown: down, "j": down,
	"w": up, render.KeyUp: up, "k": up,
}

// LegacyKeymap is the binding table of the first cadastre viewer, kept as is:
// "k" moves down, and "l" is bound to both right and up so it moves the
// cursor diagonally.
var LegacyKeymap = Keymap{
	"d": right, render.KeyRight: right,
	"a": left, render.KeyLeft: left, "h": left,
	"s": down, render.KeyDown: down, "k": down,
	"w": up, render.KeyUp: up,
	"l": right.Add(up),
}

var keymaps = map[string]Keymap{
	"default": DefaultKeymap,
	"legacy":  LegacyKeymap,
}

// KeymapByName returns a named keymap ("default" or "legacy").
func KeymapByName(name string) (Keymap, error) {
	km, ok := keymaps[name]
	if !ok {
		names := make([]string, 0, len(keymaps))
		for n := range keymaps {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown keymap %q (available: %v)", name, names)
	}
	return km, nil
}
