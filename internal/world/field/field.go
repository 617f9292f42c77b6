// Package field holds the world model: plot geometry plus a sparse map of
// tile positions to the entity labels that occupy them.
package field

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a tile coordinate. Both axes start at 0.
type Position struct {
	X int
	Y int
}

// Add returns the element-wise sum of p and o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Mul returns the element-wise product of p and o.
func (p Position) Mul(o Position) Position {
	return Position{X: p.X * o.X, Y: p.Y * o.Y}
}

// String formats the position the way the world format writes it ("x,y").
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Category is the closed set of label families that fall back to a shared
// catalog entry when the qualified name has no entry of its own.
type Category int

const (
	CategoryNone Category = iota
	CategoryKeep
	CategoryCapital
	CategoryConstruction
)

// categoryPrefixes is checked in order by ParseLabel.
var categoryPrefixes = []struct {
	prefix   string
	category Category
}{
	{"keep:", CategoryKeep},
	{"capital:", CategoryCapital},
	{"construction:", CategoryConstruction},
}

// String returns the base catalog key of the category ("" for CategoryNone).
func (c Category) String() string {
	switch c {
	case CategoryKeep:
		return "keep"
	case CategoryCapital:
		return "capital"
	case CategoryConstruction:
		return "construction"
	default:
		return ""
	}
}

// Label identifies what occupies a tile. The zero Label marks an empty tile.
type Label struct {
	Name      string   // Full label as written in the world file (e.g. "keep:alice")
	Category  Category // Family the label falls back to
	Qualifier string   // Text after the category prefix (e.g. "alice")
}

// ParseLabel builds a Label, deciding its category from the prefix once so
// resolution never has to inspect the string again.
func ParseLabel(name string) Label {
	for _, cp := range categoryPrefixes {
		if qualifier, ok := strings.CutPrefix(name, cp.prefix); ok {
			return Label{Name: name, Category: cp.category, Qualifier: qualifier}
		}
	}
	return Label{Name: name}
}

// IsZero reports whether l is the empty-tile label.
func (l Label) IsZero() bool {
	return l.Name == ""
}

func (l Label) String() string {
	return l.Name
}

// Field is a world: plot geometry and the occupied tiles. It is filled once by
// the loader and treated as read-only afterwards.
type Field struct {
	size     Position // Plots per axis
	plotSize Position // Tiles per plot per axis
	tiles    map[Position]Label
}

// New creates an empty field. Both sizes must be positive on each axis.
func New(size, plotSize Position) *Field {
	return &Field{
		size:     size,
		plotSize: plotSize,
		tiles:    make(map[Position]Label),
	}
}

// Size returns the number of plots per axis.
func (f *Field) Size() Position {
	return f.size
}

// PlotSize returns the number of tiles per plot per axis.
func (f *Field) PlotSize() Position {
	return f.plotSize
}

// TotalSize returns the world size in tiles.
func (f *Field) TotalSize() Position {
	return f.size.Mul(f.plotSize)
}

// Set places a label on a tile, replacing whatever was there.
func (f *Field) Set(p Position, l Label) {
	f.tiles[p] = l
}

// Get returns the label at (x, y). There is no bounds check: any position that
// was never set, inside the world or not, reports false.
func (f *Field) Get(x, y int) (Label, bool) {
	l, ok := f.tiles[Position{X: x, Y: y}]
	return l, ok
}

// At is Get for a Position.
func (f *Field) At(p Position) (Label, bool) {
	return f.Get(p.X, p.Y)
}

// InBounds reports whether p is a tile of the world.
func (f *Field) InBounds(p Position) bool {
	total := f.TotalSize()
	return p.X >= 0 && p.Y >= 0 && p.X < total.X && p.Y < total.Y
}

// PlotOf returns the plot coordinates containing tile p.
func (f *Field) PlotOf(p Position) Position {
	return Position{X: p.X / f.plotSize.X, Y: p.Y / f.plotSize.Y}
}

// Len returns the number of occupied tiles.
func (f *Field) Len() int {
	return len(f.tiles)
}

// Positions returns the occupied positions in row-major order.
func (f *Field) Positions() []Position {
	positions := make([]Position, 0, len(f.tiles))
	for p := range f.tiles {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	return positions
}

// ToGrid materializes every tile as grid[y][x]. Empty tiles hold the zero
// Label. This is O(width*height) and meant for bulk export only.
func (f *Field) ToGrid() [][]Label {
	total := f.TotalSize()
	grid := make([][]Label, total.Y)
	for y := range grid {
		row := make([]Label, total.X)
		for x := range row {
			row[x], _ = f.Get(x, y)
		}
		grid[y] = row
	}
	return grid
}
