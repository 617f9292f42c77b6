package render

// CellColumns is the number of text columns one field cell takes.
const CellColumns = 2

// Fixed parts of the viewer layout.
const (
	ActionsWidth  = 20
	ActionsHeader = " Possible actions: "
	PositionLabel = " Pos:"
	ViewedLabel   = " Tile:"
)

// Rect is a region of the screen in text columns and rows.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Layout places the viewer's panels on a screen of text cells.
//
//	 Possible actions:  |  Pos: 3,4
//	 b: Build           |  Tile: road
//	                    | +---------+
//	                    | | field   |
//	                    | +---------+
type Layout struct {
	ActionsHeader Rect
	Actions       Rect
	PositionLabel Rect
	Position      Rect
	ViewedLabel   Rect
	Viewed        Rect
	Border        Rect // One cell frame around Field
	Field         Rect
}

// NewLayout computes the layout for a cols by rows screen. Regions that do not
// fit come out empty.
func NewLayout(cols, rows int) Layout {
	mainX := ActionsWidth + 1
	mainW := cols - mainX
	posW := len(PositionLabel)
	viewedW := len(ViewedLabel)

	border := Rect{X: mainX, Y: 2, W: mainW, H: rows - 2}
	return Layout{
		ActionsHeader: Rect{X: 0, Y: 0, W: ActionsWidth, H: 1},
		Actions:       Rect{X: 0, Y: 1, W: ActionsWidth, H: rows - 1},
		PositionLabel: Rect{X: mainX, Y: 0, W: posW, H: 1},
		Position:      Rect{X: mainX + posW, Y: 0, W: mainW - posW, H: 1},
		ViewedLabel:   Rect{X: mainX, Y: 1, W: viewedW, H: 1},
		Viewed:        Rect{X: mainX + viewedW, Y: 1, W: mainW - viewedW, H: 1},
		Border:        border,
		Field:         Rect{X: border.X + 1, Y: border.Y + 1, W: border.W - 2, H: border.H - 2},
	}
}

// FieldCells returns how many field cells fit in the field region.
func (l Layout) FieldCells() (cols, rows int) {
	if l.Field.Empty() {
		return 0, 0
	}
	return l.Field.W / CellColumns, l.Field.H
}
