package render

import (
	"context"
	"errors"
)

// ErrInterrupted is returned by Surface.NextKey when the user asks to quit
// (^C on a terminal, closing the window).
var ErrInterrupted = errors.New("render: interrupted")

// ErrClosed is returned by a surface that has already been shut down.
var ErrClosed = errors.New("render: surface closed")

// Panel identifies a side text panel of the viewer layout.
type Panel string

const (
	PanelPosition Panel = "position" // Cursor coordinates
	PanelViewed   Panel = "viewed"   // Label under the cursor
	PanelActions  Panel = "actions"  // Actions available on the tile
)

// Key symbols reported by NextKey for non-character keys. Printable keys are
// reported as the character itself ("d", "W", "?").
const (
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyEnter     = "enter"
	KeyEscape    = "escape"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
)

// Surface is the drawing target of the interactive viewer. It abstracts the
// underlying terminal or window so the viewer never deals with painting,
// layout, or key decoding.
//
// A frame is built with SetSize/ChangeCell/SetCenter/SetText and shown with
// Update. Cells are in field coordinates; each cell is two columns wide.
type Surface interface {
	// SetSize sets the field size in cells.
	SetSize(width, height int)

	// ChangeCell sets the glyph and style of one field cell.
	ChangeCell(x, y int, glyph string, style Style)

	// SetCenter asks the surface to keep (x, y) in view.
	SetCenter(x, y int)

	// SetText replaces the contents of a side panel.
	SetText(panel Panel, text string)

	// Update flushes the frame to the screen.
	Update() error

	// NextKey blocks until a key is pressed, the user interrupts, or ctx is done.
	NextKey(ctx context.Context) (string, error)

	// Close releases the surface and restores the terminal.
	Close() error
}
