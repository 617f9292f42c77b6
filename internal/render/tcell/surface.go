// Package tcell implements render.Surface on a terminal using tcell.
//
// The screen is split with render.NewLayout; each field cell takes two
// terminal columns.
package tcell

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"chosenoffset.com/cadastre/internal/render"
)

// Options configures the terminal surface.
type Options struct {
	// BlinkBrightBackground, when set to anything but "", "0", "false" or
	// "no", draws bright backgrounds (palette 8-15) as their dark variant
	// plus blink. Some terminals only show bright backgrounds that way.
	BlinkBrightBackground string
}

func (o Options) blinkBright() bool {
	switch strings.ToLower(strings.TrimSpace(o.BlinkBrightBackground)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

type cell struct {
	glyph string
	style render.Style
}

// Surface draws the viewer on a tcell screen.
type Surface struct {
	screen      tcell.Screen
	blinkBright bool

	width, height int
	cells         []cell
	centerX       int
	centerY       int
	panels        map[render.Panel]string

	closeOnce sync.Once
	closed    bool
}

// New opens the controlling terminal.
func New(opts Options) (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}
	return NewWithScreen(screen, opts)
}

// NewWithScreen initializes screen and wraps it.
func NewWithScreen(screen tcell.Screen, opts Options) (*Surface, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	return &Surface{
		screen:      screen,
		blinkBright: opts.blinkBright(),
		panels:      make(map[render.Panel]string),
	}, nil
}

// SetSize resizes the field buffer, clearing it.
func (s *Surface) SetSize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.cells = make([]cell, width*height)
}

// ChangeCell sets one field cell. Out of range cells are ignored.
func (s *Surface) ChangeCell(x, y int, glyph string, style render.Style) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	s.cells[y*s.width+x] = cell{glyph: glyph, style: style}
}

// SetCenter sets the cell the viewport scrolls to.
func (s *Surface) SetCenter(x, y int) {
	s.centerX, s.centerY = x, y
}

// SetText replaces a panel's text.
func (s *Surface) SetText(panel render.Panel, text string) {
	s.panels[panel] = text
}

// Update draws the current frame.
func (s *Surface) Update() error {
	if s.closed {
		return render.ErrClosed
	}
	s.draw()
	s.screen.Show()
	return nil
}

func (s *Surface) draw() {
	s.screen.Clear()
	layout := render.NewLayout(s.screen.Size())

	s.drawText(layout.ActionsHeader, render.ActionsHeader, tcell.StyleDefault)
	actions := layout.Actions
	for _, line := range strings.Split(s.panels[render.PanelActions], "\n") {
		if actions.Empty() {
			break
		}
		s.drawText(actions, line, tcell.StyleDefault)
		actions.Y++
		actions.H--
	}

	s.drawText(layout.PositionLabel, render.PositionLabel, tcell.StyleDefault)
	s.drawText(layout.Position, s.panels[render.PanelPosition], tcell.StyleDefault)
	s.drawText(layout.ViewedLabel, render.ViewedLabel, tcell.StyleDefault)
	s.drawText(layout.Viewed, s.panels[render.PanelViewed], tcell.StyleDefault)

	s.drawBorder(layout.Border)
	s.drawField(layout)
}

func (s *Surface) drawBorder(r render.Rect) {
	if r.Empty() {
		return
	}
	border := tcell.StyleDefault.Reverse(true)
	for x := r.X; x < r.X+r.W; x++ {
		s.screen.SetContent(x, r.Y, ' ', nil, border)
		s.screen.SetContent(x, r.Y+r.H-1, ' ', nil, border)
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		s.screen.SetContent(r.X, y, ' ', nil, border)
		s.screen.SetContent(r.X+r.W-1, y, ' ', nil, border)
	}
}

// drawField paints the part of the field around the center that fits in the
// layout's field region.
func (s *Surface) drawField(layout render.Layout) {
	cols, rows := layout.FieldCells()
	if cols <= 0 || rows <= 0 {
		return
	}
	offX := render.ViewOffset(s.centerX, s.width, cols)
	offY := render.ViewOffset(s.centerY, s.height, rows)

	for vy := 0; vy < rows && offY+vy < s.height; vy++ {
		for vx := 0; vx < cols && offX+vx < s.width; vx++ {
			c := s.cells[(offY+vy)*s.width+offX+vx]
			s.drawGlyph(layout.Field.X+vx*render.CellColumns, layout.Field.Y+vy, c.glyph, s.style(c.style))
		}
	}
}

// drawGlyph writes glyph into a two column cell, padding with spaces.
func (s *Surface) drawGlyph(x, y int, glyph string, style tcell.Style) {
	col := 0
	for _, r := range glyph {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > render.CellColumns {
			break
		}
		s.screen.SetContent(x+col, y, r, nil, style)
		col += rw
	}
	for ; col < render.CellColumns; col++ {
		s.screen.SetContent(x+col, y, ' ', nil, style)
	}
}

// drawText writes the first line of text into r, cut at the region width.
func (s *Surface) drawText(r render.Rect, text string, style tcell.Style) {
	if r.Empty() {
		return
	}
	col := 0
	for _, c := range text {
		if c == '\n' {
			return
		}
		cw := runewidth.RuneWidth(c)
		if cw == 0 {
			continue
		}
		if col+cw > r.W {
			return
		}
		s.screen.SetContent(r.X+col, r.Y, c, nil, style)
		col += cw
	}
}

// style converts a render style to tcell.
func (s *Surface) style(st render.Style) tcell.Style {
	out := tcell.StyleDefault.
		Bold(st.Bold).
		Underline(st.Underline).
		Reverse(st.Reverse).
		Blink(st.Blink)
	if idx, ok := st.Fg.Index(); ok {
		out = out.Foreground(tcell.PaletteColor(idx))
	}
	if idx, ok := st.Bg.Index(); ok {
		if s.blinkBright && idx >= 8 && idx < 16 {
			idx -= 8
			out = out.Blink(true)
		}
		out = out.Background(tcell.PaletteColor(idx))
	}
	return out
}

// NextKey waits for a key press. ^C yields render.ErrInterrupted; a done ctx
// yields its error. Resizes redraw the last frame.
func (s *Surface) NextKey(ctx context.Context) (string, error) {
	if s.closed {
		return "", render.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	})
	defer stop()

	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return "", render.ErrClosed
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return "", err
			}
		case *tcell.EventResize:
			s.draw()
			s.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return "", render.ErrInterrupted
			}
			if key, ok := keyName(ev); ok {
				return key, nil
			}
		}
	}
}

var specialKeys = map[tcell.Key]string{
	tcell.KeyUp:         render.KeyUp,
	tcell.KeyDown:       render.KeyDown,
	tcell.KeyLeft:       render.KeyLeft,
	tcell.KeyRight:      render.KeyRight,
	tcell.KeyEnter:      render.KeyEnter,
	tcell.KeyEscape:     render.KeyEscape,
	tcell.KeyTab:        render.KeyTab,
	tcell.KeyBackspace:  render.KeyBackspace,
	tcell.KeyBackspace2: render.KeyBackspace,
}

func keyName(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune()), true
	}
	name, ok := specialKeys[ev.Key()]
	return name, ok
}

// Close restores the terminal. It is safe to call more than once.
func (s *Surface) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		s.screen.Fini()
	})
	return nil
}

var _ render.Surface = (*Surface)(nil)
