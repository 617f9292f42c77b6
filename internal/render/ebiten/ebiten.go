// Package ebiten implements render.Surface in a desktop window using Ebiten.
//
// Ebiten owns the main goroutine: the viewer runs on another goroutine and
// talks to the window through the Surface methods, while Run drives the game
// loop. Frames are handed over on Update; keys come back on a channel.
package ebiten

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/cadastre/internal/render"
	"chosenoffset.com/cadastre/internal/world/catalog"
)

// Debug font metrics.
const (
	charWidth  = 6
	lineHeight = 16
)

const windowTitle = "Evil Cadastre"

var (
	defaultFg   = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	defaultBg   = color.RGBA{0x00, 0x00, 0x00, 0xff}
	borderColor = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
)

// Options configures the window.
type Options struct {
	Width, Height int // Initial window size in pixels
}

// DefaultOptions returns an 80x25 character window.
func DefaultOptions() Options {
	return Options{Width: 80 * charWidth, Height: 25 * lineHeight}
}

type cell struct {
	glyph string
	style render.Style
}

// frame is one complete picture of the viewer.
type frame struct {
	width, height    int
	cells            []cell
	centerX, centerY int
	panels           map[render.Panel]string
}

func (f *frame) clone() frame {
	c := *f
	c.cells = append([]cell(nil), f.cells...)
	c.panels = make(map[render.Panel]string, len(f.panels))
	for k, v := range f.panels {
		c.panels[k] = v
	}
	return c
}

// Surface is a window showing the viewer.
type Surface struct {
	opts Options

	// pending is built by the viewer goroutine only.
	pending frame

	mu      sync.Mutex
	shown   frame
	scratch *ebiten.Image

	keys     chan string
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a window surface. Nothing is shown until Run is called.
func New(opts Options) *Surface {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	return &Surface{
		opts:    opts,
		pending: frame{panels: make(map[render.Panel]string)},
		keys:    make(chan string, 16),
		done:    make(chan struct{}),
	}
}

// SetSize resizes the field buffer, clearing it.
func (s *Surface) SetSize(width, height int) {
	if width == s.pending.width && height == s.pending.height {
		return
	}
	s.pending.width, s.pending.height = width, height
	s.pending.cells = make([]cell, width*height)
}

// ChangeCell sets one field cell. Out of range cells are ignored.
func (s *Surface) ChangeCell(x, y int, glyph string, style render.Style) {
	if x < 0 || y < 0 || x >= s.pending.width || y >= s.pending.height {
		return
	}
	s.pending.cells[y*s.pending.width+x] = cell{glyph: glyph, style: style}
}

// SetCenter sets the cell the viewport scrolls to.
func (s *Surface) SetCenter(x, y int) {
	s.pending.centerX, s.pending.centerY = x, y
}

// SetText replaces a panel's text.
func (s *Surface) SetText(panel render.Panel, text string) {
	s.pending.panels[panel] = text
}

// Update hands the pending frame to the window.
func (s *Surface) Update() error {
	select {
	case <-s.done:
		return render.ErrClosed
	default:
	}
	f := s.pending.clone()
	s.mu.Lock()
	s.shown = f
	s.mu.Unlock()
	return nil
}

// NextKey waits for a key typed in the window. Closing the window or ^C
// yields render.ErrInterrupted.
func (s *Surface) NextKey(ctx context.Context) (string, error) {
	select {
	case key := <-s.keys:
		return key, nil
	case <-s.done:
		return "", render.ErrInterrupted
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the window down. It is safe to call more than once.
func (s *Surface) Close() error {
	s.finish()
	return nil
}

func (s *Surface) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Run opens the window and runs the game loop until the window is closed,
// ^C is pressed, Close is called, or ctx is done. It must be called from the
// main goroutine.
func (s *Surface) Run(ctx context.Context) error {
	ebiten.SetWindowSize(s.opts.Width, s.opts.Height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(&game{surface: s, ctx: ctx})
	s.finish()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts Surface to ebiten.Game.
type game struct {
	surface *Surface
	ctx     context.Context
}

// Update implements ebiten.Game.
func (g *game) Update() error {
	s := g.surface
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	select {
	case <-s.done:
		return ebiten.Termination
	default:
	}

	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.finish()
		return ebiten.Termination
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if name, ok := specialKeys[k]; ok {
			s.sendKey(name)
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		s.sendKey(string(r))
	}
	return nil
}

// sendKey queues a key, dropping it when the viewer is behind.
func (s *Surface) sendKey(key string) {
	select {
	case s.keys <- key:
	default:
	}
}

var specialKeys = map[ebiten.Key]string{
	ebiten.KeyArrowUp:    render.KeyUp,
	ebiten.KeyArrowDown:  render.KeyDown,
	ebiten.KeyArrowLeft:  render.KeyLeft,
	ebiten.KeyArrowRight: render.KeyRight,
	ebiten.KeyEnter:      render.KeyEnter,
	ebiten.KeyEscape:     render.KeyEscape,
	ebiten.KeyTab:        render.KeyTab,
	ebiten.KeyBackspace:  render.KeyBackspace,
}

// Layout implements ebiten.Game.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (g *game) Draw(screen *ebiten.Image) {
	s := g.surface
	s.mu.Lock()
	defer s.mu.Unlock()

	screen.Fill(defaultBg)
	if s.scratch == nil {
		s.scratch = ebiten.NewImage(render.CellColumns*charWidth, lineHeight)
	}

	b := screen.Bounds()
	layout := render.NewLayout(b.Dx()/charWidth, b.Dy()/lineHeight)
	f := &s.shown

	drawText(screen, layout.ActionsHeader, render.ActionsHeader)
	actions := layout.Actions
	for _, line := range strings.Split(f.panels[render.PanelActions], "\n") {
		if actions.Empty() {
			break
		}
		drawText(screen, actions, line)
		actions.Y++
		actions.H--
	}
	drawText(screen, layout.PositionLabel, render.PositionLabel)
	drawText(screen, layout.Position, f.panels[render.PanelPosition])
	drawText(screen, layout.ViewedLabel, render.ViewedLabel)
	drawText(screen, layout.Viewed, f.panels[render.PanelViewed])

	drawBorder(screen, layout.Border)
	s.drawField(screen, layout, f)
}

func (s *Surface) drawField(screen *ebiten.Image, layout render.Layout, f *frame) {
	cols, rows := layout.FieldCells()
	if cols <= 0 || rows <= 0 {
		return
	}
	offX := render.ViewOffset(f.centerX, f.width, cols)
	offY := render.ViewOffset(f.centerY, f.height, rows)

	for vy := 0; vy < rows && offY+vy < f.height; vy++ {
		for vx := 0; vx < cols && offX+vx < f.width; vx++ {
			c := f.cells[(offY+vy)*f.width+offX+vx]
			x := (layout.Field.X + vx*render.CellColumns) * charWidth
			y := (layout.Field.Y + vy) * lineHeight
			s.drawCell(screen, x, y, c)
		}
	}
}

// drawCell paints the background, then the glyph tinted with the foreground
// color. The debug font only has ASCII, so fullwidth glyphs are narrowed.
func (s *Surface) drawCell(screen *ebiten.Image, x, y int, c cell) {
	fg := c.style.Fg.RGBA(defaultFg)
	bg := c.style.Bg.RGBA(defaultBg)
	if c.style.Reverse {
		fg, bg = bg, fg
	}

	w := float32(render.CellColumns * charWidth)
	vector.DrawFilledRect(screen, float32(x), float32(y), w, lineHeight, bg, false)

	s.scratch.Clear()
	ebitenutil.DebugPrintAt(s.scratch, catalog.Narrow(c.glyph), 0, 0)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(fg)
	screen.DrawImage(s.scratch, op)

	if c.style.Underline {
		vector.DrawFilledRect(screen, float32(x), float32(y+lineHeight-2), w, 1, fg, false)
	}
}

func drawText(screen *ebiten.Image, r render.Rect, text string) {
	if r.Empty() {
		return
	}
	if runes := []rune(text); len(runes) > r.W {
		text = string(runes[:r.W])
	}
	ebitenutil.DebugPrintAt(screen, text, r.X*charWidth, r.Y*lineHeight)
}

func drawBorder(screen *ebiten.Image, r render.Rect) {
	if r.Empty() {
		return
	}
	x, y := float32(r.X*charWidth), float32(r.Y*lineHeight)
	w, h := float32(r.W*charWidth), float32(r.H*lineHeight)
	vector.DrawFilledRect(screen, x, y, w, lineHeight, borderColor, false)
	vector.DrawFilledRect(screen, x, y+h-lineHeight, w, lineHeight, borderColor, false)
	vector.DrawFilledRect(screen, x, y, charWidth, h, borderColor, false)
	vector.DrawFilledRect(screen, x+w-charWidth, y, charWidth, h, borderColor, false)
}

var _ render.Surface = (*Surface)(nil)
