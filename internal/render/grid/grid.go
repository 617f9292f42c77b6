// Package grid renders a whole world into a block of characters for static
// export: plain text, an HTML page, or ANSI-styled text.
package grid

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"chosenoffset.com/cadastre/internal/render"
	"chosenoffset.com/cadastre/internal/world/catalog"
	"chosenoffset.com/cadastre/internal/world/field"
)

// RulerWidth is the number of leading columns the coordinate ruler adds to
// each row. RulerHeight is the number of header rows it adds.
const (
	RulerWidth  = 4
	RulerHeight = 2
)

// Options selects the output transforms.
type Options struct {
	HTML   bool // Wrap the output in an HTML page
	Wide   bool // Render every character two columns wide
	Coords bool // Add the coordinate ruler
	ANSI   bool // Color glyphs with their entity style
}

// ParseOptions reads presence tokens ("html", "wide", "coords", "ansi") in any
// order.
func ParseOptions(tokens []string) (Options, error) {
	var opts Options
	for _, token := range tokens {
		switch token {
		case "html":
			opts.HTML = true
		case "wide":
			opts.Wide = true
		case "coords":
			opts.Coords = true
		case "ansi":
			opts.ANSI = true
		default:
			return opts, fmt.Errorf("unknown option %q (want html, wide, coords or ansi)", token)
		}
	}
	if opts.HTML && opts.ANSI {
		return opts, fmt.Errorf("options html and ansi cannot be combined")
	}
	return opts, nil
}

// Cell is one character position of the output.
type Cell struct {
	Text  string
	Style render.Style
}

// Rows resolves every tile of the world into a glyph cell, row by row.
func Rows(f *field.Field, c *catalog.Catalog) ([][]Cell, error) {
	grid := f.ToGrid()
	rows := make([][]Cell, len(grid))
	for y, labels := range grid {
		row := make([]Cell, len(labels))
		for x, label := range labels {
			view, err := c.Resolve(label)
			if err != nil {
				return nil, fmt.Errorf("tile %d,%d: %w", x, y, err)
			}
			row[x] = Cell{Text: view.Glyph, Style: view.Style}
		}
		rows[y] = row
	}
	return rows, nil
}

// AddRuler prepends the coordinate ruler to rows.
//
// Each data row gets four leading columns: a digit of the plot row index, a
// space, the row index within the plot (last digit), and a space. The plot
// index is written top to bottom starting at the plot's first row; digits
// that do not fit in the plot height are dropped. The two header rows do the
// same for columns, except that the plot label digit is picked by the column
// index modulo the plot height.
func AddRuler(rows [][]Cell, plotSize field.Position) [][]Cell {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}

	plotDigits := make([]Cell, 0, RulerWidth+width)
	inPlot := make([]Cell, 0, RulerWidth+width)
	for i := 0; i < RulerWidth; i++ {
		plotDigits = append(plotDigits, Cell{Text: " "})
		inPlot = append(inPlot, Cell{Text: " "})
	}
	for x := 0; x < width; x++ {
		plotDigits = append(plotDigits, Cell{Text: labelDigit(x/plotSize.X, x%plotSize.Y)})
		inPlot = append(inPlot, Cell{Text: lastDigit(x % plotSize.X)})
	}

	out := make([][]Cell, 0, RulerHeight+len(rows))
	out = append(out, plotDigits, inPlot)
	for y, row := range rows {
		ruled := make([]Cell, 0, RulerWidth+len(row))
		ruled = append(ruled,
			Cell{Text: labelDigit(y/plotSize.Y, y%plotSize.Y)},
			Cell{Text: " "},
			Cell{Text: lastDigit(y % plotSize.Y)},
			Cell{Text: " "},
		)
		out = append(out, append(ruled, row...))
	}
	return out
}

// labelDigit returns digit d of the plot index label, or a space past its end.
func labelDigit(plot, d int) string {
	label := fmt.Sprint(plot)
	if d < len(label) {
		return label[d : d+1]
	}
	return " "
}

func lastDigit(n int) string {
	return fmt.Sprint(n % 10)
}

// Render draws the world with the given options. The result depends only on
// its arguments.
func Render(f *field.Field, c *catalog.Catalog, opts Options) (string, error) {
	if opts.HTML && opts.ANSI {
		return "", fmt.Errorf("options html and ansi cannot be combined")
	}

	rows, err := Rows(f, c)
	if err != nil {
		return "", err
	}
	if opts.Coords {
		rows = AddRuler(rows, f.PlotSize())
	}

	var styler *lipgloss.Renderer
	if opts.ANSI {
		styler = lipgloss.NewRenderer(io.Discard)
		styler.SetColorProfile(termenv.ANSI256)
	}

	lines := make([]string, len(rows))
	for y, row := range rows {
		var b strings.Builder
		for _, cell := range row {
			text := cell.Text
			if opts.Wide {
				text = catalog.Widen(text)
			}
			if styler != nil && !cell.Style.IsZero() {
				text = ansiStyle(styler, cell.Style).Render(text)
			}
			b.WriteString(text)
		}
		lines[y] = b.String()
	}
	out := strings.Join(lines, "\n")

	if opts.HTML {
		return wrapHTML(out)
	}
	return out, nil
}

func ansiStyle(r *lipgloss.Renderer, s render.Style) lipgloss.Style {
	st := r.NewStyle().
		Bold(s.Bold).
		Underline(s.Underline).
		Reverse(s.Reverse).
		Blink(s.Blink)
	if idx, ok := s.Fg.Index(); ok {
		st = st.Foreground(lipgloss.ANSIColor(idx))
	}
	if idx, ok := s.Bg.Index(); ok {
		st = st.Background(lipgloss.ANSIColor(idx))
	}
	return st
}

var page = template.Must(template.New("page").Parse(`
<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Evil Cadastre</title>
</head>
<body>
<pre>
{{.}}
</pre>
</body>
</html>
`))

func wrapHTML(body string) (string, error) {
	var b strings.Builder
	if err := page.Execute(&b, body); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return b.String(), nil
}
