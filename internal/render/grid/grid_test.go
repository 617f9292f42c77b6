package grid

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"chosenoffset.com/cadastre/internal/world/catalog"
	"chosenoffset.com/cadastre/internal/world/field"
	"chosenoffset.com/cadastre/internal/world/maploader"
)

const sampleWorld = "size:2,1;plot_size:2,2;;0,0 keep;1,1 forest;"

func mustParse(t *testing.T, text string) *field.Field {
	t.Helper()
	world, err := maploader.Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}
	return world
}

func TestRenderPlain(t *testing.T) {
	out, err := Render(mustParse(t, sampleWorld), catalog.Default(), Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	rows := strings.Split(out, "\n")
	want := []string{"$   ", " %  "}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %q", len(want), len(rows), out)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}

func TestRenderCoords(t *testing.T) {
	out, err := Render(mustParse(t, sampleWorld), catalog.Default(), Options{Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	rows := strings.Split(out, "\n")
	want := []string{
		"    0 1 ",
		"    0101",
		"0 0 $   ",
		"  1  %  ",
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %q", len(want), len(rows), out)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}

func TestRulerRowLengths(t *testing.T) {
	world := mustParse(t, "size:3,4;plot_size:5,3;;0,0 keep;14,11 rock;")
	rows, err := Rows(world, catalog.Default())
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	ruled := AddRuler(rows, world.PlotSize())
	if len(ruled) != len(rows)+RulerHeight {
		t.Fatalf("Expected %d rows, got %d", len(rows)+RulerHeight, len(ruled))
	}
	for y, row := range ruled {
		if len(row) != len(rows[0])+RulerWidth {
			t.Errorf("Row %d: expected length %d, got %d", y, len(rows[0])+RulerWidth, len(row))
		}
	}
}

func TestRulerMultiDigitPlots(t *testing.T) {
	// Plots two tiles tall: plot row 12 prints "1" then "2" down its rows.
	world := mustParse(t, "size:1,13;plot_size:1,2;;")
	out, err := Render(world, catalog.Default(), Options{Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rows := strings.Split(out, "\n")

	if got := rows[RulerHeight+24][:4]; got != "1 0 " {
		t.Errorf("Expected first row of plot 12 to start %q, got %q", "1 0 ", got)
	}
	if got := rows[RulerHeight+25][:4]; got != "2 1 " {
		t.Errorf("Expected second row of plot 12 to start %q, got %q", "2 1 ", got)
	}

	// Plots one tile tall: the second digit of plot 10 does not fit and is dropped.
	world = mustParse(t, "size:1,11;plot_size:1,1;;")
	out, err = Render(world, catalog.Default(), Options{Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rows = strings.Split(out, "\n")
	if got := rows[RulerHeight+10][:4]; got != "1 0 " {
		t.Errorf("Expected truncated label row %q, got %q", "1 0 ", got)
	}
}

func TestRulerHeaderColumns(t *testing.T) {
	world := mustParse(t, "size:12,1;plot_size:2,1;;")
	out, err := Render(world, catalog.Default(), Options{Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rows := strings.Split(out, "\n")

	// One tile tall plots: every column shows the first digit of its plot.
	if want := "    001122334455667788991111"; rows[0] != want {
		t.Errorf("Expected plot header %q, got %q", want, rows[0])
	}
	if want := "    " + strings.Repeat("01", 12); rows[1] != want {
		t.Errorf("Expected in-plot header %q, got %q", want, rows[1])
	}
}

func TestRulerHeaderNonSquarePlots(t *testing.T) {
	world := mustParse(t, "size:2,1;plot_size:3,2;;")
	out, err := Render(world, catalog.Default(), Options{Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	rows := strings.Split(out, "\n")

	// Plot label digits cycle with the plot height, column indices with the width.
	if want := "    0 0 1 "; rows[0] != want {
		t.Errorf("Expected plot header %q, got %q", want, rows[0])
	}
	if want := "    012012"; rows[1] != want {
		t.Errorf("Expected in-plot header %q, got %q", want, rows[1])
	}
	if want := "0 0 "; rows[2][:4] != want {
		t.Errorf("Expected first row gutter %q, got %q", want, rows[2][:4])
	}
	if want := "  1 "; rows[3][:4] != want {
		t.Errorf("Expected second row gutter %q, got %q", want, rows[3][:4])
	}
}

func TestRenderWide(t *testing.T) {
	out, err := Render(mustParse(t, sampleWorld), catalog.Default(), Options{Wide: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	rows := strings.Split(out, "\n")
	if want := "＄      "; rows[0] != want {
		t.Errorf("Expected %q, got %q", want, rows[0])
	}
	if want := "  ％    "; rows[1] != want {
		t.Errorf("Expected %q, got %q", want, rows[1])
	}
}

func TestRenderWideCoords(t *testing.T) {
	out, err := Render(mustParse(t, sampleWorld), catalog.Default(), Options{Wide: true, Coords: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	rows := strings.Split(out, "\n")
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if want := "０  ０  ＄      "; rows[2] != want {
		t.Errorf("Expected ruler digits widened too, got %q", rows[2])
	}
	if want := "        ０  １  "; rows[0] != want {
		t.Errorf("Expected widened plot header %q, got %q", want, rows[0])
	}
	if n := utf8.RuneCountInString(rows[1]); n != 12 {
		t.Errorf("Expected 12 runes in the in-plot header, got %d", n)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := Render(mustParse(t, sampleWorld), catalog.Default(), Options{HTML: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "<!doctype html>") {
		t.Error("Expected an HTML document")
	}
	if !strings.Contains(out, "<pre>\n$   \n %  \n</pre>") {
		t.Errorf("Expected grid inside <pre>, got %q", out)
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	c, err := catalog.Parse([]byte(`
entities:
  empty: {glyph: " "}
  keep: {glyph: "<"}
  capital: {glyph: "@"}
  construction: {glyph: "&"}
`))
	if err != nil {
		t.Fatalf("Failed to parse catalog: %v", err)
	}

	out, err := Render(mustParse(t, "size:1,1;plot_size:2,1;;0,0 keep:a;1,0 construction:farm;"), c, Options{HTML: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "&lt;&amp;") {
		t.Errorf("Expected escaped glyphs, got %q", out)
	}
}

func TestRenderANSI(t *testing.T) {
	world := mustParse(t, "size:1,1;plot_size:3,1;;0,0 road;1,0 keep;")
	out, err := Render(world, catalog.Default(), Options{ANSI: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "\x1b[") {
		t.Errorf("Expected ANSI escapes for the road, got %q", out)
	}
	if !strings.Contains(out, "/") || !strings.HasSuffix(out, "$ ") {
		t.Errorf("Expected glyphs to survive styling, got %q", out)
	}
}

func TestRenderUnknownEntity(t *testing.T) {
	world := mustParse(t, "size:1,1;plot_size:2,2;;1,1 dragon;")
	out, err := Render(world, catalog.Default(), Options{})
	if out != "" {
		t.Errorf("Expected no partial output, got %q", out)
	}

	var ue *catalog.UnknownEntityError
	if !errors.As(err, &ue) {
		t.Fatalf("Expected UnknownEntityError, got %v", err)
	}
	if ue.Label != "dragon" {
		t.Errorf("Expected label 'dragon', got %q", ue.Label)
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]string{"coords", "html", "wide"})
	if err != nil {
		t.Fatalf("ParseOptions failed: %v", err)
	}
	if opts != (Options{HTML: true, Wide: true, Coords: true}) {
		t.Errorf("Unexpected options %+v", opts)
	}

	if opts, err := ParseOptions(nil); err != nil || opts != (Options{}) {
		t.Errorf("Expected zero options for no tokens, got %+v, %v", opts, err)
	}

	if _, err := ParseOptions([]string{"wide", "huge"}); err == nil {
		t.Error("Expected an error for an unknown token")
	}
	if _, err := ParseOptions([]string{"ansi", "html"}); err == nil {
		t.Error("Expected an error for html with ansi")
	}
}
