// Command cadastre-export renders an Evil Cadastre world read from stdin as
// text, ANSI-colored text, or an HTML page.
//
//	cadastre-export [-catalog file] [html] [wide] [coords] [ansi] < world > out
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"chosenoffset.com/cadastre/internal/render/grid"
	"chosenoffset.com/cadastre/internal/world/catalog"
	"chosenoffset.com/cadastre/internal/world/maploader"
)

func main() {
	catalogPath := flag.String("catalog", "", "entity catalog YAML file (default: built-in catalog)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-catalog file] [html] [wide] [coords] [ansi] < world > out\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *catalogPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run reads a world from in and writes the rendered grid to out.
func run(in io.Reader, out io.Writer, catalogPath string, tokens []string) error {
	opts, err := grid.ParseOptions(tokens)
	if err != nil {
		return err
	}

	c, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}

	world, err := maploader.Decode(in)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	text, err := grid.Render(world, c, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
