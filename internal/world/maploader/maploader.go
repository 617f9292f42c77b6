// Package maploader reads world files into a field.Field.
//
// A world file is a header of key:value entries followed by a body of tile
// entries, separated by the terminator ";;":
//
//	size:5,5; plot_size:10,10 ;;
//	5,5 keep:alice;
//	6,2 stockpile;
//
// Files may be zstd-compressed; Decode detects the frame magic.
package maploader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/klauspost/compress/zstd"

	"chosenoffset.com/cadastre/internal/world/field"
)

// Terminator separates the header from the tile body.
const Terminator = ";;"

// MaxTiles caps the number of tiles a world may span.
const MaxTiles = 1 << 24

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// headerSpace matches blanks around the separators inside a header value.
var headerSpace = regexp.MustCompile(`\s*([:,])\s*`)

// FormatError reports a malformed world file. Entry is the 1-based index of
// the offending body entry, or 0 for header problems.
type FormatError struct {
	Entry int
	Text  string
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Entry > 0 {
		return fmt.Sprintf("world format: entry %d %q: %s", e.Entry, e.Text, e.Msg)
	}
	if e.Text != "" {
		return fmt.Sprintf("world format: %q: %s", e.Text, e.Msg)
	}
	return "world format: " + e.Msg
}

// LoadWorld reads and parses a world file, compressed or not.
func LoadWorld(path string) (*field.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open world file %s: %w", path, err)
	}
	defer f.Close()

	world, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load world file %s: %w", path, err)
	}
	return world, nil
}

// Decode reads a whole world description from r.
func Decode(r io.Reader) (*field.Field, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read world: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress world: %w", err)
		}
	}

	return Parse(string(data))
}

// Parse builds a field from world text. Any malformed entry aborts the whole
// parse with a *FormatError.
func Parse(text string) (*field.Field, error) {
	header, body, _ := strings.Cut(text, Terminator)

	size, plotSize, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	world := field.New(size, plotSize)
	for i, item := range strings.Split(body, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		pos, label, err := parseEntry(item)
		if err != nil {
			return nil, &FormatError{Entry: i + 1, Text: item, Msg: err.Error()}
		}
		world.Set(pos, label)
	}

	return world, nil
}

func parseHeader(header string) (size, plotSize field.Position, err error) {
	var haveSize, havePlotSize bool

	header = headerSpace.ReplaceAllString(header, "$1")
	entries := strings.FieldsFunc(header, func(r rune) bool {
		return r == ';' || unicode.IsSpace(r)
	})
	for _, entry := range entries {
		key, value, _ := strings.Cut(entry, ":")
		switch strings.TrimSpace(key) {
		case "size":
			size, err = parseSize(value)
			haveSize = true
		case "plot_size":
			plotSize, err = parseSize(value)
			havePlotSize = true
		}
		if err != nil {
			return size, plotSize, &FormatError{Text: entry, Msg: err.Error()}
		}
	}

	if !haveSize || !havePlotSize {
		return size, plotSize, &FormatError{Msg: "missing size/plot_size"}
	}
	if !fits(size, plotSize) {
		return size, plotSize, &FormatError{Msg: fmt.Sprintf("world of %s plots of %s exceeds %d tiles", size, plotSize, MaxTiles)}
	}
	return size, plotSize, nil
}

// fits reports whether the world spans at most MaxTiles tiles. Both sizes
// are positive.
func fits(size, plotSize field.Position) bool {
	if size.X > MaxTiles/plotSize.X || size.Y > MaxTiles/plotSize.Y {
		return false
	}
	w, h := size.X*plotSize.X, size.Y*plotSize.Y
	return h <= MaxTiles/w
}

func parseSize(s string) (field.Position, error) {
	p, err := parsePos(s)
	if err != nil {
		return p, err
	}
	if p.X <= 0 || p.Y <= 0 {
		return p, fmt.Errorf("size must be positive, got %s", p)
	}
	return p, nil
}

func parseEntry(item string) (field.Position, field.Label, error) {
	posText, rest := item, ""
	if i := strings.IndexFunc(item, unicode.IsSpace); i >= 0 {
		posText, rest = item[:i], item[i:]
	}

	pos, err := parsePos(posText)
	if err != nil {
		return pos, field.Label{}, err
	}
	if pos.X < 0 || pos.Y < 0 {
		return pos, field.Label{}, fmt.Errorf("negative position %s", pos)
	}

	name := strings.TrimSpace(rest)
	if name == "" {
		return pos, field.Label{}, fmt.Errorf("missing entity label")
	}
	return pos, field.ParseLabel(name), nil
}

func parsePos(s string) (field.Position, error) {
	xs, ys, _ := strings.Cut(s, ",")
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return field.Position{}, fmt.Errorf("invalid position %q: x is not an integer", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return field.Position{}, fmt.Errorf("invalid position %q: y is not an integer", s)
	}
	return field.Position{X: x, Y: y}, nil
}
