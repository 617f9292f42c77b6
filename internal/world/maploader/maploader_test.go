package maploader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"chosenoffset.com/cadastre/internal/world/field"
)

const sampleWorld = "size:2,1;plot_size:2,2;;0,0 keep;1,1 forest;"

func TestParseSample(t *testing.T) {
	world, err := Parse(sampleWorld)
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}

	if got := world.TotalSize(); got != (field.Position{X: 4, Y: 2}) {
		t.Errorf("Expected total size 4,2, got %s", got)
	}
	if world.Len() != 2 {
		t.Errorf("Expected 2 tiles, got %d", world.Len())
	}
	if l, _ := world.Get(0, 0); l.Name != "keep" {
		t.Errorf("Expected keep at 0,0, got %q", l.Name)
	}
	if l, _ := world.Get(1, 1); l.Name != "forest" {
		t.Errorf("Expected forest at 1,1, got %q", l.Name)
	}
}

func TestParseMultilineWorld(t *testing.T) {
	text := `size:5,5; plot_size:10,10 ;;
			5,5 keep:user;
			0,5 woodcutter;

			15,4 keep:user;
			11,6 raider;`

	world, err := Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}
	if got := world.TotalSize(); got != (field.Position{X: 50, Y: 50}) {
		t.Errorf("Expected total size 50,50, got %s", got)
	}
	if world.Len() != 4 {
		t.Errorf("Expected 4 tiles, got %d", world.Len())
	}

	keep, ok := world.Get(15, 4)
	if !ok {
		t.Fatal("Expected a tile at 15,4")
	}
	if keep.Category != field.CategoryKeep || keep.Qualifier != "user" {
		t.Errorf("Expected keep category with qualifier user, got %v/%q", keep.Category, keep.Qualifier)
	}
}

func TestParseHeaderVariants(t *testing.T) {
	tests := []string{
		"size:2,1;plot_size:2,2;;",
		"size:2,1 plot_size:2,2;;",
		"  size:2,1 ;\n plot_size:2,2 ;;",
		"version:3;size:2,1;plot_size:2,2;seed:42;;",
		"size:2,1;plot_size:2,2",
		"size: 2,1; plot_size: 2,2;;",
		"size : 2 , 1\nplot_size:\t2, 2;;",
	}

	for _, text := range tests {
		world, err := Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", text, err)
			continue
		}
		if got := world.TotalSize(); got != (field.Position{X: 4, Y: 2}) {
			t.Errorf("Parse(%q): expected total size 4,2, got %s", text, got)
		}
	}
}

func TestParseMissingSize(t *testing.T) {
	tests := []string{
		"plot_size:2,2;;0,0 keep;",
		"size:2,2;;0,0 keep;",
		";;",
		"",
	}

	for _, text := range tests {
		_, err := Parse(text)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Parse(%q): expected FormatError, got %v", text, err)
			continue
		}
		if fe.Msg != "missing size/plot_size" {
			t.Errorf("Parse(%q): expected missing size message, got %q", text, fe.Msg)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		text  string
		entry int
	}{
		{"size:2,1;plot_size:2,2;;0,0 keep;x,1 forest;", 2},
		{"size:2,1;plot_size:2,2;;0,zero keep;", 1},
		{"size:2,1;plot_size:2,2;;0 keep;", 1},
		{"size:2,1;plot_size:2,2;;-1,0 keep;", 1},
		{"size:2,1;plot_size:2,2;;0,0;", 1},
		{"size:a,1;plot_size:2,2;;", 0},
		{"size:0,1;plot_size:2,2;;", 0},
		{"size:3037000500,1;plot_size:3037000500,1;;", 0},
		{"size:4096,4096;plot_size:2,2;;", 0},
	}

	for _, tt := range tests {
		world, err := Parse(tt.text)
		if world != nil {
			t.Errorf("Parse(%q): expected no partial world", tt.text)
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Parse(%q): expected FormatError, got %v", tt.text, err)
			continue
		}
		if fe.Entry != tt.entry {
			t.Errorf("Parse(%q): expected entry %d, got %d", tt.text, tt.entry, fe.Entry)
		}
	}
}

func TestParseLargestWorld(t *testing.T) {
	world, err := Parse("size:4096,1024;plot_size:2,2;;")
	if err != nil {
		t.Fatalf("Failed to parse world at the tile limit: %v", err)
	}
	if got := world.TotalSize(); got.X*got.Y != MaxTiles {
		t.Errorf("Expected %d tiles, got %s", MaxTiles, got)
	}
}

func TestParseBlankEntriesSkipped(t *testing.T) {
	world, err := Parse("size:1,1;plot_size:3,3;; ; 0,0 road;;  ;\n;2,2 rock;")
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}
	if world.Len() != 2 {
		t.Errorf("Expected 2 tiles after skipping blanks, got %d", world.Len())
	}
}

func TestParseLastWriteWins(t *testing.T) {
	world, err := Parse("size:1,1;plot_size:3,3;;1,1 road;1,1 farm;")
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}
	if l, _ := world.Get(1, 1); l.Name != "farm" {
		t.Errorf("Expected farm to overwrite road, got %q", l.Name)
	}
}

func TestParseKeepsOutOfBoundsTiles(t *testing.T) {
	world, err := Parse("size:1,1;plot_size:2,2;;5,5 raider;")
	if err != nil {
		t.Fatalf("Failed to parse world: %v", err)
	}
	if _, ok := world.Get(5, 5); !ok {
		t.Error("Expected the out-of-bounds tile to be stored")
	}
	if got := len(world.ToGrid()); got != 2 {
		t.Errorf("Expected grid height 2, got %d", got)
	}
}

func TestDecodeCompressed(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("Failed to create encoder: %v", err)
	}
	compressed := enc.EncodeAll([]byte(sampleWorld), nil)
	enc.Close()

	world, err := Decode(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("Failed to decode compressed world: %v", err)
	}
	if world.Len() != 2 {
		t.Errorf("Expected 2 tiles, got %d", world.Len())
	}
}

func TestDecodePlain(t *testing.T) {
	world, err := Decode(strings.NewReader(sampleWorld))
	if err != nil {
		t.Fatalf("Failed to decode world: %v", err)
	}
	if got := world.TotalSize(); got != (field.Position{X: 4, Y: 2}) {
		t.Errorf("Expected total size 4,2, got %s", got)
	}
}

func TestLoadWorld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.evil")
	if err := os.WriteFile(path, []byte(sampleWorld), 0o644); err != nil {
		t.Fatalf("Failed to write world file: %v", err)
	}

	world, err := LoadWorld(path)
	if err != nil {
		t.Fatalf("Failed to load world: %v", err)
	}
	if world.Len() != 2 {
		t.Errorf("Expected 2 tiles, got %d", world.Len())
	}

	if _, err := LoadWorld(filepath.Join(t.TempDir(), "missing.evil")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist for a missing file, got %v", err)
	}
}

func TestLoadWorldWrapsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.evil")
	if err := os.WriteFile(path, []byte("size:1,1;;"), 0o644); err != nil {
		t.Fatalf("Failed to write world file: %v", err)
	}

	_, err := LoadWorld(path)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected wrapped FormatError, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Expected error to name the file, got %q", err.Error())
	}
}
