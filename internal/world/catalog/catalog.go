// Package catalog maps entity labels to the way they are displayed: a glyph,
// a style for the interactive view, and the actions a player may take on them.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/cadastre/internal/render"
	"chosenoffset.com/cadastre/internal/world/field"
)

// EmptyKey is the catalog entry used for tiles with no entity.
const EmptyKey = "empty"

//go:embed default.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON string

// EntityView is the display record of an entity.
type EntityView struct {
	Glyph   string       // One or two characters
	Style   render.Style // Zero when the entity is drawn in the base style
	Actions []string     // Action descriptors, in menu order
}

// UnknownEntityError reports a label with neither an exact entry nor a
// category to fall back to.
type UnknownEntityError struct {
	Label string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.Label)
}

// Catalog is an immutable label -> EntityView table.
type Catalog struct {
	Name    string
	entries map[string]EntityView
}

// catalogFile is the YAML layout of a catalog.
type catalogFile struct {
	Name     string               `yaml:"name"`
	Entities map[string]entityDef `yaml:"entities"`
}

type entityDef struct {
	Glyph   string    `yaml:"glyph"`
	Style   *styleDef `yaml:"style"`
	Actions []string  `yaml:"actions"`
}

type styleDef struct {
	Fg        *int `yaml:"fg"`
	Bg        *int `yaml:"bg"`
	Bold      bool `yaml:"bold"`
	Underline bool `yaml:"underline"`
	Reverse   bool `yaml:"reverse"`
	Blink     bool `yaml:"blink"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	schemaOnce     sync.Once
	catalogSchema  *jsonschema.Schema
	schemaErr      error
)

// Default returns the built-in catalog shared by the whole process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Open loads the catalog at path, or returns Default when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		Name:    file.Name,
		entries: make(map[string]EntityView, len(file.Entities)),
	}
	for key, def := range file.Entities {
		c.entries[key] = EntityView{
			Glyph:   def.Glyph,
			Style:   def.Style.toStyle(),
			Actions: def.Actions,
		}
	}

	for _, key := range requiredKeys() {
		if _, ok := c.entries[key]; !ok {
			return nil, fmt.Errorf("catalog is missing the %q entry", key)
		}
	}

	return c, nil
}

// validate checks the document against the embedded JSON schema. YAML is
// round-tripped through JSON so the validator sees plain JSON values.
func validate(data []byte) error {
	schemaOnce.Do(func() {
		catalogSchema, schemaErr = jsonschema.CompileString("catalog.schema.json", catalogSchemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile catalog schema: %w", schemaErr)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := catalogSchema.Validate(value); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

// requiredKeys are the entries resolution may fall back to.
func requiredKeys() []string {
	return []string{
		EmptyKey,
		field.CategoryKeep.String(),
		field.CategoryCapital.String(),
		field.CategoryConstruction.String(),
	}
}

func (s *styleDef) toStyle() render.Style {
	if s == nil {
		return render.Style{}
	}
	style := render.Style{
		Bold:      s.Bold,
		Underline: s.Underline,
		Reverse:   s.Reverse,
		Blink:     s.Blink,
	}
	if s.Fg != nil {
		style.Fg = render.PaletteColor(*s.Fg)
	}
	if s.Bg != nil {
		style.Bg = render.PaletteColor(*s.Bg)
	}
	return style
}

// Resolve returns the display record of a label: the exact entry if there is
// one, otherwise the base entry of the label's category. The zero label
// resolves to the empty entry.
func (c *Catalog) Resolve(l field.Label) (EntityView, error) {
	key := l.Name
	if l.IsZero() {
		key = EmptyKey
	}
	view, ok := c.entries[key]
	if !ok && l.Category != field.CategoryNone {
		view, ok = c.entries[l.Category.String()]
	}
	if !ok {
		return EntityView{}, &UnknownEntityError{Label: l.Name}
	}
	view.Actions = slices.Clone(view.Actions)
	return view, nil
}

// Lookup resolves a label given as text.
func (c *Catalog) Lookup(name string) (EntityView, error) {
	return c.Resolve(field.ParseLabel(name))
}

// Names returns the catalog keys in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
