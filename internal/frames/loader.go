package frames

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// ErrUnknownFrame is returned for ids that are neither catalogue singles
// nor valid mixed combinations.
var ErrUnknownFrame = errors.New("unknown frame")

// Default returns the built-in catalogue.
func Default() *Catalogue {
	c, err := Parse(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("frames: embedded catalogue: %v", err))
	}
	return c
}

// Load reads a catalogue from a YAML file. An empty path means the
// built-in catalogue.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalogue YAML.
func Parse(b []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, f := range c.Singles {
		if f.ID == "" {
			return nil, fmt.Errorf("frame %q has no id", f.Name)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("duplicate frame id %q", f.ID)
		}
		seen[f.ID] = true
	}
	colours := map[string]bool{}
	for _, col := range c.MixedColours {
		if col.ID == "" {
			return nil, fmt.Errorf("mixed colour %q has no id", col.Name)
		}
		if colours[col.ID] {
			return nil, fmt.Errorf("duplicate mixed colour %q", col.ID)
		}
		// mixed ids join two colours with "-"
		if strings.Contains(col.ID, "-") {
			return nil, fmt.Errorf("mixed colour id %q must not contain '-'", col.ID)
		}
		colours[col.ID] = true
	}
	if c.MixedDescriptions == nil {
		c.MixedDescriptions = map[string]MixedMeta{}
	}
	return &c, nil
}

// Single returns the catalogue single with the given id.
func (c *Catalogue) Single(id string) (Frame, bool) {
	for _, f := range c.Singles {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}

func (c *Catalogue) colour(id string) (Colour, bool) {
	for _, col := range c.MixedColours {
		if col.ID == id {
			return col, true
		}
	}
	return Colour{}, false
}
