package frames

import (
	"fmt"
	"strings"

	imagepkg "github.com/youruser/iconframe/internal/image"
)

const mixedPrefix = "mixed-"

// Quick export ids. These frames have no overlay and render at
// imagepkg.QuickExportSize.
const (
	GameFormatID   = "game"
	PortraitOnlyID = "portrait"
)

// QuickExports are the frameless portrait exports.
var QuickExports = []Frame{
	{
		ID:         GameFormatID,
		Name:       "Game-ready portrait + alpha",
		Usage:      "Portrait with the alpha mask applied, for the game's portrait slot.",
		UsesAlpha:  true,
		Filename:   "{unit}_portrait_alpha.png",
		OutputSize: imagepkg.QuickExportSize,
	},
	{
		ID:         PortraitOnlyID,
		Name:       "Portrait RGB",
		Usage:      "Portrait without mask.",
		Filename:   "{unit}_portrait.png",
		OutputSize: imagepkg.QuickExportSize,
	},
}

// Selection picks frames out of a catalogue.
type Selection struct {
	Singles []string `json:"singles"`
	Tops    []string `json:"tops"`
	Bottoms []string `json:"bottoms"`
}

// MixedID names the mixed frame for a colour pair.
func MixedID(top, bottom string) string {
	return mixedPrefix + top + "-" + bottom
}

func contains(hay []string, needle string) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

// MixedCombos returns every mixed frame whose top colour is in tops and
// bottom colour in bottoms, skipping same-colour pairs. Order follows the
// catalogue's colour list, top-major.
func (c *Catalogue) MixedCombos(tops, bottoms []string) []Frame {
	var out []Frame
	for _, top := range c.MixedColours {
		if !contains(tops, top.ID) {
			continue
		}
		for _, bottom := range c.MixedColours {
			if !contains(bottoms, bottom.ID) || top.ID == bottom.ID {
				continue
			}
			out = append(out, c.mixed(top, bottom))
		}
	}
	return out
}

func (c *Catalogue) mixed(top, bottom Colour) Frame {
	meta := c.MixedDescriptions[top.ID+"-"+bottom.ID]
	f := Frame{
		ID:          MixedID(top.ID, bottom.ID),
		Name:        top.Name + " + " + bottom.Name,
		Usage:       meta.Usage,
		Description: meta.Description,
		Filename:    "hc_{unit}_" + top.ID + "_" + bottom.ID + ".png",
		Examples:    meta.Examples,
		IsMixed:     true,
		Top:         top.ID,
		Bottom:      bottom.ID,
	}
	if f.Usage == "" {
		f.Usage = "Mixed frame: " + top.Name + " + " + bottom.Name
	}
	if f.Description == "" {
		f.Description = f.Usage
	}
	return f
}

// Lookup resolves a single, mixed or quick-export frame id.
func (c *Catalogue) Lookup(id string) (Frame, error) {
	if f, ok := c.Single(id); ok {
		return f, nil
	}
	for _, q := range QuickExports {
		if q.ID == id {
			return q, nil
		}
	}
	if rest, ok := strings.CutPrefix(id, mixedPrefix); ok {
		for _, top := range c.MixedColours {
			bottomID, ok := strings.CutPrefix(rest, top.ID+"-")
			if !ok || bottomID == top.ID {
				continue
			}
			if bottom, ok := c.colour(bottomID); ok {
				return c.mixed(top, bottom), nil
			}
		}
	}
	return Frame{}, fmt.Errorf("%w: %q", ErrUnknownFrame, id)
}

// Select resolves ids in order. Unknown ids are an error.
func (c *Catalogue) Select(ids []string) ([]Frame, error) {
	out := make([]Frame, 0, len(ids))
	for _, id := range ids {
		f, err := c.Lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Resolve returns the chosen singles in catalogue order followed by the
// generated mixed frames.
func (c *Catalogue) Resolve(sel Selection) []Frame {
	var out []Frame
	for _, f := range c.Singles {
		if contains(sel.Singles, f.ID) {
			out = append(out, f)
		}
	}
	return append(out, c.MixedCombos(sel.Tops, sel.Bottoms)...)
}

// AllSingleIDs lists every single frame id.
func (c *Catalogue) AllSingleIDs() []string {
	ids := make([]string, len(c.Singles))
	for i, f := range c.Singles {
		ids[i] = f.ID
	}
	return ids
}

// AllColourIDs lists every mixed colour id.
func (c *Catalogue) AllColourIDs() []string {
	ids := make([]string, len(c.MixedColours))
	for i, col := range c.MixedColours {
		ids[i] = col.ID
	}
	return ids
}

// Descriptor turns a catalogue frame into a composition recipe. A single
// without a source image has no overlay.
func (f Frame) Descriptor() imagepkg.Descriptor {
	d := imagepkg.Descriptor{
		ID:               f.ID,
		UsesAlpha:        f.UsesAlpha,
		FullSizePortrait: f.FullSizePortrait,
		OutputSize:       f.OutputSize,
	}
	switch {
	case f.IsMixed:
		d.Recipe = imagepkg.Mixed{Top: f.Top, Bottom: f.Bottom}
	case f.Src != "":
		d.Recipe = imagepkg.Single{FrameID: f.ID}
	}
	return d
}
