package imagepkg

import (
	"image"
	"math"
)

const (
	// FrameSize is the edge of a standard in-game icon.
	FrameSize = 128
	// InnerSize is the edge of the portrait window inside a frame.
	InnerSize = 114
	// QuickExportSize is used for the frameless portrait exports.
	QuickExportSize = 512
)

// InnerRatio scales InnerSize to any output size.
const InnerRatio = float64(InnerSize) / float64(FrameSize)

// Recipe says which overlay, if any, goes over the portrait.
// It is either Single or Mixed; a nil Recipe means no overlay.
type Recipe interface {
	recipe()
}

// Single overlays one decorative frame image.
type Single struct {
	FrameID string
}

// Mixed overlays the top half of one colour, the bottom half of another
// and the shared mixed border.
type Mixed struct {
	Top    string
	Bottom string
}

func (Single) recipe() {}
func (Mixed) recipe()  {}

// Descriptor identifies one composition.
type Descriptor struct {
	ID               string
	Recipe           Recipe
	UsesAlpha        bool
	FullSizePortrait bool
	OutputSize       int
}

// HasOverlay reports whether a frame is drawn over the portrait.
func (d Descriptor) HasOverlay() bool {
	return d.Recipe != nil
}

// Size returns the output edge length.
func (d Descriptor) Size() int {
	if d.OutputSize > 0 {
		return d.OutputSize
	}
	return FrameSize
}

// PortraitSize is the edge of the square the portrait is fitted into.
func (d Descriptor) PortraitSize() int {
	size := d.Size()
	if d.HasOverlay() && !d.FullSizePortrait {
		return int(math.Round(float64(size) * InnerRatio))
	}
	return size
}

// AssetSource provides the decorative layers. Images it returns are
// shared between compositions and must not be modified.
type AssetSource interface {
	Frame(id string) (image.Image, bool)
	Halves(colour string) (HalfPair, bool)
	Border() (image.Image, bool)
}

// StaticAssets is a fixed AssetSource.
type StaticAssets struct {
	Frames    map[string]image.Image
	HalfPairs map[string]HalfPair
	Mixed     image.Image
}

func (s StaticAssets) Frame(id string) (image.Image, bool) {
	img, ok := s.Frames[id]
	return img, ok && img != nil
}

func (s StaticAssets) Halves(colour string) (HalfPair, bool) {
	p, ok := s.HalfPairs[colour]
	return p, ok
}

func (s StaticAssets) Border() (image.Image, bool) {
	return s.Mixed, s.Mixed != nil
}
