package imagepkg

import (
	"context"
	"image"
)

// Compositor turns a portrait, an optional mask and frame assets into a
// finished icon.
type Compositor struct {
	resampler Resampler
	pool      *Pool
	onMissing func(MissingAsset)
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithResampler replaces the default Lanczos resampler.
func WithResampler(r Resampler) Option {
	return func(c *Compositor) { c.resampler = r }
}

// WithPool shares a scratch pool between compositors.
func WithPool(p *Pool) Option {
	return func(c *Compositor) { c.pool = p }
}

// WithMissingHook registers a callback for skipped decorative layers.
// Composition still succeeds when a layer is missing.
func WithMissingHook(fn func(MissingAsset)) Option {
	return func(c *Compositor) { c.onMissing = fn }
}

// NewCompositor builds a Compositor with a single scratch set unless
// WithPool says otherwise.
func NewCompositor(opts ...Option) *Compositor {
	c := &Compositor{resampler: Lanczos{}}
	for _, o := range opts {
		o(c)
	}
	if c.pool == nil {
		c.pool = NewPool(1)
	}
	return c
}

// Resampler returns the resampler in use.
func (c *Compositor) Resampler() Resampler {
	return c.resampler
}

// Compose renders d into a fresh Size()×Size() straight-alpha image owned
// by the caller. ctx is only consulted before work starts; a composition
// that has begun runs to completion.
func (c *Compositor) Compose(ctx context.Context, d Descriptor, portrait, mask image.Image, assets AssetSource) (*image.NRGBA, error) {
	if portrait == nil {
		return nil, &InvalidInputError{Frame: d.ID, What: "portrait is required"}
	}
	if d.UsesAlpha && mask == nil {
		return nil, &InvalidInputError{Frame: d.ID, What: "alpha mask is required"}
	}

	s, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Release()

	size := d.Size()
	inner := d.PortraitSize()
	out := image.NewNRGBA(image.Rect(0, 0, size, size))

	work := s.Portrait
	drawn := letterbox(c.resampler, work, portrait, inner)
	if d.UsesAlpha {
		letterbox(c.resampler, s.Mask, mask, inner)
		takeMaskAlpha(work, s.Mask)
	} else {
		opaque(work, drawn)
	}

	pasteCenter(out, work)

	if d.HasOverlay() {
		overlay := reshape(s.Overlay, size)
		c.drawOverlay(overlay, d, assets)
		Over(out, overlay)
	}

	Logger().Debug("composed frame", "frame", d.ID, "size", size, "portrait", inner)
	return out, nil
}

// opaque forces full alpha inside r and clears it elsewhere.
func opaque(img *image.NRGBA, r image.Rectangle) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if (image.Point{X: x, Y: y}).In(r) {
				img.Pix[i+3] = 255
			} else {
				img.Pix[i+3] = 0
			}
		}
	}
}

// drawOverlay stacks the decorative layers for d into dst. Mixed layers
// are always drawn top half, bottom half, border.
func (c *Compositor) drawOverlay(dst *image.NRGBA, d Descriptor, assets AssetSource) {
	size := dst.Rect.Dx()
	switch r := d.Recipe.(type) {
	case Mixed:
		if p, ok := assets.Halves(r.Top); ok && p.Top != nil {
			Over(dst, ToSize(c.resampler, p.Top, size))
		} else {
			c.missing(MissingAsset{Frame: d.ID, Layer: "top", Key: r.Top})
		}
		if p, ok := assets.Halves(r.Bottom); ok && p.Bottom != nil {
			Over(dst, ToSize(c.resampler, p.Bottom, size))
		} else {
			c.missing(MissingAsset{Frame: d.ID, Layer: "bottom", Key: r.Bottom})
		}
		if b, ok := assets.Border(); ok {
			Over(dst, ToSize(c.resampler, b, size))
		} else {
			c.missing(MissingAsset{Frame: d.ID, Layer: "border", Key: "mixed"})
		}
	case Single:
		if f, ok := assets.Frame(r.FrameID); ok {
			Over(dst, ToSize(c.resampler, f, size))
		} else {
			c.missing(MissingAsset{Frame: d.ID, Layer: "frame", Key: r.FrameID})
		}
	}
}

func (c *Compositor) missing(m MissingAsset) {
	Logger().Warn("skipping missing frame layer", "frame", m.Frame, "layer", m.Layer, "key", m.Key)
	if c.onMissing != nil {
		c.onMissing(m)
	}
}
