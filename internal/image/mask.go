package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// centreOffset is round((outer-inner)/2).
func centreOffset(outer, inner int) int {
	return int(math.Round(float64(outer-inner) / 2))
}

// pasteCenter copies src into the middle of dst without blending.
// It returns the rectangle of dst that src now occupies.
func pasteCenter(dst, src *image.NRGBA) image.Rectangle {
	dw, dh := dst.Rect.Dx(), dst.Rect.Dy()
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	off := image.Pt(centreOffset(dw, sw), centreOffset(dh, sh))
	r := image.Rect(0, 0, sw, sh).Add(off).Intersect(image.Rect(0, 0, dw, dh))
	if r.Empty() {
		return r
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sx, sy := r.Min.X-off.X, y-off.Y
		srow := src.Pix[sy*src.Stride+sx*4 : sy*src.Stride+(sx+r.Dx())*4]
		copy(dst.Pix[y*dst.Stride+r.Min.X*4:], srow)
	}
	return r
}

// letterbox fits img into a size×size square and centres it in buf.
func letterbox(r Resampler, buf *image.NRGBA, img image.Image, size int) image.Rectangle {
	reshape(buf, size)
	return pasteCenter(buf, fitted(r, img, size))
}

// takeMaskAlpha sets every alpha in dst from the red channel of mask.
// Both must have identical bounds.
func takeMaskAlpha(dst, mask *image.NRGBA) {
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i+3] = mask.Pix[i]
	}
}

// ApplyMask fits portrait and mask independently into a size×size square,
// centring each on its own, and returns the portrait colours with the
// mask's red channel as straight alpha.
func ApplyMask(r Resampler, portrait, mask image.Image, size int) *image.NRGBA {
	out := &image.NRGBA{}
	m := &image.NRGBA{}
	letterbox(r, out, portrait, size)
	letterbox(r, m, mask, size)
	takeMaskAlpha(out, m)
	return out
}

// HasTransparency reports whether any pixel of img is not fully opaque.
func HasTransparency(img image.Image) bool {
	n := imaging.Clone(img)
	for i := 3; i < len(n.Pix); i += 4 {
		if n.Pix[i] < 255 {
			return true
		}
	}
	return false
}

// SplitAlpha separates an image with transparency into an opaque colour
// image and a greyscale mask holding the original alpha.
func SplitAlpha(img image.Image) (rgb, mask *image.NRGBA) {
	rgb = imaging.Clone(img)
	mask = image.NewNRGBA(rgb.Rect)
	for i := 0; i < len(rgb.Pix); i += 4 {
		a := rgb.Pix[i+3]
		rgb.Pix[i+3] = 255
		mask.Pix[i], mask.Pix[i+1], mask.Pix[i+2], mask.Pix[i+3] = a, a, a, 255
	}
	return rgb, mask
}

// AlphaAsGreyscale turns an image's alpha channel into an opaque greyscale mask.
func AlphaAsGreyscale(img image.Image) *image.NRGBA {
	_, mask := SplitAlpha(img)
	return mask
}

// BlankMask is the mask used once a user clears theirs: a single white
// pixel, which scales to full opacity.
func BlankMask() *image.NRGBA {
	return imaging.New(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

// StretchMask scales a mask to size×size ignoring its aspect ratio.
func StretchMask(r Resampler, mask image.Image, size int) *image.NRGBA {
	return r.Resize(mask, Dim(float64(size)), Dim(float64(size)))
}

// PrepareInputs normalises an uploaded portrait and mask. A portrait with
// transparency always becomes opaque colour; its alpha serves as the mask
// only when no mask was given. A mask with transparency is read by its
// alpha, and a cleared mask becomes BlankMask.
func PrepareInputs(portrait, mask image.Image, clearMask bool) (image.Image, image.Image) {
	var split image.Image
	if portrait != nil && HasTransparency(portrait) {
		portrait, split = SplitAlpha(portrait)
	}
	switch {
	case clearMask:
		mask = BlankMask()
	case mask == nil:
		mask = split
	case HasTransparency(mask):
		mask = AlphaAsGreyscale(mask)
	}
	return portrait, mask
}
