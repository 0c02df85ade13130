package imagepkg

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Resampler scales an image to an exact size. Implementations must be
// high quality; output is used for shipped game assets.
type Resampler interface {
	Resize(src image.Image, width, height int) *image.NRGBA
}

// Lanczos resamples with a 3-lobe Lanczos filter. imaging weights samples
// by alpha, so transparent pixels do not bleed colour into their neighbours.
type Lanczos struct{}

func (Lanczos) Resize(src image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(src, width, height, imaging.Lanczos)
}

// CatmullRom resamples with a bicubic kernel from x/image/draw.
type CatmullRom struct{}

func (CatmullRom) Resize(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ResamplerByName maps a config value to a Resampler. Empty means Lanczos.
func ResamplerByName(name string) (Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos":
		return Lanczos{}, nil
	case "catmullrom", "bicubic":
		return CatmullRom{}, nil
	default:
		return nil, fmt.Errorf("unknown resample filter %q", name)
	}
}

// Dim rounds a target dimension to the nearest integer, never below 1.
func Dim(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// ResizeTo resizes src to the rounded target size.
func ResizeTo(r Resampler, src image.Image, width, height float64) *image.NRGBA {
	return r.Resize(src, Dim(width), Dim(height))
}

// FitSquare returns the size of img scaled to fit inside a target square
// with its aspect ratio kept. Degenerate sources fill the square.
func FitSquare(img image.Image, target int) (float64, float64) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return float64(target), float64(target)
	}
	ratio := math.Min(float64(target)/float64(b.Dx()), float64(target)/float64(b.Dy()))
	return float64(b.Dx()) * ratio, float64(b.Dy()) * ratio
}

// fitted resizes img into a target square keeping aspect ratio.
func fitted(r Resampler, img image.Image, target int) *image.NRGBA {
	w, h := FitSquare(img, target)
	return ResizeTo(r, img, w, h)
}

// ToSize returns img as a tightly packed NRGBA of exactly size×size,
// resampling only when the dimensions differ. The result may be img itself.
func ToSize(r Resampler, img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*size {
			return n
		}
		return imaging.Clone(img)
	}
	return r.Resize(img, size, size)
}
