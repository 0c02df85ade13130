package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// Half selects one triangle of a frame split along its main diagonal.
type Half int

const (
	// Top keeps the triangle top-left, top-right, bottom-right.
	Top Half = iota
	// Bottom keeps the triangle bottom-left, bottom-right, top-left.
	Bottom
)

func (h Half) String() string {
	if h == Top {
		return "top"
	}
	return "bottom"
}

// HalfPair holds both triangles of one colour's frame.
type HalfPair struct {
	Top    *image.NRGBA
	Bottom *image.NRGBA
}

// NewHalfPair splits frame into its top and bottom triangles.
func NewHalfPair(frame image.Image) HalfPair {
	return HalfPair{
		Top:    SplitHalf(frame, Top),
		Bottom: SplitHalf(frame, Bottom),
	}
}

// inTop reports whether the centre of pixel (x, y) lies on or above the
// diagonal from (0,0) to (w,h). Pixels on the diagonal belong to Top so
// that the two halves partition the frame.
func inTop(x, y, w, h int) bool {
	return (2*x+1)*h >= (2*y+1)*w
}

// SplitHalf returns a copy of frame with every pixel outside the chosen
// triangle cleared to transparent black. The result has the dimensions of
// frame and is a fresh image, so callers may cache it.
func SplitHalf(frame image.Image, which Half) *image.NRGBA {
	dst := imaging.Clone(frame)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			if inTop(x, y, w, h) == (which == Top) {
				continue
			}
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
		}
	}
	return dst
}
