package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// EncodePNG writes img as a PNG. NRGBA pixels are stored as-is, so every
// channel value survives a round trip.
func EncodePNG(w io.Writer, img *image.NRGBA) error {
	err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return &CodecError{Op: "encode", Err: err}
	}
	return nil
}

// EncodeRaw encodes a row-major, non-premultiplied RGBA buffer.
func EncodeRaw(pix []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, &CodecError{
			Op:  "encode",
			Err: fmt.Errorf("buffer of %d bytes does not hold %dx%d RGBA", len(pix), width, height),
		}
	}
	img := &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRaw decodes PNG bytes into a row-major, non-premultiplied RGBA buffer.
func DecodeRaw(data []byte) (pix []byte, width, height int, err error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, &CodecError{Op: "decode", Err: err}
	}
	n := imaging.Clone(img)
	return n.Pix, n.Rect.Dx(), n.Rect.Dy(), nil
}

// Decode reads any format imaging understands (PNG, JPEG, GIF, BMP, TIFF).
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}
	return img, nil
}

// PNGBytes is EncodePNG into memory.
func PNGBytes(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
