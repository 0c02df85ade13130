package imagepkg

import (
	"bytes"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text, used to
// link a frame's catalogue examples from printed contact sheets.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	if _, err := png.DecodeConfig(bytes.NewReader(pngBytes)); err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}
	return pngBytes, nil
}
