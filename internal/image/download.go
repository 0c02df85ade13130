package imagepkg

import (
	"bytes"
	"fmt"
	"image"

	"github.com/youruser/iconframe/internal/util"
)

// DownloadImage fetches a portrait or mask from a URL and decodes it.
func DownloadImage(url string) (image.Image, error) {
	body, err := util.GetBytes(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return Decode(bytes.NewReader(body))
}
