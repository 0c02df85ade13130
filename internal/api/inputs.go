package api

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	imagepkg "github.com/youruser/iconframe/internal/image"
	"github.com/youruser/iconframe/internal/naming"
)

var (
	errNoPortrait = errors.New("portrait or portrait_url is required")
	errBadForm    = errors.New("malformed form")
	errNoRemote   = errors.New("fetching images by URL is disabled")
)

type inputs struct {
	portrait image.Image
	mask     image.Image
	unit     string
}

// readImage decodes an uploaded file field, or fetches the "<field>_url"
// value. It returns a nil image when neither is present.
func readImage(c *gin.Context, field string, allowRemote bool) (image.Image, string, error) {
	if fh, err := c.FormFile(field); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		img, err := imagepkg.Decode(f)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", field, err)
		}
		return img, fh.Filename, nil
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return nil, "", fmt.Errorf("%w: %v", errBadForm, err)
	}
	if u := strings.TrimSpace(c.PostForm(field + "_url")); u != "" {
		if !allowRemote {
			return nil, "", fmt.Errorf("%s_url: %w", field, errNoRemote)
		}
		img, err := imagepkg.DownloadImage(u)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", field, err)
		}
		return img, u, nil
	}
	return nil, "", nil
}

// readInputs loads the portrait and mask fields and normalises them with
// imagepkg.PrepareInputs. clear_mask=true swaps in a blank mask.
func readInputs(c *gin.Context, allowRemote bool) (*inputs, error) {
	portrait, portraitName, err := readImage(c, "portrait", allowRemote)
	if err != nil {
		return nil, err
	}
	if portrait == nil {
		return nil, errNoPortrait
	}
	mask, _, err := readImage(c, "mask", allowRemote)
	if err != nil {
		return nil, err
	}

	portrait, mask = imagepkg.PrepareInputs(portrait, mask, c.PostForm("clear_mask") == "true")

	return &inputs{
		portrait: portrait,
		mask:     mask,
		unit:     naming.Unit(c.PostForm("unit"), naming.DeriveUnitName(portraitName)),
	}, nil
}

// formList collects a repeated form field, also splitting comma lists.
func formList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
