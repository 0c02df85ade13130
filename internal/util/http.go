package util

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MaxDownload caps remote image bodies.
const MaxDownload = 32 << 20

// ErrUnsupportedURL rejects anything but absolute http and https URLs.
var ErrUnsupportedURL = errors.New("only http and https URLs can be fetched")

// GetBytes fetches rawURL and returns its body. Non-2xx responses are errors.
func GetBytes(rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	client := http.Client{Timeout: 12 * time.Second}
	resp, err := client.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxDownload))
}
