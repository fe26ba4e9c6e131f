// Package ytthumb locates YouTube video thumbnails on i.ytimg.com.
package ytthumb

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
)

const DefaultBaseURL = "https://i.ytimg.com/vi"

// Qualities in the order they should be tried, best first.
var Qualities = []string{"maxresdefault", "sddefault", "hqdefault"}

var (
	ErrThumbnailNotFound = errors.New("thumbnail not found")
	ErrNotAnImage        = errors.New("response is not an image")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) URL(videoID, quality string) string {
	return fmt.Sprintf("%s/%s/%s.jpg", c.baseURL, videoID, quality)
}

// Width downloads the image header at url and returns its pixel width.
// i.ytimg.com answers a missing maxres/sd thumbnail with a 120px wide
// placeholder and status 200 or 404, so the width is what callers check.
func (c *Client) Width(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// the placeholder comes with a 404 body that is still an image
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return 0, ErrThumbnailNotFound
		}
		return 0, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}

	return cfg.Width, nil
}
