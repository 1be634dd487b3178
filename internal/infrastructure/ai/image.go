package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandpulse/content-api/internal/core/domain"
)

const defaultImageTimeout = 20 * time.Second

// ImageClient generates images through a URL-templated provider: the
// prompt is encoded into the path of a GET endpoint that renders the
// image on demand (pollinations.ai style). The endpoint is probed once
// so an unreachable provider surfaces as an error instead of a dead
// link stored on the job; the canonical prompt URL is what gets stored.
// It satisfies ports.ImageGenerator.
type ImageClient struct {
	baseURL    string
	apiKey     string
	width      int
	height     int
	httpClient *http.Client
}

// NewImageClient builds an ImageClient. Zero width/height default to
// 1080x1080, zero timeout to 20s.
func NewImageClient(baseURL, apiKey string, width, height int, timeout time.Duration) *ImageClient {
	if width <= 0 {
		width = 1080
	}
	if height <= 0 {
		height = 1080
	}
	if timeout <= 0 {
		timeout = defaultImageTimeout
	}
	return &ImageClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		width:      width,
		height:     height,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate returns the image URL for prompt after verifying the provider
// actually serves an image for it.
func (c *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	imageURL := fmt.Sprintf("%s/%s?width=%d&height=%d",
		c.baseURL, url.PathEscape(prompt), c.width, c.height)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build image request: %v", domain.ErrUpstream, err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: image request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused; the bytes themselves are
	// not stored, only the URL.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: image provider returned status %d", domain.ErrUpstream, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: image provider returned %s instead of an image", domain.ErrUpstream, ct)
	}

	return imageURL, nil
}
