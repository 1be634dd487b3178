package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

const (
	defaultMediaUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultTweetURL       = "https://api.twitter.com/2/tweets"
	statusURLPrefix       = "https://x.com/i/status/"

	maxImageBytes = 5 << 20 // v1.1 media upload limit for static images
)

// Credentials are the four long-lived OAuth 1.0a values required to post.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether every credential is present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterAdapter publishes a generated tweet to X. When the tweet carries
// an image reference the adapter downloads the bytes, uploads them as
// media over the v1.1 endpoint, then posts the text with the media
// attached over the v2 endpoint. It satisfies ports.Publisher.
type TwitterAdapter struct {
	creds Credentials

	// signed issues OAuth 1.0a-signed requests; download fetches image
	// bytes without signing (redirects followed by default).
	signed   *http.Client
	download *http.Client

	mediaUploadURL string
	tweetURL       string
}

// TwitterOption customizes a TwitterAdapter; used by tests to point the
// adapter at local servers.
type TwitterOption func(*TwitterAdapter)

func WithEndpoints(mediaUploadURL, tweetURL string) TwitterOption {
	return func(a *TwitterAdapter) {
		a.mediaUploadURL = mediaUploadURL
		a.tweetURL = tweetURL
	}
}

func WithHTTPClients(signed, download *http.Client) TwitterOption {
	return func(a *TwitterAdapter) {
		a.signed = signed
		a.download = download
	}
}

// NewTwitterAdapter builds the adapter. Missing credentials do not fail
// construction: the adapter reports a configuration error per publish
// attempt instead, so other platforms keep working.
func NewTwitterAdapter(creds Credentials, opts ...TwitterOption) *TwitterAdapter {
	a := &TwitterAdapter{
		creds:          creds,
		download:       &http.Client{Timeout: 30 * time.Second},
		mediaUploadURL: defaultMediaUploadURL,
		tweetURL:       defaultTweetURL,
	}
	if creds.Complete() {
		cfg := oauth1.NewConfig(creds.APIKey, creds.APISecret)
		token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
		a.signed = cfg.Client(context.Background(), token)
		a.signed.Timeout = 30 * time.Second
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Publish posts the first tweet of the generated thread, attaching its
// image when one is referenced. Not idempotent: every call produces a
// new post.
func (a *TwitterAdapter) Publish(ctx context.Context, content any) (*ports.PublishOutcome, error) {
	tweets, ok := content.([]domain.TweetContent)
	if !ok || len(tweets) == 0 {
		return nil, errors.New("no tweet content to publish")
	}

	post := tweets[0]
	if post.Text == "" {
		return nil, errors.New("no tweet text found")
	}
	if !a.creds.Complete() || a.signed == nil {
		return nil, errors.New("Twitter API credentials are not configured")
	}

	var mediaID string
	if post.ImageURL != "" {
		imageBytes, mimeType, err := a.downloadImage(ctx, post.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to download media: %v", err)
		}
		mediaID, err = a.uploadMedia(ctx, imageBytes, mimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload media: %v", err)
		}
	}

	tweetID, err := a.postTweet(ctx, post.Text, mediaID)
	if err != nil {
		return nil, err
	}

	return &ports.PublishOutcome{
		URL:     statusURLPrefix + tweetID,
		Message: "Tweet posted",
	}, nil
}

func (a *TwitterAdapter) downloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := a.download.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		return nil, "", errors.New("image host did not declare a content type")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(body) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds the %dMB upload limit", maxImageBytes>>20)
	}
	return body, mimeType, nil
}

func (a *TwitterAdapter) uploadMedia(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="media"; filename="media"`)
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(imageBytes); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.mediaUploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := a.signed.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("media upload returned status %d", resp.StatusCode)
	}

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(body, &uploaded); err != nil || uploaded.MediaIDString == "" {
		return "", errors.New("media upload returned an unexpected response")
	}
	return uploaded.MediaIDString, nil
}

func (a *TwitterAdapter) postTweet(ctx context.Context, text, mediaID string) (string, error) {
	payload := map[string]any{"text": text}
	if mediaID != "" {
		payload["media"] = map[string]any{"media_ids": []string{mediaID}}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tweetURL, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.signed.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the API's own detail when it provides one.
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			return "", fmt.Errorf("Twitter API error: %s", apiErr.Detail)
		}
		return "", fmt.Errorf("tweet post returned status %d", resp.StatusCode)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Data.ID == "" {
		return "", errors.New("tweet post returned an unexpected response")
	}
	return created.Data.ID, nil
}
