package ports

import (
	"context"

	"github.com/brandpulse/content-api/internal/core/domain"
)

// PublishOutcome is what a platform adapter reports on success.
type PublishOutcome struct {
	// URL is the public link to the published post, when the platform
	// produces one (real integrations only).
	URL string
	// Message is a human-readable confirmation.
	Message string
	// Simulated marks adapters that do not perform a real network call.
	Simulated bool
}

// Publisher is the capability one platform adapter implements. Real and
// simulated adapters are interchangeable behind this interface; content
// is the platform-specific payload from the job's GeneratedContent.
type Publisher interface {
	Publish(ctx context.Context, content any) (*PublishOutcome, error)
}

// PlatformResult is the per-platform entry in a publish report.
type PlatformResult struct {
	Platform  domain.Platform `json:"platform"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	URL       string          `json:"url,omitempty"`
	Simulated bool            `json:"simulated,omitempty"`
}

// PublishReport aggregates the fan-out over all requested platforms.
type PublishReport struct {
	Results    []PlatformResult `json:"results"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
}

// PublishService fans a completed job out to the chosen platform adapters.
type PublishService interface {
	Publish(ctx context.Context, userID, jobID string, platforms []domain.Platform) (*PublishReport, error)
}
