package ports

import (
	"context"

	"github.com/brandpulse/content-api/internal/core/domain"
)

// TextGenerator produces the raw text answer for a single free-form
// instruction. Implementations talk to a generative-text provider and
// must honour ctx deadlines.
type TextGenerator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

// ImageGenerator turns a text prompt into a single image reference (a
// fetchable URL or an embedded data URL).
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationService drives the prompt → job workflow.
type GenerationService interface {
	// Generate creates a job for the user's prompt, calls the upstream
	// providers, and returns the job in a terminal state. On upstream
	// failure the returned error wraps domain.ErrUpstream and the job
	// (also returned, when one was created) is marked failed.
	Generate(ctx context.Context, userID, prompt string) (*domain.Job, error)
	GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error)
	ListJobs(ctx context.Context, userID string, limit int) ([]*domain.Job, error)
}
