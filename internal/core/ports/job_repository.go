package ports

import (
	"context"
	"time"

	"github.com/brandpulse/content-api/internal/core/domain"
)

// JobRepository defines persistence operations for generation jobs.
//
// MarkCompleted and MarkFailed are single-document writes: status and the
// accompanying content/error land atomically, so no reader ever observes
// a completed job without content or a failed job without an error.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	// FindByID retrieves a job scoped to its owner. A job belonging to a
	// different user is reported as domain.ErrJobNotFound.
	FindByID(ctx context.Context, id, userID string) (*domain.Job, error)
	MarkCompleted(ctx context.Context, id string, content *domain.GeneratedContent, completedAt time.Time) (*domain.Job, error)
	MarkFailed(ctx context.Context, id string, errMsg string) error
	// ListByUser returns the owner's jobs, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Job, error)
}
