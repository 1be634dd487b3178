package handler

import (
	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

// --- Request / Response types ---

type generateRequest struct {
	Prompt string `json:"prompt" validate:"required,min=10"`
}

type generateResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Job     *domain.Job `json:"job,omitempty"`
	// JobID is set on generation failures so the client can correlate
	// the failed job record.
	JobID string `json:"jobId,omitempty"`
}

type publishRequest struct {
	JobID     string   `json:"jobId"     validate:"required"`
	Platforms []string `json:"platforms" validate:"required,min=1"`
}

type publishResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Results []ports.PlatformResult `json:"results"`
}

type jobListResponse struct {
	Success bool          `json:"success"`
	Jobs    []*domain.Job `json:"jobs"`
}

type jobResponse struct {
	Success bool        `json:"success"`
	Job     *domain.Job `json:"job"`
}
