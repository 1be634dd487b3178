package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brandpulse/content-api/internal/api/metrics"
	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

// PublishService fans a completed job out to per-platform adapters.
// Adapters are looked up in a registry, so adding a platform means
// registering an implementation, not editing a switch. One platform's
// failure never aborts the others.
type PublishService struct {
	jobs     ports.JobRepository
	adapters map[domain.Platform]ports.Publisher
	logger   zerolog.Logger
}

func NewPublishService(jobs ports.JobRepository, adapters map[domain.Platform]ports.Publisher, logger zerolog.Logger) *PublishService {
	if adapters == nil {
		adapters = map[domain.Platform]ports.Publisher{}
	}
	return &PublishService{jobs: jobs, adapters: adapters, logger: logger}
}

// Register adds or replaces the adapter for a platform.
func (s *PublishService) Register(p domain.Platform, adapter ports.Publisher) {
	s.adapters[p] = adapter
}

// Publish delivers the job's content to each requested platform and
// reports per-platform outcomes. The job must belong to userID (foreign
// jobs read as not found) and must be completed, otherwise no adapter is
// called at all.
func (s *PublishService) Publish(ctx context.Context, userID, jobID string, platforms []domain.Platform) (*ports.PublishReport, error) {
	job, err := s.jobs.FindByID(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobCompleted {
		return nil, domain.ErrJobNotReady
	}

	report := &ports.PublishReport{Results: make([]ports.PlatformResult, 0, len(platforms))}
	for _, platform := range platforms {
		result := s.publishOne(ctx, job, platform)
		if result.Success {
			report.Successful++
			metrics.PublishResultsTotal.WithLabelValues(string(platform), "success").Inc()
		} else {
			report.Failed++
			metrics.PublishResultsTotal.WithLabelValues(string(platform), "failure").Inc()
		}
		report.Results = append(report.Results, result)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Msg("publish fan-out finished")
	return report, nil
}

// publishOne dispatches a single platform and converts every failure,
// including adapter panics, into a failed result entry.
func (s *PublishService) publishOne(ctx context.Context, job *domain.Job, platform domain.Platform) (result ports.PlatformResult) {
	result = ports.PlatformResult{Platform: platform}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("platform", string(platform)).Interface("panic", r).Msg("publish adapter panicked")
			result.Success = false
			result.URL = ""
			result.Message = fmt.Sprintf("%s adapter failed unexpectedly", platform)
		}
	}()

	content, ok := job.GeneratedContent.ForPlatform(platform)
	if !ok {
		result.Message = fmt.Sprintf("No %s content", platform)
		return result
	}

	adapter, ok := s.adapters[platform]
	if !ok {
		result.Message = "Platform not supported"
		return result
	}

	outcome, err := adapter.Publish(ctx, content)
	if err != nil {
		s.logger.Warn().Err(err).Str("platform", string(platform)).Str("job_id", job.ID).Msg("platform publish failed")
		result.Message = err.Error()
		return result
	}

	result.Success = true
	result.Message = outcome.Message
	result.URL = outcome.URL
	result.Simulated = outcome.Simulated
	return result
}
