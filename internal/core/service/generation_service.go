package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brandpulse/content-api/internal/api/metrics"
	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

const minPromptLength = 10

// GenerationService turns a user prompt into a terminal job: it persists
// the job ticket, drives the text and image providers, and finalizes job
// state. The whole flow is synchronous within the caller's request.
type GenerationService struct {
	users  ports.UserRepository
	jobs   ports.JobRepository
	text   ports.TextGenerator
	image  ports.ImageGenerator
	logger zerolog.Logger
}

func NewGenerationService(
	users ports.UserRepository,
	jobs ports.JobRepository,
	text ports.TextGenerator,
	image ports.ImageGenerator,
	logger zerolog.Logger,
) *GenerationService {
	return &GenerationService{users: users, jobs: jobs, text: text, image: image, logger: logger}
}

// Generate implements the single-attempt generation workflow. The job is
// persisted in processing state before any upstream call and is guaranteed
// to leave this method in a terminal state: every error path after job
// creation lands a failed write. On upstream failure the job is returned
// alongside the error so the caller can correlate the failure with an id.
func (s *GenerationService) Generate(ctx context.Context, userID, prompt string) (job *domain.Job, err error) {
	if len(strings.TrimSpace(prompt)) < minPromptLength {
		return nil, domain.ErrInvalidPrompt
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasCredits() {
		return nil, domain.ErrQuotaExceeded
	}

	platforms := user.TargetPlatforms()

	job = &domain.Job{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Status:          domain.JobProcessing,
		Platforms:       platforms,
		OriginalContent: prompt,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	metrics.JobsCreatedTotal.Inc()

	s.logger.Info().
		Str("job_id", job.ID).
		Str("user_id", user.ID).
		Strs("platforms", platformStrings(platforms)).
		Msg("generation job created")

	// Any exit after this point must leave the job terminal, even on a
	// panic or a cancelled request context.
	finalized := false
	started := time.Now()
	defer func() {
		if finalized {
			return
		}
		msg := "generation aborted"
		if err != nil {
			msg = err.Error()
		}
		s.failJob(ctx, job, msg)
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	raw, err := s.text.Generate(ctx, buildInstruction(user, prompt, platforms))
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("text").Inc()
		s.failJob(ctx, job, err.Error())
		finalized = true
		metrics.GenerationDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
		return job, fmt.Errorf("%w: text generation: %v", domain.ErrUpstream, err)
	}

	content, err := parseGeneratedContent(raw, platforms)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("parse").Inc()
		s.failJob(ctx, job, err.Error())
		finalized = true
		metrics.GenerationDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
		return job, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	// Image failure degrades gracefully: the job still completes, only
	// without imageUrl.
	if domain.NeedsImage(platforms) {
		imagePrompt := buildImagePrompt(user, prompt)
		imageURL, imgErr := s.image.Generate(ctx, imagePrompt)
		if imgErr != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("image").Inc()
			s.logger.Warn().Err(imgErr).Str("job_id", job.ID).Msg("image generation failed, completing without image")
		} else {
			content.AttachImage(imageURL)
		}
	}

	completedAt := time.Now().UTC()
	finished, err := s.jobs.MarkCompleted(context.WithoutCancel(ctx), job.ID, content, completedAt)
	if err != nil {
		s.failJob(ctx, job, "persisting generated content failed: "+err.Error())
		finalized = true
		metrics.GenerationDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
		return job, fmt.Errorf("finalize job: %w", err)
	}
	finalized = true
	metrics.JobsTerminalTotal.WithLabelValues(string(domain.JobCompleted)).Inc()
	metrics.GenerationDuration.WithLabelValues("completed").Observe(time.Since(started).Seconds())

	if err := s.users.IncrementCreditsUsed(context.WithoutCancel(ctx), user.ID, 1); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record credit usage")
	}

	s.logger.Info().Str("job_id", finished.ID).Msg("generation job completed")
	return finished, nil
}

func (s *GenerationService) GetJob(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	return s.jobs.FindByID(ctx, jobID, userID)
}

func (s *GenerationService) ListJobs(ctx context.Context, userID string, limit int) ([]*domain.Job, error) {
	return s.jobs.ListByUser(ctx, userID, limit)
}

// failJob writes the terminal failed state. It deliberately detaches from
// request cancellation so a client disconnect cannot strand a job in
// processing.
func (s *GenerationService) failJob(ctx context.Context, job *domain.Job, msg string) {
	if job == nil || job.Terminal() {
		return
	}
	if err := s.jobs.MarkFailed(context.WithoutCancel(ctx), job.ID, msg); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to mark job failed")
		return
	}
	job.Status = domain.JobFailed
	job.Error = msg
	metrics.JobsTerminalTotal.WithLabelValues(string(domain.JobFailed)).Inc()
}

// buildInstruction assembles the single natural-language request sent to
// the text provider. The provider is told to answer with one flat JSON
// object whose keys are exactly the requested platform tags.
func buildInstruction(user *domain.User, prompt string, platforms []domain.Platform) string {
	company := user.CompanyName
	if company == "" {
		company = "Our Company"
	}
	tone := user.BrandVoice.Tone
	if tone == "" {
		tone = domain.ToneProfessional
	}

	tags := platformStrings(platforms)

	var b strings.Builder
	fmt.Fprintf(&b, "Create marketing content for these platforms: %s\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "Company: %s\n", company)
	if user.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", user.Industry)
	}
	fmt.Fprintf(&b, "Brand Tone: %s\n", tone)
	if user.BrandVoice.Description != "" {
		fmt.Fprintf(&b, "Brand Voice: %s\n", user.BrandVoice.Description)
	}
	fmt.Fprintf(&b, "\nUser's Request: %q\n\n", prompt)
	fmt.Fprintf(&b, "Return ONLY a single flat JSON object with exactly these keys: %s\n\n", strings.Join(tags, ", "))
	b.WriteString("Shapes per key:\n")
	b.WriteString(`- "twitter": array of tweet objects, each {"text": string under 280 characters}` + "\n")
	b.WriteString(`- "linkedin": a longer professional post as a single string` + "\n")
	b.WriteString(`- "instagram": {"caption": string}` + "\n")
	b.WriteString(`- "facebook": a post as a single string` + "\n")
	b.WriteString(`- "email": {"subject": string, "body": string}` + "\n")
	b.WriteString(`- "blog": {"title": string, "content": string} with article-length content` + "\n")
	return b.String()
}

func buildImagePrompt(user *domain.User, prompt string) string {
	if user.Industry != "" {
		return fmt.Sprintf("professional %s marketing image for: %s", user.Industry, prompt)
	}
	return "professional marketing image for: " + prompt
}

// parseGeneratedContent decodes the provider's answer into typed content.
// Code-fence markup around the JSON body is tolerated and stripped.
func parseGeneratedContent(raw string, platforms []domain.Platform) (*domain.GeneratedContent, error) {
	cleaned := stripCodeFences(raw)

	var content domain.GeneratedContent
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		return nil, fmt.Errorf("provider returned unparseable content: %v", err)
	}

	for _, p := range platforms {
		if _, ok := content.ForPlatform(p); ok {
			return &content, nil
		}
	}
	return nil, fmt.Errorf("provider response contains no content for the requested platforms")
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language marker, leaving bare JSON untouched.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.HasPrefix(s, "{") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func platformStrings(platforms []domain.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}
