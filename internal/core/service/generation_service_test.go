package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users        map[string]*domain.User
	creditsAdded map[string]int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User), creditsAdded: make(map[string]int)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = "user_" + u.Email
	}
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.CompanyName = update.CompanyName
	u.Industry = update.Industry
	u.TeamSize = update.TeamSize
	u.BrandVoice = domain.BrandVoice{Tone: update.BrandTone}
	u.Platforms = update.Platforms
	u.OnboardingCompleted = true
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) IncrementCreditsUsed(_ context.Context, id string, n int) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CreditsUsed += n
	r.creditsAdded[id] += n
	return nil
}

type stubJobRepo struct {
	jobs      map[string]*domain.Job
	createErr error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.Job) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := cloneJob(job)
	r.jobs[job.ID] = clone
	return nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id, userID string) (*domain.Job, error) {
	job, ok := r.jobs[id]
	if !ok || job.UserID != userID {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (r *stubJobRepo) MarkCompleted(_ context.Context, id string, content *domain.GeneratedContent, completedAt time.Time) (*domain.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job.Status = domain.JobCompleted
	job.GeneratedContent = content
	job.CompletedAt = &completedAt
	job.Error = ""
	return cloneJob(job), nil
}

func (r *stubJobRepo) MarkFailed(_ context.Context, id string, errMsg string) error {
	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.Status = domain.JobFailed
	job.Error = errMsg
	return nil
}

func (r *stubJobRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, job := range r.jobs {
		if job.UserID == userID {
			out = append(out, cloneJob(job))
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneJob(job *domain.Job) *domain.Job {
	clone := *job
	if job.GeneratedContent != nil {
		content := *job.GeneratedContent
		clone.GeneratedContent = &content
	}
	return &clone
}

type stubTextGen struct {
	response    string
	err         error
	instruction string
	calls       int
}

func (g *stubTextGen) Generate(_ context.Context, instruction string) (string, error) {
	g.calls++
	g.instruction = instruction
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type stubImageGen struct {
	url   string
	err   error
	calls int
}

func (g *stubImageGen) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

const testPrompt = "Launch our new bamboo coffee cup line"

func testUser(platforms ...domain.Platform) *domain.User {
	return &domain.User{
		ID:             "user_1",
		Email:          "owner@acme.test",
		CompanyName:    "Acme",
		Industry:       "sustainable goods",
		BrandVoice:     domain.BrandVoice{Tone: domain.ToneFriendly},
		Platforms:      platforms,
		MonthlyCredits: 100,
	}
}

func twitterEmailResponse() string {
	return `{"twitter":[{"text":"Bamboo cups are here! Sip sustainably."}],"email":{"subject":"Meet the bamboo cup","body":"Our new line has landed."}}`
}

func newGenerationService(users *stubUserRepo, jobs *stubJobRepo, text *stubTextGen, image *stubImageGen) *GenerationService {
	return NewGenerationService(users, jobs, text, image, discardLogger)
}

// ---------------------------------------------------------------------------
// Generate tests
// ---------------------------------------------------------------------------

func TestGenerate_Success_TwitterAndEmail(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter, domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: twitterEmailResponse()}
	image := &stubImageGen{url: "https://img.test/cup.png"}
	svc := newGenerationService(users, jobs, text, image)

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Status != domain.JobCompleted {
		t.Fatalf("expected completed, got %s", job.Status)
	}
	if job.CompletedAt == nil {
		t.Error("CompletedAt must be set on success")
	}
	if job.OriginalContent != testPrompt {
		t.Errorf("original content altered: %q", job.OriginalContent)
	}

	content := job.GeneratedContent
	if content == nil {
		t.Fatal("generated content missing on completed job")
	}
	if len(content.Twitter) != 1 || content.Twitter[0].Text == "" {
		t.Fatalf("unexpected twitter content: %+v", content.Twitter)
	}
	if len(content.Twitter[0].Text) > 280 {
		t.Errorf("tweet exceeds length bound: %d chars", len(content.Twitter[0].Text))
	}
	if content.Email == nil || content.Email.Subject == "" || content.Email.Body == "" {
		t.Fatalf("email content incomplete: %+v", content.Email)
	}

	// Exactly the requested keys plus imageUrl on the wire.
	encoded, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &keys); err != nil {
		t.Fatalf("unmarshal content: %v", err)
	}
	for _, want := range []string{"twitter", "email", "imageUrl"} {
		if _, ok := keys[want]; !ok {
			t.Errorf("missing key %q in %s", want, encoded)
		}
	}
	if len(keys) != 3 {
		t.Errorf("expected exactly 3 keys, got %d: %s", len(keys), encoded)
	}
}

func TestGenerate_AttachesImageToTweetAndTopLevel(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter, domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: twitterEmailResponse()}
	image := &stubImageGen{url: "https://img.test/cup.png"}
	svc := newGenerationService(users, jobs, text, image)

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if image.calls != 1 {
		t.Fatalf("expected 1 image call, got %d", image.calls)
	}
	if job.GeneratedContent.ImageURL != "https://img.test/cup.png" {
		t.Errorf("top-level imageUrl not set: %q", job.GeneratedContent.ImageURL)
	}
	if job.GeneratedContent.Twitter[0].ImageURL != "https://img.test/cup.png" {
		t.Errorf("first tweet image_url not set: %q", job.GeneratedContent.Twitter[0].ImageURL)
	}
}

func TestGenerate_NoVisualPlatforms_SkipsImageCall(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformLinkedIn, domain.PlatformBlog))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: `{"linkedin":"A longer professional post.","blog":{"title":"Bamboo","content":"Full article."}}`}
	image := &stubImageGen{url: "https://img.test/cup.png"}
	svc := newGenerationService(users, jobs, text, image)

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.calls != 0 {
		t.Fatalf("image generator called %d times for non-visual platforms", image.calls)
	}
	if job.GeneratedContent.ImageURL != "" {
		t.Errorf("unexpected imageUrl: %q", job.GeneratedContent.ImageURL)
	}
}

func TestGenerate_PromptTooShort(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter))
	jobs := newStubJobRepo()
	svc := newGenerationService(users, jobs, &stubTextGen{}, &stubImageGen{})

	_, err := svc.Generate(context.Background(), "user_1", "too short")
	if !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("expected ErrInvalidPrompt, got %v", err)
	}
	if len(jobs.jobs) != 0 {
		t.Error("no job should be created for an invalid prompt")
	}
}

func TestGenerate_UnknownUser(t *testing.T) {
	svc := newGenerationService(newStubUserRepo(), newStubJobRepo(), &stubTextGen{}, &stubImageGen{})

	_, err := svc.Generate(context.Background(), "nobody", testPrompt)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	user := testUser(domain.PlatformTwitter)
	user.MonthlyCredits = 5
	user.CreditsUsed = 5
	users := newStubUserRepo(user)
	jobs := newStubJobRepo()
	text := &stubTextGen{response: twitterEmailResponse()}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	_, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if text.calls != 0 {
		t.Error("no upstream call should happen once the quota is exhausted")
	}
	if len(jobs.jobs) != 0 {
		t.Error("no job should be created once the quota is exhausted")
	}
}

func TestGenerate_NoConfiguredPlatforms_UsesDefaults(t *testing.T) {
	users := newStubUserRepo(testUser()) // zero platforms
	jobs := newStubJobRepo()
	text := &stubTextGen{response: `{"twitter":[{"text":"Hi"}],"linkedin":"Post.","email":{"subject":"s","body":"b"}}`}
	svc := newGenerationService(users, jobs, text, &stubImageGen{url: "https://img.test/x.png"})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(job.Platforms) != len(domain.DefaultPlatforms) {
		t.Fatalf("expected default platform list, got %v", job.Platforms)
	}
	for i, p := range domain.DefaultPlatforms {
		if job.Platforms[i] != p {
			t.Fatalf("expected default platform list, got %v", job.Platforms)
		}
	}
	for _, p := range domain.DefaultPlatforms {
		if !strings.Contains(text.instruction, string(p)) {
			t.Errorf("instruction missing default platform %s", p)
		}
	}
}

func TestGenerate_InstructionIncludesBrandProfile(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: `{"email":{"subject":"s","body":"b"}}`}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	if _, err := svc.Generate(context.Background(), "user_1", testPrompt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Acme", "sustainable goods", domain.ToneFriendly, testPrompt} {
		if !strings.Contains(text.instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestGenerate_TextProviderFailure_MarksJobFailed(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter))
	jobs := newStubJobRepo()
	text := &stubTextGen{err: errors.New("AI API Error: 503 - overloaded")}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if job == nil {
		t.Fatal("failed job must be returned for correlation")
	}

	stored := jobs.jobs[job.ID]
	if stored.Status != domain.JobFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if stored.Error == "" {
		t.Error("error text must be recorded on the failed job")
	}
	if stored.GeneratedContent != nil {
		t.Error("failed job must not carry generated content")
	}
}

func TestGenerate_UnparseableResponse_MarksJobFailed(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: "Sorry, I cannot help with that."}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if jobs.jobs[job.ID].Status != domain.JobFailed {
		t.Fatalf("expected failed, got %s", jobs.jobs[job.ID].Status)
	}
}

func TestGenerate_ResponseMissingRequestedPlatforms_MarksJobFailed(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: `{"somethingelse":true}`}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if jobs.jobs[job.ID].Status != domain.JobFailed {
		t.Fatalf("expected failed, got %s", jobs.jobs[job.ID].Status)
	}
}

func TestGenerate_CodeFencedResponse_IsParsed(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: "```json\n" + `{"email":{"subject":"s","body":"b"}}` + "\n```"}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != domain.JobCompleted {
		t.Fatalf("expected completed, got %s", job.Status)
	}
	if job.GeneratedContent.Email == nil {
		t.Fatal("email content missing after fence stripping")
	}
}

func TestGenerate_ImageFailure_DegradesGracefully(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter, domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: twitterEmailResponse()}
	image := &stubImageGen{err: errors.New("image provider returned status 500")}
	svc := newGenerationService(users, jobs, text, image)

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("image failure must not fail the job: %v", err)
	}
	if job.Status != domain.JobCompleted {
		t.Fatalf("expected completed, got %s", job.Status)
	}
	if job.GeneratedContent.ImageURL != "" {
		t.Errorf("imageUrl must be omitted after image failure, got %q", job.GeneratedContent.ImageURL)
	}
}

func TestGenerate_NeverLeavesJobProcessing(t *testing.T) {
	cases := []struct {
		name  string
		text  *stubTextGen
		image *stubImageGen
	}{
		{"text failure", &stubTextGen{err: errors.New("boom")}, &stubImageGen{}},
		{"parse failure", &stubTextGen{response: "not json"}, &stubImageGen{}},
		{"success", &stubTextGen{response: twitterEmailResponse()}, &stubImageGen{url: "https://img.test/x.png"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newStubUserRepo(testUser(domain.PlatformTwitter, domain.PlatformEmail))
			jobs := newStubJobRepo()
			svc := newGenerationService(users, jobs, tc.text, tc.image)

			_, _ = svc.Generate(context.Background(), "user_1", testPrompt)

			for id, job := range jobs.jobs {
				if !job.Terminal() {
					t.Errorf("job %s left in %s", id, job.Status)
				}
			}
		})
	}
}

func TestGenerate_ConsumesOneCredit(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: `{"email":{"subject":"s","body":"b"}}`}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	if _, err := svc.Generate(context.Background(), "user_1", testPrompt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.creditsAdded["user_1"] != 1 {
		t.Errorf("expected 1 credit consumed, got %d", users.creditsAdded["user_1"])
	}
}

func TestGenerate_RepoCreateError(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformEmail))
	jobs := newStubJobRepo()
	jobs.createErr = errors.New("db unavailable")
	text := &stubTextGen{response: `{"email":{"subject":"s","body":"b"}}`}
	svc := newGenerationService(users, jobs, text, &stubImageGen{})

	_, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err == nil {
		t.Fatal("expected error when job creation fails")
	}
	if text.calls != 0 {
		t.Error("no upstream call may happen before the job ticket is persisted")
	}
}

// ---------------------------------------------------------------------------
// Re-read idempotence
// ---------------------------------------------------------------------------

func TestGetJob_RereadReturnsIdenticalContent(t *testing.T) {
	users := newStubUserRepo(testUser(domain.PlatformTwitter, domain.PlatformEmail))
	jobs := newStubJobRepo()
	text := &stubTextGen{response: twitterEmailResponse()}
	svc := newGenerationService(users, jobs, text, &stubImageGen{url: "https://img.test/x.png"})

	job, err := svc.Generate(context.Background(), "user_1", testPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.GetJob(context.Background(), "user_1", job.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.GetJob(context.Background(), "user_1", job.ID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	a, _ := json.Marshal(first.GeneratedContent)
	b, _ := json.Marshal(second.GeneratedContent)
	if string(a) != string(b) {
		t.Errorf("re-read content differs:\n%s\n%s", a, b)
	}
}

// ---------------------------------------------------------------------------
// Fence stripping
// ---------------------------------------------------------------------------

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fence with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence same line", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFences(tc.in); got != tc.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
