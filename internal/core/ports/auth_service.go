package ports

import (
	"context"
	"time"

	"github.com/brandpulse/content-api/internal/core/domain"
)

// OnboardingInput carries the brand profile collected by the onboarding wizard.
type OnboardingInput struct {
	CompanyName string
	Industry    string
	BrandTone   string
	TeamSize    string
	Platforms   []domain.Platform
}

// AuthService defines account and session use cases.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	// Login returns a signed session token alongside the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the session token so the cookie cannot be replayed.
	Logout(ctx context.Context, token string) error
	CompleteOnboarding(ctx context.Context, userID string, input OnboardingInput) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// SessionRevoker blacklists session token ids until their natural expiry.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
