package ports

import (
	"context"

	"github.com/brandpulse/content-api/internal/core/domain"
)

// ProfileUpdate carries the onboarding fields applied to a user.
type ProfileUpdate struct {
	CompanyName string
	Industry    string
	TeamSize    string
	BrandTone   string
	Platforms   []domain.Platform
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies the onboarding fields and sets
	// onboardingCompleted, returning the updated user.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	// IncrementCreditsUsed adds n to the user's consumption counter.
	IncrementCreditsUsed(ctx context.Context, id string, n int) error
}
