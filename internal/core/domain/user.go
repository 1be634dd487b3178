package domain

import "time"

// Brand tone labels offered during onboarding.
const (
	ToneProfessional = "Professional"
	ToneFriendly     = "Friendly"
	ToneCasual       = "Casual"
	ToneWitty        = "Witty"
)

// DefaultMonthlyCredits is the generation quota granted at signup.
const DefaultMonthlyCredits = 100

// BrandVoice captures how a company wants to sound.
type BrandVoice struct {
	Tone        string `json:"tone" bson:"tone"`
	Description string `json:"description" bson:"description"`
}

// User models an account holder and their brand profile.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	CompanyName         string     `json:"companyName"`
	Industry            string     `json:"industry"`
	TeamSize            string     `json:"teamSize,omitempty"`
	BrandVoice          BrandVoice `json:"brandVoice"`
	Platforms           []Platform `json:"platforms"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
	MonthlyCredits      int        `json:"monthlyCredits"`
	CreditsUsed         int        `json:"creditsUsed"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// HasCredits reports whether the user may start another generation job.
func (u *User) HasCredits() bool {
	return u.CreditsUsed < u.MonthlyCredits
}

// TargetPlatforms returns the user's configured platforms, falling back to
// DefaultPlatforms when onboarding left the set empty.
func (u *User) TargetPlatforms() []Platform {
	if len(u.Platforms) == 0 {
		out := make([]Platform, len(DefaultPlatforms))
		copy(out, DefaultPlatforms)
		return out
	}
	out := make([]Platform, len(u.Platforms))
	copy(out, u.Platforms)
	return out
}
