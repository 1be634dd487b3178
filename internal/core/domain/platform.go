package domain

// Platform identifies a publishing channel.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformEmail     Platform = "email"
	PlatformBlog      Platform = "blog"
)

// AllPlatforms lists every channel the system knows about.
var AllPlatforms = []Platform{
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformFacebook,
	PlatformEmail,
	PlatformBlog,
}

// DefaultPlatforms is the fallback target set used when a user has not
// configured any platforms during onboarding.
var DefaultPlatforms = []Platform{PlatformTwitter, PlatformLinkedIn, PlatformEmail}

// ValidPlatform reports whether p is a known publishing channel.
func ValidPlatform(p Platform) bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// Visual reports whether the channel benefits from a generated image.
// Only visually-oriented channels trigger the image-generation step.
func (p Platform) Visual() bool {
	return p == PlatformTwitter || p == PlatformInstagram
}

// NeedsImage reports whether any platform in the set is visual.
func NeedsImage(platforms []Platform) bool {
	for _, p := range platforms {
		if p.Visual() {
			return true
		}
	}
	return false
}
