package social

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-api/internal/core/domain"
	"github.com/brandpulse/content-api/internal/core/ports"
)

// SimulatedAdapter stands in for a platform integration that is not yet
// wired to a real network API. It deterministically reports success, so
// a real adapter can replace it behind the same interface without
// touching the dispatcher.
type SimulatedAdapter struct {
	platform domain.Platform
}

func NewSimulatedAdapter(platform domain.Platform) *SimulatedAdapter {
	return &SimulatedAdapter{platform: platform}
}

func (a *SimulatedAdapter) Publish(_ context.Context, _ any) (*ports.PublishOutcome, error) {
	return &ports.PublishOutcome{
		Message:   fmt.Sprintf("%s content ready", a.platform),
		Simulated: true,
	}, nil
}

// NewAdapterRegistry wires the default adapter set: the real Twitter/X
// integration plus simulated adapters for every other platform.
func NewAdapterRegistry(twitter ports.Publisher) map[domain.Platform]ports.Publisher {
	registry := map[domain.Platform]ports.Publisher{
		domain.PlatformTwitter: twitter,
	}
	for _, p := range domain.AllPlatforms {
		if p == domain.PlatformTwitter {
			continue
		}
		registry[p] = NewSimulatedAdapter(p)
	}
	return registry
}
