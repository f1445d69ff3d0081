// Package weights defines the component weight contract and the default
// weight set. The provider is injected into the engine at construction
// time; there is no package-level mutable weight state.
package weights

import (
	"context"

	"github.com/okian/readyrank/internal/domain/model"
)

// Default component weights. They sum to 100, so the default total is a
// plain weighted mean; override sets are applied as-is without
// renormalization.
const (
	defaultCodingPractice     = 18
	defaultProjects           = 15
	defaultInternships        = 15
	defaultTechnicalSkills    = 12
	defaultAssessments        = 10
	defaultInterviewReadiness = 8
	defaultGitHubActivity     = 6
	defaultCertifications     = 5
	defaultEvents             = 4
	defaultLearningPace       = 4
	defaultRoadmapProgress    = 3
)

// Provider supplies the weight map applied at score aggregation time.
type Provider interface {
	// Weights returns the full eleven-key weight map.
	Weights(ctx context.Context) map[model.Component]float64
}

// Defaults returns a fresh copy of the default weight set.
func Defaults() map[model.Component]float64 {
	return map[model.Component]float64{
		model.ComponentCodingPractice:     defaultCodingPractice,
		model.ComponentProjects:           defaultProjects,
		model.ComponentInternships:        defaultInternships,
		model.ComponentTechnicalSkills:    defaultTechnicalSkills,
		model.ComponentAssessments:        defaultAssessments,
		model.ComponentInterviewReadiness: defaultInterviewReadiness,
		model.ComponentGitHubActivity:     defaultGitHubActivity,
		model.ComponentCertifications:     defaultCertifications,
		model.ComponentEvents:             defaultEvents,
		model.ComponentLearningPace:       defaultLearningPace,
		model.ComponentRoadmapProgress:    defaultRoadmapProgress,
	}
}

// StaticProvider serves defaults merged with a fixed override set, the
// usual shape when overrides come from configuration.
type StaticProvider struct {
	weights map[model.Component]float64
}

// Option applies a configuration option to the StaticProvider.
type Option func(*StaticProvider)

// WithOverrides merges override weights over the defaults. Unknown keys and
// negative values are ignored; a missing key keeps its default.
func WithOverrides(overrides map[string]float64) Option {
	return func(p *StaticProvider) {
		for _, c := range model.Components() {
			if w, ok := overrides[string(c)]; ok && w >= 0 {
				p.weights[c] = w
			}
		}
	}
}

// NewStaticProvider builds a provider starting from the default weight set.
func NewStaticProvider(opts ...Option) *StaticProvider {
	p := &StaticProvider{weights: Defaults()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Weights returns a copy so callers cannot mutate the provider's state.
func (p *StaticProvider) Weights(_ context.Context) map[model.Component]float64 {
	out := make(map[model.Component]float64, len(p.weights))
	for c, w := range p.weights {
		out[c] = w
	}
	return out
}
