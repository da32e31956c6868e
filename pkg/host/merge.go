package host

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/aretw0/layout/pkg/domain"
)

// DeepMerge is a domain.MergeFunc that merges State and Values key by key,
// recursing into nested maps, while any other set candidate field replaces
// the default. Neither input is modified.
func DeepMerge[T any](defaults, candidate domain.Options[T]) (domain.Options[T], error) {
	out := defaults
	// mergo writes into nested maps of dst.
	out.State = defaults.State.Clone()
	out.Values = domain.Values(domain.State(defaults.Values).Clone())

	if err := mergo.Merge(&out, candidate, mergo.WithOverride); err != nil {
		return domain.Options[T]{}, fmt.Errorf("failed to deep merge options: %w", err)
	}
	return out, nil
}
