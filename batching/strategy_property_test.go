package batching

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ludic-rl/rolloutflow/types"
)

// Property: for any batch of N base requests and any group size G,
// expansion emits exactly N*G requests, grouped contiguously in base
// order, each group sharing one env seed and one group id with strictly
// ascending sampling seeds.
func TestProperty_GRPOExpansionLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("expansion preserves count, order, and group structure", prop.ForAll(
		func(n, g int, seed int64) bool {
			s, err := NewGRPORequestStrategy(g, WithStrategySeed(seed))
			if err != nil {
				return false
			}

			reqs := make([]types.RolloutRequest, n)
			for i := range reqs {
				reqs[i] = baseRequest(i)
			}

			out := s.Expand(reqs)
			if len(out) != n*g {
				return false
			}

			seen := map[string]bool{}
			for base := 0; base < n; base++ {
				group := out[base*g : (base+1)*g]
				id := group[0].GroupID()
				if id == "" || seen[id] {
					return false
				}
				seen[id] = true
				for i, r := range group {
					if r.NumEpisodes != 1 {
						return false
					}
					// Group order must follow base order.
					if r.Meta["sample_index"] != base {
						return false
					}
					if r.GroupID() != id {
						return false
					}
					if r.EnvSeed == nil || *r.EnvSeed != *group[0].EnvSeed {
						return false
					}
					if r.SamplingSeed == nil || *r.SamplingSeed != *group[0].SamplingSeed+int64(i) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.IntRange(1, 8),
		gen.Int64(),
	))

	properties.Property("identity strategy is a no-op for any batch", prop.ForAll(
		func(n int) bool {
			reqs := make([]types.RolloutRequest, n)
			for i := range reqs {
				reqs[i] = baseRequest(i)
			}
			out := IdentityStrategy{}.Expand(reqs)
			if len(out) != n {
				return false
			}
			for i := range out {
				if out[i].Meta["sample_index"] != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
