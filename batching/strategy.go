package batching

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ludic-rl/rolloutflow/types"
)

// RequestStrategy expands a logical batch of requests (the "what") into
// the concrete execution requests an algorithm needs (the "how"), e.g.
// replicating each request G times with diversified seeds. Expand must
// not mutate its input and must preserve the relative order of the base
// requests.
type RequestStrategy interface {
	Expand(requests []types.RolloutRequest) []types.RolloutRequest
}

// IdentityStrategy maps one request to one execution, unchanged. Used
// by algorithms without group structure (PPO, REINFORCE).
type IdentityStrategy struct{}

// Expand returns its input as-is.
func (IdentityStrategy) Expand(requests []types.RolloutRequest) []types.RolloutRequest {
	return requests
}

// GRPORequestStrategy expands N requests into N*G requests for Group
// Relative Policy Optimization.
//
// Within each group of G outputs:
//  1. all variants share one env seed, so they pose the same problem;
//  2. sampling seeds are distinct and ascending, so answers diverge;
//  3. all variants carry the same group_id in Meta, so downstream
//     advantage normalization can reassemble the group even when two
//     groups wrap identical content.
//
// A strategy instance holds a private PRNG for fallback seed draws and
// is not safe for concurrent Expand calls.
type GRPORequestStrategy struct {
	groupSize int
	rng       *rand.Rand
}

// GRPOOption configures a GRPORequestStrategy.
type GRPOOption func(*GRPORequestStrategy)

// WithStrategySeed pins the strategy's private PRNG, making fallback
// env/sampling seed draws reproducible across runs. Without it the PRNG
// is seeded from wall-clock entropy and two instances make no promise
// about their fallback draws.
func WithStrategySeed(seed int64) GRPOOption {
	return func(s *GRPORequestStrategy) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// NewGRPORequestStrategy creates a strategy with the given group size.
// A non-positive group size is ErrInvalidConfiguration.
func NewGRPORequestStrategy(groupSize int, opts ...GRPOOption) (*GRPORequestStrategy, error) {
	if groupSize <= 0 {
		return nil, fmt.Errorf("%w: group_size must be positive, got %d", ErrInvalidConfiguration, groupSize)
	}
	s := &GRPORequestStrategy{
		groupSize: groupSize,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GroupSize returns the configured expansion factor G.
func (s *GRPORequestStrategy) GroupSize() int { return s.groupSize }

// Expand produces G variants per base request. Explicit seeds on a base
// request are preserved for the whole group; missing seeds are drawn
// once per group from the strategy's PRNG. Variant i gets sampling seed
// base+i, and every output has NumEpisodes forced to 1.
func (s *GRPORequestStrategy) Expand(requests []types.RolloutRequest) []types.RolloutRequest {
	expanded := make([]types.RolloutRequest, 0, len(requests)*s.groupSize)

	for _, base := range requests {
		groupEnvSeed := s.seedOrDraw(base.EnvSeed)
		baseSamplingSeed := s.seedOrDraw(base.SamplingSeed)
		groupID := uuid.NewString()

		for i := 0; i < s.groupSize; i++ {
			variant := base.
				WithSeeds(groupEnvSeed, baseSamplingSeed+int64(i)).
				WithMeta(base.Meta.With("group_id", groupID)).
				WithNumEpisodes(1)
			expanded = append(expanded, variant)
		}
	}

	return expanded
}

// seedOrDraw keeps an explicit seed and otherwise draws one uniformly
// from [0, 2^32).
func (s *GRPORequestStrategy) seedOrDraw(explicit *int64) int64 {
	if explicit != nil {
		return *explicit
	}
	return s.rng.Int63n(1 << 32)
}
