package batching

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/ludic-rl/rolloutflow/types"
)

// EpochCursor walks a dataset of n samples forever, one index per Next
// call. Each pass over the dataset is an epoch; when shuffling is on, a
// fresh permutation is drawn from the cursor's private PRNG at the
// start of every epoch, including the first. The full visitation
// sequence is a pure function of (n, shuffle, seed).
//
// The cursor is deliberately an explicit mutable object: it is the only
// state a SequenceSource carries, and it is not safe for concurrent
// callers.
type EpochCursor struct {
	order   []int
	pos     int
	shuffle bool
	rng     *rand.Rand
	epoch   int
}

// NewEpochCursor creates a cursor over n samples. n must be positive;
// a non-positive n panics, since callers validate dataset size first.
func NewEpochCursor(n int, shuffle bool, seed int64) *EpochCursor {
	if n <= 0 {
		panic("batching: epoch cursor needs at least one sample")
	}
	c := &EpochCursor{
		order:   make([]int, n),
		shuffle: shuffle,
		rng:     rand.New(rand.NewSource(seed)),
	}
	c.resetOrder()
	return c
}

func (c *EpochCursor) resetOrder() {
	for i := range c.order {
		c.order[i] = i
	}
	if c.shuffle {
		c.rng.Shuffle(len(c.order), func(i, j int) {
			c.order[i], c.order[j] = c.order[j], c.order[i]
		})
	}
}

// Next returns the next dataset index, wrapping (and reshuffling, if
// enabled) at epoch boundaries.
func (c *EpochCursor) Next() int {
	if c.pos >= len(c.order) {
		c.pos = 0
		c.epoch++
		c.resetOrder()
	}
	idx := c.order[c.pos]
	c.pos++
	return idx
}

// Epoch reports how many full passes the cursor has completed.
func (c *EpochCursor) Epoch() int { return c.epoch }

// Len reports the dataset size the cursor walks.
func (c *EpochCursor) Len() int { return len(c.order) }

// BuildSampleFunc maps a dataset sample and its unshuffled index to one
// base RolloutRequest. RequestBuilder.Build has this shape.
type BuildSampleFunc[T any] func(idx int, sample T) types.RolloutRequest

// SequenceSource compiles rollout requests from a fixed in-memory
// dataset. It is exhaustion-free: every Produce call returns exactly
// batchSize base requests (before strategy expansion), cycling through
// epochs forever. Given the same rng seed, two sources over the same
// dataset emit identical visitation sequences.
type SequenceSource[T any] struct {
	name      string
	samples   []T
	batchSize int
	build     BuildSampleFunc[T]
	cursor    *EpochCursor
	cfg       sourceConfig
}

// NewSequenceSource builds a sequence-backed source over samples. The
// dataset must be non-empty and batchSize positive, else
// ErrInvalidConfiguration.
func NewSequenceSource[T any](samples []T, batchSize int, build BuildSampleFunc[T], opts ...SourceOption) (*SequenceSource[T], error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: samples must be non-empty", ErrInvalidConfiguration)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfiguration, batchSize)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: build function must not be nil", ErrInvalidConfiguration)
	}
	cfg, err := newSourceConfig("sequence", opts)
	if err != nil {
		return nil, err
	}
	return &SequenceSource[T]{
		name:      cfg.name,
		samples:   samples,
		batchSize: batchSize,
		build:     build,
		cursor:    NewEpochCursor(len(samples), cfg.shuffle, cfg.rngSeed),
		cfg:       cfg,
	}, nil
}

// Epoch reports how many full passes over the dataset have completed.
func (s *SequenceSource[T]) Epoch() int { return s.cursor.Epoch() }

// Produce compiles the next batchSize samples into requests and applies
// the configured strategy. The returned error is always nil; the
// signature exists to satisfy RequestSource.
func (s *SequenceSource[T]) Produce() ([]types.RolloutRequest, error) {
	reqs := make([]types.RolloutRequest, 0, s.batchSize)
	for len(reqs) < s.batchSize {
		idx := s.cursor.Next()
		reqs = append(reqs, s.build(idx, s.samples[idx]))
	}

	if s.cfg.strategy != nil {
		reqs = s.cfg.strategy.Expand(reqs)
		if len(reqs) > s.batchSize {
			s.cfg.collector.ObserveGroups(s.name, s.batchSize)
		}
	}

	s.cfg.collector.ObserveBatch(s.name, len(reqs))
	s.cfg.logger.Debug("produced batch",
		zap.Int("requests", len(reqs)),
		zap.Int("epoch", s.cursor.Epoch()))
	return reqs, nil
}
