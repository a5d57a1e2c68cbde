package batching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ludic-rl/rolloutflow/metrics"
	"github.com/ludic-rl/rolloutflow/types"
)

// RequestSource is the capability a training loop drives: each Produce
// call compiles the next batch of rollout requests. Implementations are
// single-consumer; concurrent Produce calls on one instance are not
// supported.
type RequestSource interface {
	Produce() ([]types.RolloutRequest, error)
}

// RequestsFn is the functional shape of a request source, for callers
// that prefer passing a closure over an interface value.
type RequestsFn func() ([]types.RolloutRequest, error)

// ExhaustionPolicy decides what a queue-backed source does when its
// queue has nothing for it.
type ExhaustionPolicy string

const (
	// OnEmptyError makes Produce fail with ErrRequestsExhausted.
	OnEmptyError ExhaustionPolicy = "error"
	// OnEmptyReturnEmpty makes Produce return an empty batch and no error.
	OnEmptyReturnEmpty ExhaustionPolicy = "return_empty"
)

func (p ExhaustionPolicy) valid() bool {
	return p == OnEmptyError || p == OnEmptyReturnEmpty
}

// sourceConfig collects the knobs shared by the source constructors.
type sourceConfig struct {
	name      string
	strategy  RequestStrategy
	groupSize int
	seed      *int64
	onEmpty   ExhaustionPolicy
	shuffle   bool
	rngSeed   int64
	logger    *zap.Logger
	collector *metrics.Collector
}

// SourceOption configures a request source. Options that do not apply
// to a source kind are ignored: WithOnEmpty only affects queue-backed
// sources, WithShuffle and WithRNGSeed only sequence-backed ones.
type SourceOption func(*sourceConfig)

// WithName labels the source in logs and metrics.
func WithName(name string) SourceOption {
	return func(c *sourceConfig) { c.name = name }
}

// WithStrategy installs an explicit RequestStrategy. Mutually exclusive
// with WithGroupSize.
func WithStrategy(s RequestStrategy) SourceOption {
	return func(c *sourceConfig) { c.strategy = s }
}

// WithGroupSize enables GRPO group expansion with the given group size.
// A size of 1 disables grouping. Mutually exclusive with WithStrategy.
func WithGroupSize(g int) SourceOption {
	return func(c *sourceConfig) { c.groupSize = g }
}

// WithStrategyRNGSeed pins the PRNG of the strategy built by
// WithGroupSize, for reproducible fallback seed draws. Ignored when an
// explicit strategy is installed.
func WithStrategyRNGSeed(seed int64) SourceOption {
	return func(c *sourceConfig) { c.seed = types.Int64Ptr(seed) }
}

// WithOnEmpty sets the exhaustion policy of a queue-backed source.
func WithOnEmpty(p ExhaustionPolicy) SourceOption {
	return func(c *sourceConfig) { c.onEmpty = p }
}

// WithShuffle enables per-epoch reshuffling on a sequence-backed source.
func WithShuffle(shuffle bool) SourceOption {
	return func(c *sourceConfig) { c.shuffle = shuffle }
}

// WithRNGSeed seeds the visitation-order PRNG of a sequence-backed
// source. Two sources built over the same dataset with the same seed
// visit samples in the same order.
func WithRNGSeed(seed int64) SourceOption {
	return func(c *sourceConfig) { c.rngSeed = seed }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) SourceOption {
	return func(c *sourceConfig) { c.logger = l }
}

// WithCollector attaches a metrics collector.
func WithCollector(col *metrics.Collector) SourceOption {
	return func(c *sourceConfig) { c.collector = col }
}

func newSourceConfig(defaultName string, opts []SourceOption) (sourceConfig, error) {
	cfg := sourceConfig{
		name:      defaultName,
		groupSize: 1,
		onEmpty:   OnEmptyError,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if !cfg.onEmpty.valid() {
		return cfg, fmt.Errorf("%w: unknown exhaustion policy %q", ErrInvalidConfiguration, cfg.onEmpty)
	}

	if cfg.strategy != nil && cfg.groupSize != 1 {
		return cfg, fmt.Errorf("%w: WithStrategy and WithGroupSize are mutually exclusive", ErrInvalidConfiguration)
	}
	if cfg.strategy == nil && cfg.groupSize != 1 {
		var grpoOpts []GRPOOption
		if cfg.seed != nil {
			grpoOpts = append(grpoOpts, WithStrategySeed(*cfg.seed))
		}
		strategy, err := NewGRPORequestStrategy(cfg.groupSize, grpoOpts...)
		if err != nil {
			return cfg, err
		}
		cfg.strategy = strategy
	}

	cfg.logger = cfg.logger.With(zap.String("source", cfg.name))
	return cfg, nil
}
