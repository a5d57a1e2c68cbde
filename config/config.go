// Package config loads and validates rolloutflow configuration.
//
// Configuration priority: defaults → YAML file → environment variables.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("rolloutflow.yaml").
//	    WithEnvPrefix("ROLLOUTFLOW").
//	    Load()
package config

import (
	"fmt"

	"github.com/ludic-rl/rolloutflow/batching"
	"github.com/ludic-rl/rolloutflow/types"
)

// Config is the complete rolloutflow configuration.
type Config struct {
	// Source configures the request source (batching, grouping, cycling).
	Source SourceConfig `yaml:"source"`
	// Request configures the per-sample request construction.
	Request RequestConfig `yaml:"request"`
	// Sampling configures default inference sampling parameters.
	Sampling SamplingConfig `yaml:"sampling"`
	// Log configures logging.
	Log LogConfig `yaml:"log"`
	// Metrics configures prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourceConfig configures a request source.
type SourceConfig struct {
	// Name labels the source in logs and metrics.
	Name string `yaml:"name"`
	// BatchSize is the target number of items per Produce call.
	BatchSize int `yaml:"batch_size"`
	// GroupSize enables GRPO expansion when > 1; 1 disables grouping.
	GroupSize int `yaml:"group_size"`
	// OnEmpty is the queue exhaustion policy: "error" or "return_empty".
	OnEmpty string `yaml:"on_empty"`
	// Shuffle reshuffles a sequence source every epoch.
	Shuffle bool `yaml:"shuffle"`
	// RNGSeed seeds a sequence source's visitation order.
	RNGSeed int64 `yaml:"rng_seed"`
}

// RequestConfig configures per-sample request construction.
type RequestConfig struct {
	// EnvKind is the environment registry key.
	EnvKind string `yaml:"env_kind"`
	// ProtocolKind is the protocol registry key.
	ProtocolKind string `yaml:"protocol_kind"`
	// ProtocolKwargs are fixed constructor kwargs for the protocol.
	ProtocolKwargs map[string]any `yaml:"protocol_kwargs"`
	// Model names the inference model, if pinned.
	Model string `yaml:"model"`
}

// SamplingConfig configures default sampling parameters.
type SamplingConfig struct {
	Temperature float32  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	TopP        float32  `yaml:"top_p"`
	Stop        []string `yaml:"stop"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format: json or console.
	Format string `yaml:"format"`
	// Development enables zap development mode.
	Development bool `yaml:"development"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Validate checks the configuration for programmer errors. It returns
// batching.ErrInvalidConfiguration wrapped with the offending field.
func (c *Config) Validate() error {
	if c.Source.BatchSize <= 0 {
		return fmt.Errorf("%w: source.batch_size must be positive, got %d",
			batching.ErrInvalidConfiguration, c.Source.BatchSize)
	}
	if c.Source.GroupSize <= 0 {
		return fmt.Errorf("%w: source.group_size must be positive, got %d",
			batching.ErrInvalidConfiguration, c.Source.GroupSize)
	}
	switch batching.ExhaustionPolicy(c.Source.OnEmpty) {
	case batching.OnEmptyError, batching.OnEmptyReturnEmpty:
	default:
		return fmt.Errorf("%w: source.on_empty must be %q or %q, got %q",
			batching.ErrInvalidConfiguration, batching.OnEmptyError, batching.OnEmptyReturnEmpty, c.Source.OnEmpty)
	}
	if c.Request.EnvKind == "" {
		return fmt.Errorf("%w: request.env_kind must be set", batching.ErrInvalidConfiguration)
	}
	if c.Request.ProtocolKind == "" {
		return fmt.Errorf("%w: request.protocol_kind must be set", batching.ErrInvalidConfiguration)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q is not a zap level", batching.ErrInvalidConfiguration, c.Log.Level)
	}
	return nil
}

// SourceOptions renders the source section as batching options, ready
// to pass to one of the source constructors.
func (c *Config) SourceOptions() []batching.SourceOption {
	return []batching.SourceOption{
		batching.WithName(c.Source.Name),
		batching.WithGroupSize(c.Source.GroupSize),
		batching.WithOnEmpty(batching.ExhaustionPolicy(c.Source.OnEmpty)),
		batching.WithShuffle(c.Source.Shuffle),
		batching.WithRNGSeed(c.Source.RNGSeed),
	}
}

// InferenceSpec renders the request/sampling sections as the inference
// configuration attached to produced requests.
func (c *Config) InferenceSpec() *types.InferenceSpec {
	return &types.InferenceSpec{
		Model: c.Request.Model,
		Sampling: types.SamplingParams{
			Temperature: c.Sampling.Temperature,
			MaxTokens:   c.Sampling.MaxTokens,
			TopP:        c.Sampling.TopP,
			Stop:        c.Sampling.Stop,
		},
		Return: types.ReturnForTraining(),
	}
}

// BuilderFor renders the request section as a RequestBuilder for
// samples of type T. Hook functions start unset; callers fill them in.
func BuilderFor[T any](c *Config) batching.RequestBuilder[T] {
	var kwargs types.Args
	if len(c.Request.ProtocolKwargs) > 0 {
		kwargs = types.Args(c.Request.ProtocolKwargs)
	}
	return batching.RequestBuilder[T]{
		EnvKind:        c.Request.EnvKind,
		ProtocolKind:   c.Request.ProtocolKind,
		ProtocolKwargs: kwargs,
		Inference:      c.InferenceSpec(),
	}
}
