package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludic-rl/rolloutflow/batching"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.Source.BatchSize)
	assert.Equal(t, 1, cfg.Source.GroupSize)
	assert.Equal(t, "error", cfg.Source.OnEmpty)
}

func TestLoaderReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolloutflow.yaml")
	data := `
source:
  name: grpo-train
  batch_size: 8
  group_size: 4
  shuffle: true
  rng_seed: 1234
request:
  env_kind: gsm8k
  protocol_kind: single_agent
  protocol_kwargs:
    max_steps: 1
  model: qwen-7b
sampling:
  temperature: 1.0
  max_tokens: 512
  top_p: 0.95
log:
  level: debug
  format: console
metrics:
  enabled: true
  namespace: trainer
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "grpo-train", cfg.Source.Name)
	assert.Equal(t, 8, cfg.Source.BatchSize)
	assert.Equal(t, 4, cfg.Source.GroupSize)
	assert.True(t, cfg.Source.Shuffle)
	assert.Equal(t, int64(1234), cfg.Source.RNGSeed)
	assert.Equal(t, "gsm8k", cfg.Request.EnvKind)
	assert.Equal(t, 1, cfg.Request.ProtocolKwargs["max_steps"])
	assert.Equal(t, "qwen-7b", cfg.Request.Model)
	assert.Equal(t, 512, cfg.Sampling.MaxTokens)
	assert.True(t, cfg.Metrics.Enabled)
	// yaml scalar not listed keeps its default
	assert.Equal(t, "error", cfg.Source.OnEmpty)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader().WithConfigPath("/does/not/exist.yaml").Load()
	assert.Error(t, err)
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Setenv("RF_SOURCE_BATCH_SIZE", "64")
	t.Setenv("RF_SOURCE_ON_EMPTY", "return_empty")
	t.Setenv("RF_SOURCE_SHUFFLE", "true")
	t.Setenv("RF_SOURCE_RNG_SEED", "99")
	t.Setenv("RF_REQUEST_ENV_KIND", "hotpotqa")
	t.Setenv("RF_LOG_LEVEL", "warn")

	cfg, err := NewLoader().WithEnvPrefix("RF").Load()
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Source.BatchSize)
	assert.Equal(t, "return_empty", cfg.Source.OnEmpty)
	assert.True(t, cfg.Source.Shuffle)
	assert.Equal(t, int64(99), cfg.Source.RNGSeed)
	assert.Equal(t, "hotpotqa", cfg.Request.EnvKind)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoaderEnvParseError(t *testing.T) {
	t.Setenv("RF_SOURCE_BATCH_SIZE", "not-a-number")
	_, err := NewLoader().WithEnvPrefix("RF").Load()
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch size", func(c *Config) { c.Source.BatchSize = 0 }},
		{"negative group size", func(c *Config) { c.Source.GroupSize = -1 }},
		{"bad on_empty", func(c *Config) { c.Source.OnEmpty = "raise" }},
		{"empty env kind", func(c *Config) { c.Request.EnvKind = "" }},
		{"empty protocol kind", func(c *Config) { c.Request.ProtocolKind = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, batching.ErrInvalidConfiguration)
		})
	}
}

func TestSourceOptionsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.BatchSize = 2
	cfg.Source.GroupSize = 3
	cfg.Source.Shuffle = true
	cfg.Source.RNGSeed = 7
	require.NoError(t, cfg.Validate())

	builder := BuilderFor[string](cfg)
	src, err := batching.NewDatasetSequenceSource([]string{"A", "B"}, cfg.Source.BatchSize, builder, cfg.SourceOptions()...)
	require.NoError(t, err)

	batch, err := src.Produce()
	require.NoError(t, err)
	assert.Len(t, batch, 6)
	require.NotNil(t, batch[0].Inference)
	assert.Equal(t, "dataset_qa", batch[0].Env.Kind)
}

func TestNewLoggerBuilds(t *testing.T) {
	logger, err := LogConfig{Level: "debug", Format: "console", Development: true}.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("config logger smoke test")

	_, err = LogConfig{Level: "nope"}.NewLogger()
	assert.Error(t, err)
}
