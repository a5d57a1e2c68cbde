package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Loader loads configuration with the priority defaults → YAML file →
// environment variables.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader with no file and no env prefix.
func NewLoader() *Loader {
	return &Loader{}
}

// WithConfigPath sets the YAML file to load. Optional; a missing path
// means defaults plus env only.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix enables environment overrides with the given prefix,
// e.g. prefix "ROLLOUTFLOW" reads ROLLOUTFLOW_SOURCE_BATCH_SIZE.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load assembles and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", l.configPath, err)
		}
	}

	if l.envPrefix != "" {
		if err := applyEnv(cfg, l.envPrefix); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides scalar fields from PREFIX_SECTION_FIELD variables.
func applyEnv(cfg *Config, prefix string) error {
	var err error
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(prefix + "_" + key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		v, ok := os.LookupEnv(prefix + "_" + key)
		if !ok {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("config: %s_%s: %w", prefix, key, perr)
			return
		}
		*dst = n
	}
	setInt64 := func(key string, dst *int64) {
		v, ok := os.LookupEnv(prefix + "_" + key)
		if !ok {
			return
		}
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			err = fmt.Errorf("config: %s_%s: %w", prefix, key, perr)
			return
		}
		*dst = n
	}
	setBool := func(key string, dst *bool) {
		v, ok := os.LookupEnv(prefix + "_" + key)
		if !ok {
			return
		}
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("config: %s_%s: %w", prefix, key, perr)
			return
		}
		*dst = b
	}

	setString("SOURCE_NAME", &cfg.Source.Name)
	setInt("SOURCE_BATCH_SIZE", &cfg.Source.BatchSize)
	setInt("SOURCE_GROUP_SIZE", &cfg.Source.GroupSize)
	setString("SOURCE_ON_EMPTY", &cfg.Source.OnEmpty)
	setBool("SOURCE_SHUFFLE", &cfg.Source.Shuffle)
	setInt64("SOURCE_RNG_SEED", &cfg.Source.RNGSeed)

	setString("REQUEST_ENV_KIND", &cfg.Request.EnvKind)
	setString("REQUEST_PROTOCOL_KIND", &cfg.Request.ProtocolKind)
	setString("REQUEST_MODEL", &cfg.Request.Model)

	setInt("SAMPLING_MAX_TOKENS", &cfg.Sampling.MaxTokens)

	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
	setBool("LOG_DEVELOPMENT", &cfg.Log.Development)

	setBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("METRICS_NAMESPACE", &cfg.Metrics.Namespace)

	return err
}
