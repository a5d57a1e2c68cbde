package config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source:   DefaultSourceConfig(),
		Request:  DefaultRequestConfig(),
		Sampling: DefaultSamplingConfig(),
		Log:      DefaultLogConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// DefaultSourceConfig returns the default source configuration.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Name:      "train",
		BatchSize: 32,
		GroupSize: 1,
		OnEmpty:   "error",
		Shuffle:   false,
		RNGSeed:   0,
	}
}

// DefaultRequestConfig returns the default request configuration.
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		EnvKind:      "dataset_qa",
		ProtocolKind: "single_agent",
	}
}

// DefaultSamplingConfig returns the default sampling configuration.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Temperature: 0.7,
		MaxTokens:   256,
		TopP:        1.0,
	}
}

// DefaultLogConfig returns the default log configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
	}
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "rolloutflow",
	}
}
