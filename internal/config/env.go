package config

import "os"

// loadFromEnv overrides config from SMARTTASK_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	// Logging configuration
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("LOG_CALLER", "log_caller", &cfg.LogCaller)
	str("LOG_DIR", "log_dir", &cfg.LogDir)

	// Tasks
	str("ID_STYLE", "id_style", &cfg.IDStyle)
	str("ID_PREFIX", "id_prefix", &cfg.IDPrefix)
	str("DEFAULT_PRIORITY", "default_priority", &cfg.DefaultPriority)
	str("DEFAULT_CATEGORY", "default_category", &cfg.DefaultCategory)
	str("DEFAULT_FILTER", "default_filter", &cfg.DefaultFilter)
	boolean("SAMPLE_DATA", "sample_data", &cfg.SampleData)
	str("TODAY", "today", &cfg.Today)
}
