package config

import "flag"

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"log-level":        "log_level",
	"log-format":       "log_format",
	"log-timestamps":   "log_timestamps",
	"log-caller":       "log_caller",
	"log-dir":          "log_dir",
	"id-style":         "id_style",
	"id-prefix":        "id_prefix",
	"default-priority": "default_priority",
	"default-category": "default_category",
	"filter":           "default_filter",
	"sample":           "sample_data",
	"today":            "today",
}

// registerFlags defines the global flags on fs, seeded from cfg. Values are
// bound to cfg directly so parsing overrides earlier layers.
func registerFlags(fs *flag.FlagSet, cfg *Config) {
	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Run log directory (off to disable)")

	// Tasks
	fs.StringVar(&cfg.IDStyle, "id-style", cfg.IDStyle, "Task id style (sequential, uuid)")
	fs.StringVar(&cfg.IDPrefix, "id-prefix", cfg.IDPrefix, "Prefix for sequential task ids")
	fs.StringVar(&cfg.DefaultPriority, "default-priority", cfg.DefaultPriority, "Priority for new tasks (low, medium, high)")
	fs.StringVar(&cfg.DefaultCategory, "default-category", cfg.DefaultCategory, "Category for new tasks (personal, work, health, learning)")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial status filter (all, active, completed)")
	fs.BoolVar(&cfg.SampleData, "sample", cfg.SampleData, "Seed sample tasks on start")
	fs.StringVar(&cfg.Today, "today", cfg.Today, "Pin the current day (YYYY-MM-DD)")
}

// parseFlags defines and parses CLI flags.
// If sources is non-nil, it tracks the source of each explicitly set value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}
	registerFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
