package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultLogDir     = "~/.smarttask"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultIDStyle    = "sequential"
	DefaultIDPrefix   = "T"
	DefaultPriority   = "medium"
	DefaultCategory   = "personal"
	DefaultFilter     = "all"
	DefaultSampleData = true
)

const (
	envPrefix         = "SMARTTASK_"
	configDirName     = ".smarttask"
	appName           = "smarttask"
	projectConfigName = "smarttask.toml"
)

// Config holds the full configuration for smarttask.
type Config struct {
	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	// LogDir holds per-run JSONL logs. Empty disables run logs.
	LogDir string `toml:"log_dir"`

	// Task identifiers
	IDStyle  string `toml:"id_style"`
	IDPrefix string `toml:"id_prefix"`

	// Values applied to drafts that leave priority or category empty
	DefaultPriority string `toml:"default_priority"`
	DefaultCategory string `toml:"default_category"`

	// Status filter the TUI opens with
	DefaultFilter string `toml:"default_filter"`

	// Seed the demonstration tasks on start
	SampleData bool `toml:"sample_data"`

	// Today pins the current day (YYYY-MM-DD). Empty uses the system clock.
	Today string `toml:"today"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}
