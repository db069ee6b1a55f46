package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# smarttask configuration file
# Values can be overridden by SMARTTASK_* environment variables or CLI flags

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps and caller location in logs
log_timestamps = false
log_caller = false

# Directory for per-run JSONL logs (supports ~ expansion, "off" disables)
log_dir = "~/.smarttask"

# Task id style: sequential (T001, T002, ...) or uuid
id_style = "sequential"

# Prefix for sequential ids
id_prefix = "T"

# Priority and category given to new tasks that leave them empty
default_priority = "medium"
default_category = "personal"

# Status filter the TUI opens with: all, active, completed
default_filter = "all"

# Seed three sample tasks on start
sample_data = true

# Pin the current day for overdue and due-today checks (YYYY-MM-DD)
# today = "2025-06-22"
`
}
