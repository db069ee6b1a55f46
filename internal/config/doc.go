// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.smarttask/smarttask.toml or OS-specific config directory)
// 3. Project config file (smarttask.toml or .smarttask.toml in the working directory)
// 4. Environment variables (SMARTTASK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.smarttask/smarttask.toml (preferred)
// - Windows: %APPDATA%\smarttask\smarttask.toml
// - macOS: ~/Library/Application Support/smarttask/smarttask.toml
// - Linux/BSD: $XDG_CONFIG_HOME/smarttask/smarttask.toml or ~/.config/smarttask/smarttask.toml
//
// Project-level config locations (overrides user config):
// - ./smarttask.toml (preferred)
// - ./.smarttask.toml
package config
