package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/smarttask/internal/todo"
)

// Validate reports every invalid value in the config, joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format: invalid format %q, must be one of: text, json, logfmt", c.LogFormat))
	}
	switch c.IDStyle {
	case "sequential", "uuid":
	default:
		errs = append(errs, fmt.Errorf("id_style: invalid style %q, must be one of: sequential, uuid", c.IDStyle))
	}
	if _, err := todo.ParsePriority(c.DefaultPriority); err != nil {
		errs = append(errs, fmt.Errorf("default_priority: %w", err))
	}
	if _, err := todo.ParseCategory(c.DefaultCategory); err != nil {
		errs = append(errs, fmt.Errorf("default_category: %w", err))
	}
	if _, err := todo.ParseStatusFilter(c.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	if _, err := todo.ParseDate(c.Today); err != nil {
		errs = append(errs, fmt.Errorf("today: %w", err))
	}

	return errors.Join(errs...)
}
