package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/smarttask/internal/clock"
	"github.com/nibzard/smarttask/internal/todo"
)

// Clock returns the clock selected by the config: pinned to Today when it is
// set, the system clock otherwise. Call Validate first.
func (c *Config) Clock() clock.Clock {
	day, err := todo.ParseDate(c.Today)
	if err != nil || day.IsZero() {
		return clock.Real()
	}
	return clock.Pinned(day.Time())
}

// StatusFilter returns the configured initial filter, or all when invalid.
func (c *Config) StatusFilter() todo.StatusFilter {
	f, err := todo.ParseStatusFilter(c.DefaultFilter)
	if err != nil {
		return todo.FilterAll
	}
	return f
}

// StoreOptions returns the store options for the configured id style and
// defaults. Priority and category names are matched case-insensitively, as
// Validate does.
func (c *Config) StoreOptions() ([]todo.Option, error) {
	ids, err := todo.NewIDGenerator(strings.ToLower(strings.TrimSpace(c.IDStyle)), c.IDPrefix)
	if err != nil {
		return nil, err
	}
	priority, err := todo.ParsePriority(c.DefaultPriority)
	if err != nil {
		return nil, fmt.Errorf("default_priority: %w", err)
	}
	category, err := todo.ParseCategory(c.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("default_category: %w", err)
	}
	return []todo.Option{
		todo.WithClock(c.Clock()),
		todo.WithIDGenerator(ids),
		todo.WithDefaults(priority, category),
	}, nil
}
