package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/smarttask/internal/config"
	"github.com/nibzard/smarttask/internal/logging"
	"github.com/nibzard/smarttask/internal/todo"
)

// consoleLogger builds the stderr logger described by cfg.
func consoleLogger(cfg *config.Config) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Formatter = logging.ParseFormatter(cfg.LogFormat)
	opts.ReportTimestamp = cfg.LogTimestamps
	opts.ReportCaller = cfg.LogCaller
	return logging.NewLogger(os.Stderr, opts)
}

// openRunLog opens a per-run JSONL log when cfg.LogDir is set and returns
// its logger. With run logs disabled, or when the file cannot be created,
// it returns fallback. The returned close func is always safe to call.
func openRunLog(cfg *config.Config, fallback *log.Logger) (*log.Logger, func()) {
	if cfg.LogDir == "" {
		return fallback, func() {}
	}

	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		fallback.Warn("run log disabled", "err", err)
		return fallback, func() {}
	}
	fallback.Debug("run log", "path", runLog.LogPath)

	closeLog := func() {
		if err := runLog.Close(); err != nil {
			fallback.Warn("closing run log", "err", err)
		}
	}
	return runLog.Logger(), closeLog
}

// newStore builds the task store from cfg and seeds the sample tasks when
// enabled.
func newStore(cfg *config.Config, logger *log.Logger) (*todo.Store, error) {
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, fmt.Errorf("configuring store: %w", err)
	}
	store := todo.NewStore(append(opts, todo.WithLogger(logger))...)

	if cfg.SampleData {
		today := todo.DateOf(cfg.Clock().Now())
		if err := todo.SeedSample(store, today); err != nil {
			return nil, fmt.Errorf("seeding sample tasks: %w", err)
		}
	}
	return store, nil
}
