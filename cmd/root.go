// Package cmd implements the CLI command structure for smarttask.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/smarttask/internal/config"
	"github.com/nibzard/smarttask/internal/logging"
	"github.com/nibzard/smarttask/internal/shell"
	"github.com/nibzard/smarttask/internal/todo"
	"github.com/nibzard/smarttask/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the smarttask CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("smarttask", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Default to the TUI on a terminal and the shell otherwise
	subcommand := "tui"
	if !ui.IsTTY(os.Stdout) {
		subcommand = "shell"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Commands that only inspect configuration tolerate invalid values
	switch subcommand {
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "config":
		return configCommand(cws.Config, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	}

	cfg := cws.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "shell":
		return shellCommand(ctx, cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("smarttask tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Console output would corrupt the alternate screen, so the TUI only
	// logs to the run file.
	logger, closeLog := openRunLog(cfg, log.New(io.Discard))
	defer closeLog()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("tui started", "tasks", store.Len(), "filter", cfg.StatusFilter())
	err = ui.Run(ctx, store, ui.Options{
		Clock:  cfg.Clock(),
		Logger: logger,
		Filter: cfg.StatusFilter(),
	})
	logger.Info("tui stopped", "tasks", store.Len(), "err", err)
	return err
}

// shellCommand runs line commands from a script file or stdin.
func shellCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("smarttask shell", flag.ContinueOnError)
	format := fs.String("format", "text", "Default output format (text, json, yaml)")
	prompt := fs.String("prompt", "", "Prompt shown before each command (default \"smarttask> \" on a terminal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	outFormat, err := shell.ParseFormat(*format)
	if err != nil {
		return err
	}

	logger, closeLog := openRunLog(cfg, consoleLogger(cfg))
	defer closeLog()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	interactive := fs.NArg() == 0 && ui.IsTTY(os.Stdin)
	if fs.NArg() == 1 {
		path := fs.Arg(0)
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.ProjectRoot, path)
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer file.Close()
		in = file
	}
	if *prompt == "" && interactive {
		*prompt = "smarttask> "
	}

	sh := shell.New(store, os.Stdout, shell.Options{
		Clock:  cfg.Clock(),
		Logger: logger,
		Prompt: *prompt,
		Format: outFormat,
	})
	failed, err := sh.Run(ctx, in)
	if err != nil {
		return err
	}
	logger.Debug("shell finished", "tasks", store.Len(), "failed", failed)
	if failed > 0 && !interactive {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}

// doctorCommand reports the effective configuration and where each value
// came from, then checks that the config and embedded schemas are valid.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("smarttask doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config

	fmt.Println("smarttask doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if len(cws.Files) == 0 {
		fmt.Println("Config files: (none)")
	} else {
		fmt.Println("Config files:")
		for _, file := range cws.Files {
			fmt.Printf("  %s\n", file)
		}
	}
	fmt.Println()

	fmt.Println("Settings:")
	for _, field := range cws.SortedFields() {
		value := cws.Value(field)
		if value == "" {
			value = "(empty)"
		}
		fmt.Printf("  %-18s %-24s [%s]\n", field, value, cws.Sources[field])
	}
	fmt.Println()

	fmt.Println("Checks:")
	if err := cfg.Validate(); err != nil {
		fmt.Println("  ❌ Config:")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("     - %s\n", line)
		}
		allOK = false
	} else {
		fmt.Println("  ✅ Config valid")
	}

	if err := todo.CheckSchemas(); err != nil {
		fmt.Printf("  ❌ Input schemas: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ Input schemas compile")
	}

	if cfg.LogDir == "" {
		fmt.Println("  ✅ Run logs: disabled")
	} else if logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Run logs: %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ Run logs: %s\n", logDir)
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// configCommand prints or writes an example config file.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("smarttask config", flag.ContinueOnError)
	write := fs.Bool("write", false, "Write smarttask.toml to the project root")
	force := fs.Bool("force", false, "Overwrite an existing smarttask.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*write {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	path := filepath.Join(cfg.ProjectRoot, "smarttask.toml")
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Printf("Skipping %s (already exists)\n", path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// tailCommand tails the latest run log, or lists the recorded runs.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("smarttask tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List run logs instead of tailing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogDir == "" {
		return fmt.Errorf("run logs are disabled (log_dir is off)")
	}
	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No log files found.")
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %s\n", run.RunID, run.ModTime.Format("2006-01-02 15:04:05"), humanize.Bytes(uint64(run.Size)))
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("smarttask version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "smarttask - prioritised to-do lists in the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  smarttask [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui             Launch the terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  shell [script]  Run line commands from a script or stdin")
	fmt.Fprintln(w, "  doctor          Show effective config and check it")
	fmt.Fprintln(w, "  config          Print an example config file")
	fmt.Fprintln(w, "  tail            Tail the latest run log")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shell Options (use with 'shell' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Default output format (text, json, yaml)")
	fmt.Fprintln(w, "  -prompt string")
	fmt.Fprintln(w, "        Prompt shown before each command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -write    Write smarttask.toml to the project root")
	fmt.Fprintln(w, "  -force    Overwrite an existing smarttask.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List run logs instead of tailing")
}
