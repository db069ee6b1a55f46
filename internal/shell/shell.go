package shell

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/smarttask/internal/clock"
	"github.com/nibzard/smarttask/internal/todo"
)

// ErrUnknownCommand is returned by Exec for an unrecognised command word.
var ErrUnknownCommand = errors.New("unknown command")

// Options configures a Shell.
type Options struct {
	// Clock supplies the current time. Defaults to the real clock.
	Clock clock.Clock
	// Logger records executed commands at debug level. Defaults to discarding.
	Logger *log.Logger
	// Prompt is written before each line is read. Empty means no prompt.
	Prompt string
	// Format is the default output format for ls, get and stats.
	Format Format
}

// Shell executes task commands against a store.
type Shell struct {
	store  *todo.Store
	out    io.Writer
	clock  clock.Clock
	logger *log.Logger
	prompt string
	format Format

	// today overrides the clock's date when non-zero.
	today todo.Date
}

// New returns a shell that writes results to out.
func New(store *todo.Store, out io.Writer, opts Options) *Shell {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Shell{
		store:  store,
		out:    out,
		clock:  opts.Clock,
		logger: opts.Logger,
		prompt: opts.Prompt,
		format: opts.Format,
	}
}

// Today returns the date relative-date rules and urgency are computed for.
func (s *Shell) Today() todo.Date {
	if !s.today.IsZero() {
		return s.today
	}
	return todo.DateOf(s.clock.Now())
}

// Run reads commands from in until EOF, quit, or ctx is cancelled. Command
// errors are written to the output and do not stop the loop. It returns the
// number of commands that failed alongside any read error.
func (s *Shell) Run(ctx context.Context, in io.Reader) (failed int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			return failed, scanner.Err()
		}

		quit, err := s.Exec(scanner.Text())
		if err != nil {
			failed++
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return failed, nil
		}
	}
}

// Exec runs a single command line. quit is true for quit and exit.
func (s *Shell) Exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	cmd, rest := splitCommand(line)
	s.logger.Debug("shell command", "cmd", cmd)

	switch cmd {
	case "add":
		return false, s.add(rest)
	case "edit":
		return false, s.edit(rest)
	case "toggle", "done":
		return false, s.toggle(rest)
	case "rm", "remove", "delete":
		return false, s.remove(rest)
	case "get", "show":
		return false, s.get(rest)
	case "ls", "list":
		return false, s.list(rest)
	case "stats", "insights":
		return false, s.stats(rest)
	case "today":
		return false, s.setToday(rest)
	case "sample":
		return false, s.sample()
	case "help", "?":
		printHelp(s.out)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, cmd)
	}
}

func (s *Shell) add(rest string) error {
	if rest == "" {
		return errors.New(`usage: add {"title": "..."}`)
	}
	draft, err := todo.DecodeDraft([]byte(rest), s.Today())
	if err != nil {
		return err
	}
	task, err := s.store.Add(draft)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "added %s\n", task.ID)
	return err
}

func (s *Shell) edit(rest string) error {
	id, payload, _ := strings.Cut(rest, " ")
	payload = strings.TrimSpace(payload)
	if id == "" || payload == "" {
		return errors.New(`usage: edit <id> {"field": value}`)
	}
	patch, err := todo.DecodePatch([]byte(payload), s.Today())
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return errors.New("edit: patch changes nothing")
	}
	task, err := s.store.Edit(id, patch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "edited %s\n", task.ID)
	return err
}

func (s *Shell) toggle(rest string) error {
	id, err := singleID("toggle", rest)
	if err != nil {
		return err
	}
	task, err := s.store.Toggle(id)
	if err != nil {
		return err
	}
	state := "active"
	if task.Completed {
		state = "completed"
	}
	_, err = fmt.Fprintf(s.out, "%s is %s\n", task.ID, state)
	return err
}

func (s *Shell) remove(rest string) error {
	id, err := singleID("rm", rest)
	if err != nil {
		return err
	}
	if err := s.store.Remove(id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "removed %s\n", id)
	return err
}

func (s *Shell) get(rest string) error {
	fs, format := s.newFlagSet("get")
	args, err := splitArgs(rest)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: get <id> [-format text|json|yaml]")
	}
	f, err := ParseFormat(*format)
	if err != nil {
		return err
	}
	task, err := s.store.Get(fs.Arg(0))
	if err != nil {
		return err
	}
	return writeTask(s.out, f, task, s.Today(), s.clock.Now())
}

func (s *Shell) list(rest string) error {
	fs, format := s.newFlagSet("ls")
	search := fs.String("search", "", "case-insensitive title or description substring")
	status := fs.String("status", "all", "all, active, or completed")
	category := fs.String("category", "", "only this category")
	priority := fs.String("priority", "", "only this priority")

	args, err := splitArgs(rest)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	// A bare trailing word is a search term.
	if fs.NArg() > 0 && *search == "" {
		*search = strings.Join(fs.Args(), " ")
	}

	q := todo.Query{Search: *search}
	if q.Status, err = todo.ParseStatusFilter(*status); err != nil {
		return err
	}
	if *category != "" {
		if q.Category, err = todo.ParseCategory(*category); err != nil {
			return err
		}
	}
	if *priority != "" {
		if q.Priority, err = todo.ParsePriority(*priority); err != nil {
			return err
		}
	}
	f, err := ParseFormat(*format)
	if err != nil {
		return err
	}

	today := s.Today()
	return writeTasks(s.out, f, s.store.View(q, today), today, s.clock.Now())
}

func (s *Shell) stats(rest string) error {
	fs, format := s.newFlagSet("stats")
	args, err := splitArgs(rest)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := ParseFormat(*format)
	if err != nil {
		return err
	}
	return writeInsights(s.out, f, s.store.Insights(s.Today()))
}

func (s *Shell) setToday(rest string) error {
	switch arg := strings.TrimSpace(rest); arg {
	case "":
	case "reset":
		s.today = todo.Date{}
	default:
		day, err := todo.ResolveDue(arg, todo.DateOf(s.clock.Now()))
		if err != nil {
			return err
		}
		if day.IsZero() {
			return fmt.Errorf("today: %q is not a date", arg)
		}
		s.today = day
	}
	_, err := fmt.Fprintf(s.out, "today is %s\n", s.Today())
	return err
}

func (s *Shell) sample() error {
	if err := todo.SeedSample(s.store, s.Today()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "%d tasks\n", s.store.Len())
	return err
}

// newFlagSet returns a per-command flag set that reports errors instead of
// exiting, with the shared -format flag registered.
func (s *Shell) newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", string(s.format), "output format: text, json, or yaml")
	return fs, format
}

func singleID(cmd, rest string) (string, error) {
	args, err := splitArgs(rest)
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s <id>", cmd)
	}
	return args[0], nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `commands:
  add <json>              create a task, e.g. add {"title": "Pay rent", "due_date": "+2d"}
  edit <id> <json>        change fields, e.g. edit T001 {"priority": "high"}
  toggle <id>             flip completion
  rm <id>                 delete a task
  get <id>                show one task
  ls [flags] [search]     list tasks in display order
                          -status all|active|completed -category c -priority p
  stats                   aggregate counts and completion rate
  today [date|reset]      show or pin the current date
  sample                  add the sample tasks
  help                    show this help
  quit                    leave the shell

ls, get and stats accept -format text|json|yaml.
`)
}
