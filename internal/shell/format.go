package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/smarttask/internal/todo"
)

// Format selects how command results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q, must be one of: text, json, yaml", s)
	}
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// taskRecord is the structured form of a task in a listing, carrying the
// urgency derived for the current day.
type taskRecord struct {
	todo.Task `yaml:",inline"`
	Urgency   todo.Urgency `json:"urgency" yaml:"urgency"`
}

func records(tasks []todo.Task, today todo.Date) []taskRecord {
	out := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		out[i] = taskRecord{Task: t, Urgency: todo.UrgencyOf(t, today)}
	}
	return out
}

// writeTasks renders tasks as a table, or as JSON/YAML records.
func writeTasks(w io.Writer, format Format, tasks []todo.Task, today todo.Date, now time.Time) error {
	if format != FormatText {
		return encode(w, format, records(tasks, today))
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "TITLE", "PRIORITY", "CATEGORY", "DUE", "STATUS", "CREATED")
	for _, task := range tasks {
		done := ""
		if task.Completed {
			done = "x"
		}
		status := ""
		if u := todo.UrgencyOf(task, today); u != todo.UrgencyNormal {
			status = string(u)
		}
		t.Row(
			task.ID,
			done,
			task.Title,
			string(task.Priority),
			string(task.Category),
			task.DueDate.String(),
			status,
			humanize.RelTime(task.CreatedAt, now, "ago", "from now"),
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// writeTask renders one task as key/value lines, or as a JSON/YAML record.
func writeTask(w io.Writer, format Format, task todo.Task, today todo.Date, now time.Time) error {
	if format != FormatText {
		return encode(w, format, taskRecord{Task: task, Urgency: todo.UrgencyOf(task, today)})
	}
	due := task.DueDate.String()
	if due == "" {
		due = "none"
	}
	lines := [][2]string{
		{"id", task.ID},
		{"title", task.Title},
		{"description", task.Description},
		{"priority", string(task.Priority)},
		{"category", string(task.Category)},
		{"completed", fmt.Sprintf("%t", task.Completed)},
		{"due", due},
		{"urgency", string(todo.UrgencyOf(task, today))},
		{"created", fmt.Sprintf("%s (%s)", task.CreatedAt.Format(time.RFC3339), humanize.RelTime(task.CreatedAt, now, "ago", "from now"))},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", l[0]+":", l[1]); err != nil {
			return err
		}
	}
	return nil
}

// writeInsights renders aggregate counts.
func writeInsights(w io.Writer, format Format, in todo.Insights) error {
	if format != FormatText {
		return encode(w, format, in)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "total:       %d\n", in.Total)
	fmt.Fprintf(&b, "completed:   %d\n", in.Completed)
	fmt.Fprintf(&b, "active:      %d\n", in.Active)
	fmt.Fprintf(&b, "overdue:     %d\n", in.Overdue)
	fmt.Fprintf(&b, "due today:   %d\n", in.DueToday)
	fmt.Fprintf(&b, "completion:  %d%%\n", in.CompletionRate)
	if len(in.ByCategory) > 0 {
		b.WriteString("by category: " + joinCounts(in.ByCategory) + "\n")
	}
	if len(in.ByPriority) > 0 {
		b.WriteString("by priority: " + joinCounts(in.ByPriority) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinCounts[K ~string](counts map[K]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[K(k)])
	}
	return strings.Join(parts, " ")
}
