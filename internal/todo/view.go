package todo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// StatusFilters lists the filters in the order the UI cycles through them.
var StatusFilters = []StatusFilter{FilterAll, FilterActive, FilterCompleted}

// ParseStatusFilter parses a filter name. The empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid status filter %q, must be one of: all, active, completed", s)
	}
}

// Match reports whether t passes the filter. Unknown filters match all.
func (f StatusFilter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter after f in StatusFilters, wrapping around.
func (f StatusFilter) Next() StatusFilter {
	for i, candidate := range StatusFilters {
		if candidate == f {
			return StatusFilters[(i+1)%len(StatusFilters)]
		}
	}
	return FilterAll
}

// Query describes which tasks View returns. Zero-value fields mean "no
// filter" for that dimension; all non-zero fields must match.
type Query struct {
	// Search is a case-insensitive substring of the title or description.
	Search string
	// Status keeps all, active, or completed tasks.
	Status StatusFilter
	// Category keeps only tasks in this category.
	Category Category
	// Priority keeps only tasks with this priority.
	Priority Priority
}

// Match reports whether t satisfies every dimension of q.
func (q Query) Match(t Task) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if !q.Status.Match(t) {
		return false
	}
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	return true
}

// View returns the tasks matching q, ordered for display relative to today.
// The stored order is never changed.
func (s *Store) View(q Query, today Date) []Task {
	s.mu.RLock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	SortTasks(out, today)
	return out
}

// SortTasks orders tasks in place, stably, by:
//  1. incomplete before completed
//  2. overdue before not overdue
//  3. due today before not due today
//  4. higher priority first
//  5. earlier due date first, tasks without a due date last
func SortTasks(tasks []Task, today Date) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return compareTasks(tasks[i], tasks[j], today) < 0
	})
}

func compareTasks(a, b Task, today Date) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}

	aOverdue, bOverdue := isOverdue(a, today), isOverdue(b, today)
	if aOverdue != bOverdue {
		if aOverdue {
			return -1
		}
		return 1
	}

	aToday, bToday := isDueToday(a, today), isDueToday(b, today)
	if aToday != bToday {
		if aToday {
			return -1
		}
		return 1
	}

	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return cmpInt(rb, ra)
	}

	switch {
	case a.DueDate.IsZero() && b.DueDate.IsZero():
		return 0
	case a.DueDate.IsZero():
		return 1
	case b.DueDate.IsZero():
		return -1
	default:
		return a.DueDate.Compare(b.DueDate)
	}
}

// isOverdue ignores completion; the sort compares it only between tasks of
// equal completion state.
func isOverdue(t Task, today Date) bool {
	return t.HasDueDate() && t.DueDate.Before(today)
}

func isDueToday(t Task, today Date) bool {
	return t.HasDueDate() && t.DueDate.Equal(today)
}

// Urgency classifies a task relative to today for display.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyDueToday Urgency = "due-today"
	UrgencyOverdue  Urgency = "overdue"
)

// UrgencyOf reports how pressing t is on today. Completed tasks are always
// normal.
func UrgencyOf(t Task, today Date) Urgency {
	switch {
	case t.Completed:
		return UrgencyNormal
	case isOverdue(t, today):
		return UrgencyOverdue
	case isDueToday(t, today):
		return UrgencyDueToday
	default:
		return UrgencyNormal
	}
}

// Insights holds aggregate counts across every task in the store.
type Insights struct {
	Total          int              `json:"total" yaml:"total"`
	Completed      int              `json:"completed" yaml:"completed"`
	Active         int              `json:"active" yaml:"active"`
	Overdue        int              `json:"overdue" yaml:"overdue"`
	DueToday       int              `json:"due_today" yaml:"due_today"`
	CompletionRate int              `json:"completion_rate_percent" yaml:"completion_rate_percent"`
	ByCategory     map[Category]int `json:"by_category" yaml:"by_category"`
	ByPriority     map[Priority]int `json:"by_priority" yaml:"by_priority"`
}

// Insights computes aggregate statistics relative to today.
func (s *Store) Insights(today Date) Insights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeInsights(s.tasks, today)
}

func computeInsights(tasks []Task, today Date) Insights {
	in := Insights{
		Total:      len(tasks),
		ByCategory: make(map[Category]int),
		ByPriority: make(map[Priority]int),
	}
	for _, t := range tasks {
		in.ByCategory[t.Category]++
		in.ByPriority[t.Priority]++
		if t.Completed {
			in.Completed++
			continue
		}
		in.Active++
		switch UrgencyOf(t, today) {
		case UrgencyOverdue:
			in.Overdue++
		case UrgencyDueToday:
			in.DueToday++
		}
	}
	in.CompletionRate = CompletionRate(in.Completed, in.Total)
	return in
}

// CompletionRate returns completed/total as a whole percentage, rounding
// halves away from zero. It returns 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
