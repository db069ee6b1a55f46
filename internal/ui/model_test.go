package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/smarttask/internal/clock"
	"github.com/nibzard/smarttask/internal/todo"
)

var testNow = time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)

// keyMsg builds the tea.KeyMsg for a key name or literal text.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func newTestModel(t *testing.T, seed bool) (*Model, *todo.Store) {
	t.Helper()
	c := clock.Fake(testNow)
	store := todo.NewStore(todo.WithClock(c))
	if seed {
		if err := todo.SeedSample(store, todo.DateOf(testNow)); err != nil {
			t.Fatalf("SeedSample failed: %v", err)
		}
	}
	return NewModel(store, Options{Clock: c}), store
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestViewShowsInsightsAndOrder(t *testing.T) {
	m, _ := newTestModel(t, true)
	view := m.View()

	for _, want := range []string{"Total 3", "Done 1", "Overdue 0", "Today 1", "Rate 33%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	// Due today first, then the later work task, then the completed one.
	today := strings.Index(view, "Buy groceries")
	later := strings.Index(view, "Complete project proposal")
	done := strings.Index(view, "Morning workout")
	if !(today >= 0 && today < later && later < done) {
		t.Errorf("unexpected order (today=%d later=%d done=%d):\n%s", today, later, done, view)
	}
	if !strings.Contains(view, "(today)") {
		t.Errorf("view should flag the task due today:\n%s", view)
	}
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel(t, false)
	view := m.View()
	if !strings.Contains(view, "No tasks yet") {
		t.Errorf("expected empty hint:\n%s", view)
	}
	if !strings.Contains(view, "Rate 0%") {
		t.Errorf("expected zero rate:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, false)
			if cmd := press(m, k); !isQuit(cmd) {
				t.Errorf("%s should quit", k)
			}
		})
	}
}

func TestAddTask(t *testing.T) {
	m, store := newTestModel(t, false)

	press(m, "a")
	if m.mode != modeForm {
		t.Fatalf("mode: got %v, want form", m.mode)
	}

	// Typing q in the form must not quit.
	if cmd := press(m, "quarterly review"); isQuit(cmd) {
		t.Fatal("typing in the form quit the program")
	}
	press(m, "tab", "prep slides", "tab", "right", "tab", "right", "tab", "+2d", "enter")

	if m.mode != modeBrowse {
		t.Fatalf("mode: got %v, want browse", m.mode)
	}
	all := store.All()
	if len(all) != 1 {
		t.Fatalf("got %d tasks, want 1", len(all))
	}
	task := all[0]
	if task.Title != "quarterly review" || task.Description != "prep slides" {
		t.Errorf("text: got %q/%q", task.Title, task.Description)
	}
	if task.Priority != todo.PriorityHigh {
		t.Errorf("Priority: got %q, want high", task.Priority)
	}
	if task.Category != todo.CategoryWork {
		t.Errorf("Category: got %q, want work", task.Category)
	}
	if task.DueDate.String() != "2025-06-24" {
		t.Errorf("DueDate: got %q, want 2025-06-24", task.DueDate)
	}
	if !strings.Contains(m.View(), `Added "quarterly review"`) {
		t.Errorf("missing status line:\n%s", m.View())
	}
}

func TestAddTaskRejectsBlankTitle(t *testing.T) {
	m, store := newTestModel(t, false)

	press(m, "a", "   ", "enter")

	if m.mode != modeForm {
		t.Fatalf("form should stay open, mode %v", m.mode)
	}
	if store.Len() != 0 {
		t.Errorf("store changed: %d tasks", store.Len())
	}
	if m.form.err == nil || !errors.Is(m.form.err, todo.ErrInvalid) {
		t.Errorf("form error: got %v, want ErrInvalid", m.form.err)
	}
	if !strings.Contains(m.View(), "title") {
		t.Errorf("view should show the error:\n%s", m.View())
	}

	press(m, "esc")
	if m.mode != modeBrowse || m.form != nil {
		t.Errorf("esc should close the form")
	}
}

func TestAddTaskRejectsBadDue(t *testing.T) {
	m, store := newTestModel(t, false)
	press(m, "a", "pay rent", "tab", "tab", "tab", "tab", "someday", "enter")
	if store.Len() != 0 {
		t.Errorf("store changed: %d tasks", store.Len())
	}
	if m.form == nil || !errors.Is(m.form.err, todo.ErrInvalid) {
		t.Errorf("expected validation error on due date")
	}
}

func TestToggleSelected(t *testing.T) {
	m, store := newTestModel(t, true)

	// The first row is the task due today.
	first := m.tasks[0]
	press(m, "space")

	got, err := store.Get(first.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Completed {
		t.Error("task should be completed")
	}
	if m.insights.Completed != 2 || m.insights.CompletionRate != 67 {
		t.Errorf("insights: got %+v", m.insights)
	}
	// The cursor follows the task to its new position.
	if sel, _ := m.selected(); sel.ID != first.ID {
		t.Errorf("cursor on %q, want %q", sel.ID, first.ID)
	}

	press(m, "x")
	got, _ = store.Get(first.ID)
	if got.Completed {
		t.Error("second toggle should reopen the task")
	}
}

func TestNavigationClamps(t *testing.T) {
	m, _ := newTestModel(t, true)

	press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0", m.cursor)
	}
	press(m, "j", "down", "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor: got %d, want 2", m.cursor)
	}
	press(m, "up")
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, store := newTestModel(t, true)
	target := m.tasks[0]

	press(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode: got %v, want confirm", m.mode)
	}
	if !strings.Contains(m.View(), "Delete \""+target.Title+"\"? (y/n)") {
		t.Errorf("missing prompt:\n%s", m.View())
	}

	press(m, "n")
	if store.Len() != 3 {
		t.Fatalf("n should keep the task, have %d", store.Len())
	}

	press(m, "d", "y")
	if store.Len() != 2 {
		t.Fatalf("y should delete the task, have %d", store.Len())
	}
	if _, err := store.Get(target.ID); !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("deleted task still present: %v", err)
	}
}

func TestEditTask(t *testing.T) {
	m, store := newTestModel(t, true)
	target := m.tasks[0]

	press(m, "e")
	if m.form == nil || m.form.editing != target.ID {
		t.Fatalf("edit form not opened for %s", target.ID)
	}
	if m.form.title.Value() != target.Title {
		t.Errorf("prefill: got %q, want %q", m.form.title.Value(), target.Title)
	}

	// Clear the due date and raise the priority.
	m.form.due.SetValue("")
	press(m, "tab", "tab", "right", "enter")

	got, err := store.Get(target.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HasDueDate() {
		t.Errorf("DueDate: got %q, want none", got.DueDate)
	}
	if got.Priority != todo.PriorityHigh {
		t.Errorf("Priority: got %q, want high", got.Priority)
	}
	if got.Title != target.Title || !got.CreatedAt.Equal(target.CreatedAt) {
		t.Errorf("unchanged fields moved: %+v", got)
	}
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t, true)

	press(m, "/", "GROC")
	if len(m.tasks) != 1 || m.tasks[0].Title != "Buy groceries" {
		t.Fatalf("search results: got %+v", m.tasks)
	}

	// Keys typed while searching do not trigger list actions.
	press(m, "q")
	if m.mode != modeSearch {
		t.Fatalf("mode: got %v, want search", m.mode)
	}

	press(m, "enter")
	if m.mode != modeBrowse || m.search.Value() != "GROCq" {
		t.Errorf("after enter: mode %v, query %q", m.mode, m.search.Value())
	}
	if len(m.tasks) != 0 || !strings.Contains(m.View(), "No tasks match") {
		t.Errorf("expected no matches:\n%s", m.View())
	}

	press(m, "esc")
	if m.search.Value() != "" || len(m.tasks) != 3 {
		t.Errorf("esc should clear the search, query %q, %d tasks", m.search.Value(), len(m.tasks))
	}
}

func TestFilterCycle(t *testing.T) {
	m, _ := newTestModel(t, true)

	press(m, "f")
	if m.filter != todo.FilterActive || len(m.tasks) != 2 {
		t.Errorf("active: filter %q, %d tasks", m.filter, len(m.tasks))
	}
	press(m, "tab")
	if m.filter != todo.FilterCompleted || len(m.tasks) != 1 {
		t.Errorf("completed: filter %q, %d tasks", m.filter, len(m.tasks))
	}
	press(m, "f")
	if m.filter != todo.FilterAll || len(m.tasks) != 3 {
		t.Errorf("all: filter %q, %d tasks", m.filter, len(m.tasks))
	}
	// Insights ignore the filter.
	press(m, "f")
	if m.insights.Total != 3 {
		t.Errorf("insights total: got %d, want 3", m.insights.Total)
	}
}

func TestInitialFilterOption(t *testing.T) {
	store := todo.NewStore(todo.WithClock(clock.Fake(testNow)))
	if err := todo.SeedSample(store, todo.DateOf(testNow)); err != nil {
		t.Fatal(err)
	}
	m := NewModel(store, Options{Clock: clock.Fake(testNow), Filter: todo.FilterCompleted})
	if len(m.tasks) != 1 || !m.tasks[0].Completed {
		t.Errorf("got %+v, want the completed task only", m.tasks)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, false)
	short := m.View()
	press(m, "?")
	full := m.View()
	if !strings.Contains(full, "clear search") || strings.Contains(short, "clear search") {
		t.Errorf("full help should list more bindings\nshort:\n%s\nfull:\n%s", short, full)
	}
}

func TestCycleValue(t *testing.T) {
	values := []todo.Priority{todo.PriorityLow, todo.PriorityMedium, todo.PriorityHigh}
	if got := cycleValue(values, todo.PriorityHigh, 1); got != todo.PriorityLow {
		t.Errorf("wrap forward: got %q", got)
	}
	if got := cycleValue(values, todo.PriorityLow, -1); got != todo.PriorityHigh {
		t.Errorf("wrap backward: got %q", got)
	}
	if got := cycleValue(values, "bogus", 1); got != todo.PriorityLow {
		t.Errorf("unknown value: got %q", got)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file is not a TTY")
	}
}

func TestRunProgramQuits(t *testing.T) {
	m, _ := newTestModel(t, true)
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := runProgram(ctx, m,
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(&out),
		tea.WithoutSignalHandler(),
	)
	if err != nil {
		t.Fatalf("runProgram: %v", err)
	}
}
