package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/smarttask/internal/clock"
	"github.com/nibzard/smarttask/internal/todo"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// Options configures the TUI model.
type Options struct {
	// Clock supplies "today". Defaults to the real clock.
	Clock clock.Clock
	// Logger receives user actions. Defaults to discarding.
	Logger *log.Logger
	// Filter is the initial status filter.
	Filter todo.StatusFilter
	// Keys overrides DefaultKeyMap.
	Keys *KeyMap
}

// Model is the bubbletea model for the task manager.
type Model struct {
	store  *todo.Store
	clock  clock.Clock
	logger *log.Logger
	keys   KeyMap
	help   help.Model

	search textinput.Model
	filter todo.StatusFilter
	form   *taskForm
	mode   mode

	tasks    []todo.Task
	insights todo.Insights
	today    todo.Date
	cursor   int

	// pendingDelete is the id awaiting confirmation in modeConfirmDelete.
	pendingDelete string
	status        string
	err           error

	width    int
	height   int
	showHelp bool
}

// NewModel returns a model over store.
func NewModel(store *todo.Store, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Filter == "" {
		opts.Filter = todo.FilterAll
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	search := textinput.New()
	search.Placeholder = "title or description"
	search.Prompt = "/ "
	search.CharLimit = 100

	m := &Model{
		store:  store,
		clock:  opts.Clock,
		logger: opts.Logger,
		keys:   keys,
		help:   help.New(),
		search: search,
		filter: opts.Filter,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// refresh recomputes the visible list and insights for the current day.
func (m *Model) refresh() {
	m.today = todo.DateOf(m.clock.Now())
	m.tasks = m.store.View(todo.Query{
		Search: strings.TrimSpace(m.search.Value()),
		Status: m.filter,
	}, m.today)
	m.insights = m.store.Insights(m.today)
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the task under the cursor.
func (m *Model) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// selectID moves the cursor to id if it is visible.
func (m *Model) selectID(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	// Non-key messages such as cursor blink go to the focused input.
	switch m.mode {
	case modeSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case modeForm:
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		updated, err := m.store.Toggle(t.ID)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.logger.Info("task toggled", "id", updated.ID, "completed", updated.Completed)
		if updated.Completed {
			m.status = fmt.Sprintf("Completed %q", updated.Title)
		} else {
			m.status = fmt.Sprintf("Reopened %q", updated.Title)
		}
		m.refresh()
		m.selectID(updated.ID)

	case key.Matches(msg, m.keys.Add):
		m.form = newTaskForm(m.store.Defaults())
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = editTaskForm(t)
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = t.ID
		m.mode = modeConfirmDelete

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}

	case key.Matches(msg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.submitForm()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		f.next()
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		f.prev()
		return m, nil
	case key.Matches(msg, m.keys.Increase) && f.cycle(1):
		return m, nil
	case key.Matches(msg, m.keys.Decrease) && f.cycle(-1):
		return m, nil
	}
	return m, f.update(msg)
}

func (m *Model) submitForm() {
	f := m.form
	var (
		task todo.Task
		err  error
	)
	if f.editing == "" {
		var d todo.Draft
		if d, err = f.draft(m.today); err == nil {
			task, err = m.store.Add(d)
		}
	} else {
		var p todo.Patch
		if p, err = f.patch(m.today); err == nil {
			task, err = m.store.Edit(f.editing, p)
		}
	}
	if err != nil {
		// Keep the form open so the input can be corrected.
		f.err = err
		m.logger.Warn("task rejected", "err", err)
		return
	}

	if f.editing == "" {
		m.logger.Info("task added", "id", task.ID)
		m.status = fmt.Sprintf("Added %q", task.Title)
	} else {
		m.logger.Info("task edited", "id", task.ID)
		m.status = fmt.Sprintf("Updated %q", task.Title)
	}
	m.closeForm()
	m.selectID(task.ID)
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeBrowse
	m.refresh()
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.pendingDelete
		m.pendingDelete = ""
		m.mode = modeBrowse
		if err := m.store.Remove(id); err != nil {
			m.fail(err)
			return m, nil
		}
		m.logger.Info("task removed", "id", id)
		m.status = fmt.Sprintf("Deleted %s", id)
		m.refresh()
	case key.Matches(msg, m.keys.Deny):
		m.pendingDelete = ""
		m.mode = modeBrowse
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fail(err error) {
	m.err = err
	m.status = ""
	m.logger.Error("action failed", "err", err)
	m.refresh()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SmartTask"))
	b.WriteString(subtleStyle.Render("  " + m.today.String()))
	b.WriteString("\n")
	b.WriteString(m.insightsView())
	b.WriteString("\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString(m.form.view())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.filterView())
	b.WriteString("\n")
	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString("\n")

	switch {
	case m.mode == modeConfirmDelete:
		title := m.pendingDelete
		if t, err := m.store.Get(m.pendingDelete); err == nil {
			title = t.Title
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", title)))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) insightsView() string {
	in := m.insights
	stats := []string{
		fmt.Sprintf("Total %d", in.Total),
		fmt.Sprintf("Done %d", in.Completed),
		fmt.Sprintf("Overdue %d", in.Overdue),
		fmt.Sprintf("Today %d", in.DueToday),
		fmt.Sprintf("Rate %d%%", in.CompletionRate),
	}
	boxes := make([]string, len(stats))
	for i, s := range stats {
		boxes[i] = statStyle.Render(s)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) filterView() string {
	tabs := make([]string, len(todo.StatusFilters))
	for i, f := range todo.StatusFilters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == m.filter {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = subtleStyle.Render(label)
		}
	}
	return strings.Join(tabs, subtleStyle.Render(" | "))
}

func (m *Model) listView() string {
	if len(m.tasks) == 0 {
		if m.store.Len() == 0 {
			return subtleStyle.Render("No tasks yet. Press a to add one.")
		}
		return subtleStyle.Render("No tasks match.")
	}

	now := m.clock.Now()
	lines := make([]string, 0, len(m.tasks))
	for i, t := range m.tasks {
		lines = append(lines, m.taskLine(t, i == m.cursor, now))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) taskLine(t todo.Task, selected bool, now time.Time) string {
	cursor := "  "
	if selected {
		cursor = selectedStyle.Render("> ")
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	title := t.Title
	switch {
	case t.Completed:
		title = completedStyle.Render(title)
	case selected:
		title = selectedStyle.Render(title)
	}

	parts := []string{
		cursor + check,
		subtleStyle.Render(t.ID),
		title,
		priorityStyle(t.Priority).Render(string(t.Priority)),
		subtleStyle.Render(string(t.Category)),
	}
	if t.HasDueDate() {
		urgency := todo.UrgencyOf(t, m.today)
		due := "due " + t.DueDate.String()
		switch urgency {
		case todo.UrgencyOverdue:
			due += " (overdue)"
		case todo.UrgencyDueToday:
			due += " (today)"
		}
		parts = append(parts, urgencyStyle(urgency).Render(due))
	}
	parts = append(parts, subtleStyle.Render("added "+humanize.RelTime(t.CreatedAt, now, "ago", "from now")))

	line := strings.Join(parts, "  ")
	if selected && t.Description != "" {
		line += "\n      " + subtleStyle.Render(t.Description)
	}
	return line
}
