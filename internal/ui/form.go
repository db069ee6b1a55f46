package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/smarttask/internal/todo"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldDescription: "Description",
	fieldPriority:    "Priority",
	fieldCategory:    "Category",
	fieldDue:         "Due",
}

// taskForm collects the fields of a new or edited task.
type taskForm struct {
	// editing is the id of the task being edited, empty for a new task.
	editing string

	title       textinput.Model
	description textinput.Model
	due         textinput.Model
	priority    todo.Priority
	category    todo.Category

	focus formField
	err   error
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	ti.Prompt = ""
	return ti
}

// newTaskForm returns an empty form seeded with the store defaults.
func newTaskForm(priority todo.Priority, category todo.Category) *taskForm {
	f := &taskForm{
		title:       newTextInput("What needs doing?", 200),
		description: newTextInput("Optional details", 500),
		due:         newTextInput("YYYY-MM-DD, today, tomorrow, +3d", 32),
		priority:    priority,
		category:    category,
	}
	f.setFocus(fieldTitle)
	return f
}

// editTaskForm returns a form prefilled from t.
func editTaskForm(t todo.Task) *taskForm {
	f := newTaskForm(t.Priority, t.Category)
	f.editing = t.ID
	f.title.SetValue(t.Title)
	f.description.SetValue(t.Description)
	f.due.SetValue(t.DueDate.String())
	f.setFocus(fieldTitle)
	return f
}

func (f *taskForm) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	f.due.Blur()
	if in := f.input(field); in != nil {
		in.Focus()
	}
}

// input returns the text input backing field, or nil for enum fields.
func (f *taskForm) input(field formField) *textinput.Model {
	switch field {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.description
	case fieldDue:
		return &f.due
	default:
		return nil
	}
}

func (f *taskForm) next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *taskForm) prev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// cycle moves the focused enum field by delta. Text fields are unaffected.
func (f *taskForm) cycle(delta int) bool {
	switch f.focus {
	case fieldPriority:
		f.priority = cycleValue(todo.Priorities, f.priority, delta)
	case fieldCategory:
		f.category = cycleValue(todo.Categories, f.category, delta)
	default:
		return false
	}
	return true
}

func cycleValue[T comparable](values []T, current T, delta int) T {
	for i, v := range values {
		if v == current {
			n := len(values)
			return values[((i+delta)%n+n)%n]
		}
	}
	return values[0]
}

// update forwards msg to the focused text input.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	in := f.input(f.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// draft converts the form to a Draft, resolving the due field against today.
func (f *taskForm) draft(today todo.Date) (todo.Draft, error) {
	due, err := todo.ResolveDue(f.due.Value(), today)
	if err != nil {
		return todo.Draft{}, &todo.ValidationError{Path: "due_date", Err: err}
	}
	return todo.Draft{
		Title:       f.title.Value(),
		Description: strings.TrimSpace(f.description.Value()),
		Priority:    f.priority,
		Category:    f.category,
		DueDate:     due,
	}, nil
}

// patch converts the form to a Patch that rewrites every editable field.
func (f *taskForm) patch(today todo.Date) (todo.Patch, error) {
	d, err := f.draft(today)
	if err != nil {
		return todo.Patch{}, err
	}
	return todo.Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Priority:    &d.Priority,
		Category:    &d.Category,
		DueDate:     &d.DueDate,
	}, nil
}

func (f *taskForm) view() string {
	var b strings.Builder

	heading := "New task"
	if f.editing != "" {
		heading = fmt.Sprintf("Edit %s", f.editing)
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	for field := formField(0); field < fieldCount; field++ {
		label := fmt.Sprintf("%-12s", fieldLabels[field])
		if field == f.focus {
			label = selectedStyle.Render("> " + label)
		} else {
			label = "  " + subtleStyle.Render(label)
		}

		var value string
		switch field {
		case fieldPriority:
			value = enumView(string(f.priority), field == f.focus)
		case fieldCategory:
			value = enumView(string(f.category), field == f.focus)
		default:
			value = f.input(field).View()
		}
		b.WriteString(label + value + "\n")
	}

	if f.err != nil {
		b.WriteString("\n" + errorStyle.Render(f.err.Error()) + "\n")
	}
	b.WriteString("\n" + subtleStyle.Render("enter save · tab next field · ←/→ change value · esc cancel"))
	return boxStyle.Render(b.String())
}

func enumView(value string, focused bool) string {
	if focused {
		return selectedStyle.Render("‹ " + value + " ›")
	}
	return value
}
