package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/smarttask/internal/todo"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7D56F4") // Purple accent
	secondaryColor = lipgloss.Color("#6C6C6C") // Gray for secondary text
	successColor   = lipgloss.Color("#73F59F")
	warningColor   = lipgloss.Color("#F5C542")
	errorColor     = lipgloss.Color("#FF6B6B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	completedStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Strikethrough(true)

	overdueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	dueTodayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	statStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(primaryColor)

	priorityStyles = map[todo.Priority]lipgloss.Style{
		todo.PriorityHigh:   lipgloss.NewStyle().Foreground(errorColor),
		todo.PriorityMedium: lipgloss.NewStyle().Foreground(warningColor),
		todo.PriorityLow:    lipgloss.NewStyle().Foreground(successColor),
	}
)

func priorityStyle(p todo.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return subtleStyle
}

func urgencyStyle(u todo.Urgency) lipgloss.Style {
	switch u {
	case todo.UrgencyOverdue:
		return overdueStyle
	case todo.UrgencyDueToday:
		return dueTodayStyle
	default:
		return subtleStyle
	}
}
