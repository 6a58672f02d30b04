package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	card    lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
	focused lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		focused: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	}
}
