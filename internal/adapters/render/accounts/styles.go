package accounts

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	account  lipgloss.Style
	detail   lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		active:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
