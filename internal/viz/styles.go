package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	hint   lipgloss.Style
	border lipgloss.Style
	panel  lipgloss.Style
}

func stylesFor(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1),
		cell:   lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		hint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		border: lipgloss.NewStyle().Foreground(t.Border),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
