package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	// Sample grid cells.
	SampleOK      = lipgloss.NewStyle().Foreground(Green)
	SampleProblem = lipgloss.NewStyle().Foreground(Peach)
	SampleCursor  = lipgloss.NewStyle().Background(Surface1).Foreground(Lavender).Bold(true)
)

// Quality styles a results label: Excellent in green, anything else in red.
func Quality(label string) lipgloss.Style {
	if label == "Excellent" {
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(Red).Bold(true)
}
