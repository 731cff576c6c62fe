package prompt

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#6BCB77")
	colorRed    = lipgloss.Color("#E74C3C")
	colorAmber  = lipgloss.Color("#F0AD4E")
	colorWhite  = lipgloss.Color("#ECF0F1")
	colorDim    = lipgloss.Color("#7F8C8D")
	colorBorder = lipgloss.Color("#5B9BD5")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	stageStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	riskLowStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	riskHighStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	riskCriticalStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorAmber)

	countdownStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)
)

func riskStyle(level string) lipgloss.Style {
	switch level {
	case "critical":
		return riskCriticalStyle
	case "high":
		return riskHighStyle
	default:
		return riskLowStyle
	}
}
