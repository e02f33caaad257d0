package components

import (
	"fmt"

	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForRate picks the rate-scale color for a 0-1 tax rate.
func ColorForRate(rate float64) string {
	t := theme.Active
	switch {
	case rate >= 0.35:
		return string(t.RateTop)
	case rate >= 0.25:
		return string(t.RateHigh)
	case rate >= 0.15:
		return string(t.RateMid)
	default:
		return string(t.RateLow)
	}
}

// RateBar renders a labeled bar for a 0-1 rate followed by its percentage.
func RateBar(label string, rate float64, labelW, barWidth int) string {
	t := theme.Active

	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForRate(rate)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForRate(rate))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(rate) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", rate*100))
}
