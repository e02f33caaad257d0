package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// eighths are the partial-cell glyphs used for bar ends, thinnest first.
var eighths = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// BarChart renders one horizontal bar per value, scaled to the largest.
// Labels are truncated to a third of the width; fmtValue formats the figure
// printed after each bar.
func BarChart(values []float64, labels []string, color lipgloss.Color, width int, fmtValue func(float64) string) string {
	if len(values) == 0 || len(labels) != len(values) {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}

	valueW := 0
	for _, v := range values {
		if w := lipgloss.Width(fmtValue(v)); w > valueW {
			valueW = w
		}
	}

	barW := width - labelW - valueW - 3
	if barW < 5 {
		barW = 5
	}

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, v := range values {
		bar := ""
		if peak > 0 && v > 0 {
			cells := v / peak * float64(barW)
			full := int(cells)
			frac := int((cells - float64(full)) * 8)
			bar = strings.Repeat("█", full)
			if frac > 0 && full < barW {
				bar += string(eighths[frac-1])
			}
			if bar == "" {
				bar = string(eighths[0])
			}
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncLabel(labels[i], labelW))))
		b.WriteString(axisStyle.Render(" │"))
		b.WriteString(barStyle.Render(bar))
		b.WriteString(space.Render(strings.Repeat(" ", barW-lipgloss.Width(bar)+1)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*s", valueW, fmtValue(v))))
		if i < len(values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncLabel(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
