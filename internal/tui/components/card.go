// Package components provides the widgets the taxalpha TUI is assembled from.
package components

import (
	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one headline figure on a metric card.
type Metric struct {
	Label string
	Value string
	Note  string // optional, e.g. the position a value belongs to
}

// LayoutRow splits totalWidth into n column widths summing to exactly
// totalWidth. Leading columns take the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// frame is the rounded border shared by all cards. outerWidth includes
// the border.
func frame(outerWidth int, border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders one Metric in a card outerWidth wide.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	content := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(m.Value)
	if m.Note != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Note)
	}
	return frame(outerWidth, t.Border).Render(content)
}

// MetricRow lays metrics side by side across totalWidth.
func MetricRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders body in a card with an optional title line.
func ContentCard(title, body string, outerWidth int) string {
	return card(title, body, outerWidth, theme.Active.Border)
}

// InputCard is a ContentCard whose border lights up while one of its
// fields is being edited.
func InputCard(title, body string, outerWidth int, editing bool) string {
	border := theme.Active.Border
	if editing {
		border = theme.Active.BorderAccent
	}
	return card(title, body, outerWidth, border)
}

func card(title, body string, outerWidth int, border lipgloss.Color) string {
	t := theme.Active
	content := body
	if title != "" {
		content = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true).Render(title) + "\n" + body
	}
	return frame(outerWidth, border).Render(content)
}

// CardRow joins rendered cards left to right, top aligned.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width left inside a card of outerWidth
// after border and padding.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
