package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. linkInfo is shown on the
// right; errCount > 0 adds a red error counter next to the key hints.
func RenderStatusBar(width int, linkInfo string, errCount int) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	errStyle := lipgloss.NewStyle().
		Foreground(t.Error).
		Background(t.Surface).
		Bold(true)

	left := style.Render(" [?]help  [q]uit  [l]ink token")
	if errCount > 0 {
		noun := "errors"
		if errCount == 1 {
			noun = "error"
		}
		left += style.Render("  ") + errStyle.Render(fmt.Sprintf("%d %s", errCount, noun))
	}
	right := ""
	if linkInfo != "" {
		right = style.Render(linkInfo + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + style.Render(strings.Repeat(" ", padding)) + right
}
