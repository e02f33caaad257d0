package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/taxalpha/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Stock", "AAPL", 22)
	tallCard := ContentCard("Suggestions", "ACME\nGlobex\nInitech\nUmbrella\nHooli", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want tallest card %d", len(lines), tallLines)
	}
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 100 || widths[0] != 34 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestBarChartScalesToPeak(t *testing.T) {
	theme.SetActive("flexoki-dark")
	fmtv := func(v float64) string { return "$" + strings.Repeat("9", 3) }

	out := BarChart([]float64{100, 50}, []string{"ACME", "Globex"}, theme.Active.Savings, 60, fmtv)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	first := strings.Count(lines[0], "█")
	second := strings.Count(lines[1], "█")
	if first == 0 || second == 0 || first < 2*second-1 || first > 2*second+1 {
		t.Fatalf("bar cells = %d and %d, want roughly 2:1", first, second)
	}
	for _, l := range lines {
		if w := lipgloss.Width(l); w != 60 {
			t.Errorf("line width = %d, want 60: %q", w, l)
		}
	}

	if BarChart(nil, nil, theme.Active.Savings, 60, fmtv) != "" {
		t.Fatal("empty chart should render nothing")
	}
	if BarChart([]float64{1}, []string{"a", "b"}, theme.Active.Savings, 60, fmtv) != "" {
		t.Fatal("mismatched labels should render nothing")
	}
}

func TestRateBarClamps(t *testing.T) {
	out := RateBar("Effective", 1.7, 10, 20)
	if !strings.Contains(out, "100.0%") {
		t.Fatalf("rate above 1 not clamped: %q", out)
	}
	out = RateBar("Effective", 0.125, 10, 20)
	if !strings.Contains(out, "12.5%") {
		t.Fatalf("rate label = %q", out)
	}
}

func TestTabBar(t *testing.T) {
	if got := TabIdxByKey('v'); got != 3 {
		t.Fatalf("TabIdxByKey('v') = %d, want 3", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}

	// Active tabs are padded name; inactive ones add the "[k]" brackets.
	if w := TabVisualWidth(Tabs[0], true); w != len("Investments")+2 {
		t.Fatalf("active width = %d", w)
	}
	if w := TabVisualWidth(Tabs[3], false); w != len("Savings")+4 {
		t.Fatalf("inactive width = %d", w)
	}

	bar := RenderTabBar(0, 80)
	if lipgloss.Width(bar) != 80 {
		t.Fatalf("tab bar width = %d, want 80", lipgloss.Width(bar))
	}
}

func TestStatusBar(t *testing.T) {
	bar := RenderStatusBar(80, "link: link-san...cdef", 2)
	if lipgloss.Width(bar) != 80 {
		t.Fatalf("status bar width = %d, want 80", lipgloss.Width(bar))
	}
	if !strings.Contains(bar, "2 errors") || !strings.Contains(bar, "link-san...cdef") {
		t.Fatalf("status bar = %q", bar)
	}
	if strings.Contains(RenderStatusBar(80, "", 0), "error") {
		t.Fatal("status bar shows errors when there are none")
	}
}

func TestMetricRowFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricRow([]Metric{
		{Label: "Harvestable Loss", Value: "$350.00"},
		{Label: "Positions", Value: "2"},
		{Label: "Largest", Value: "$230.00", Note: "Globex"},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "Globex") {
		t.Error("note missing from metric row")
	}
	if MetricRow(nil, 90) != "" {
		t.Error("empty metric row should render nothing")
	}
}

func TestInputCardHighlightsWhileEditing(t *testing.T) {
	theme.SetActive("flexoki-dark")
	idle := InputCard("Stock", "AAPL", 30, false)
	editing := InputCard("Stock", "AAPL", 30, true)
	if idle == editing {
		t.Fatal("editing card should differ from idle card")
	}
	if idle != ContentCard("Stock", "AAPL", 30) {
		t.Error("idle input card should match a plain content card")
	}
}
