package cli

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/phuslu/log"

	"github.com/theirongolddev/taxalpha/internal/backend"
)

// Fallback is shown in place of a view that failed to render.
const Fallback = "Something went wrong."

// TaxDuePath locates the headline figure in a tax calculation response.
const TaxDuePath = "$.tax_due"

// JSON renders an opaque payload as indented JSON. Undecodable payloads
// are returned verbatim.
func JSON(p backend.Payload) string {
	s, err := p.Pretty()
	if err != nil {
		return string(p)
	}
	return s
}

// SuggestionLines renders one "Security: <name>, Loss: <loss>" line per
// suggestion, in response order.
func SuggestionLines(suggestions []backend.Suggestion) []string {
	lines := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		lines = append(lines, fmt.Sprintf("Security: %s, Loss: %s",
			s.SecurityName, strconv.FormatFloat(s.TotalLoss, 'f', -1, 64)))
	}
	return lines
}

// SuggestionsTable renders suggestions with a total row.
func SuggestionsTable(suggestions []backend.Suggestion, currency string) string {
	t := Table{
		Title:   "Tax-Loss Harvesting Suggestions",
		Headers: []string{"Security", "Loss"},
	}
	for _, s := range suggestions {
		t.Rows = append(t.Rows, []string{s.SecurityName, FormatMoneyFloat(s.TotalLoss, currency)})
	}
	t.Rows = append(t.Rows, []string{"TOTAL", FormatMoney(backend.TotalLoss(suggestions), currency)})
	return RenderTable(t)
}

// SavingsChart renders suggestion losses as a bar chart.
func SavingsChart(suggestions []backend.Suggestion, width int, currency string) string {
	labels := make([]string, len(suggestions))
	values := make([]float64, len(suggestions))
	for i, s := range suggestions {
		labels[i] = s.SecurityName
		values[i] = s.TotalLoss
	}
	return RenderBars("Tax Savings", labels, values, width, func(v float64) string {
		return FormatMoneyFloat(v, currency)
	})
}

// TaxDue renders the "Tax Due: <amount>" headline of a tax result. The
// second return is false when the payload carries no numeric tax_due.
func TaxDue(p backend.Payload, currency string) (string, bool) {
	v, ok := p.LookupNumber(TaxDuePath)
	if !ok {
		return "", false
	}
	return "Tax Due: " + FormatMoneyFloat(v, currency), true
}

// Markdown renders md for the terminal. style is a glamour standard style
// name ("dark", "light", "notty", "ascii"); empty picks from the terminal.
func Markdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// Safe runs render and returns its output. A panic inside render is logged
// and replaced by Fallback so one broken view cannot take down the program.
func Safe(logger *log.Logger, view string, render func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error().
					Str("view", view).
					Str("panic", fmt.Sprint(r)).
					Str("stack", string(debug.Stack())).
					Msg("render failed")
			}
			out = Fallback
		}
	}()
	return render()
}
