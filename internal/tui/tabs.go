package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/brackets"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/session"
	"github.com/theirongolddev/taxalpha/internal/tui/components"
	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// maxPayloadLines caps how much of a raw JSON response a card shows.
const maxPayloadLines = 24

// pricePath is where a stock price response usually carries the quote.
const pricePath = "$.price"

func (a App) renderInvestmentsTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var in strings.Builder
	in.WriteString(a.inputs[fieldPublicToken].View())
	in.WriteString("\n")
	in.WriteString(hintStyle.Render("[e] edit  [f] fetch investments  [h] harvesting suggestions"))
	in.WriteString(a.statusLines(session.ActionInvestments, session.ActionHarvesting))
	inputCard := components.InputCard("Account", in.String(), cw, a.focus >= 0)

	var data string
	switch {
	case a.busy[session.ActionInvestments] > 0 && a.state.Investments.Empty():
		data = a.spinner.View() + " fetching investment data"
	case a.state.Investments.Empty():
		data = hintStyle.Render("No investment data yet. Press f to fetch.")
	default:
		data = truncateHeight(cli.JSON(a.state.Investments), maxPayloadLines)
	}

	var sugg string
	switch {
	case a.busy[session.ActionHarvesting] > 0 && len(a.state.Suggestions) == 0:
		sugg = a.spinner.View() + " fetching suggestions"
	case len(a.state.Suggestions) == 0:
		sugg = hintStyle.Render("No suggestions. Fetch investments, then press h.")
	default:
		lines := cli.SuggestionLines(a.state.Suggestions)
		lines = append(lines, "", "Total: "+cli.FormatMoney(backend.TotalLoss(a.state.Suggestions), a.currency))
		sugg = strings.Join(lines, "\n")
	}

	if a.isCompactLayout() {
		return lipgloss.JoinVertical(lipgloss.Left,
			inputCard,
			components.ContentCard("Investment Data", data, cw),
			components.ContentCard("Harvesting Suggestions", sugg, cw),
		)
	}
	widths := components.LayoutRow(cw, 2)
	return lipgloss.JoinVertical(lipgloss.Left,
		inputCard,
		components.CardRow([]string{
			components.ContentCard("Investment Data", data, widths[0]),
			components.ContentCard("Harvesting Suggestions", sugg, widths[1]),
		}),
	)
}

func (a App) renderStockTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	priceStyle := lipgloss.NewStyle().Foreground(t.Price).Bold(true)

	var in strings.Builder
	in.WriteString(a.inputs[fieldSymbol].View())
	in.WriteString("\n")
	in.WriteString(hintStyle.Render("[e] edit  [f] fetch price"))
	in.WriteString(a.statusLines(session.ActionStockPrice))

	var body string
	switch {
	case a.busy[session.ActionStockPrice] > 0 && a.state.StockPrice.Empty():
		body = a.spinner.View() + " fetching stock price"
	case a.state.StockPrice.Empty():
		body = hintStyle.Render("Enter a symbol and press Enter.")
	default:
		var b strings.Builder
		if price, ok := a.state.StockPrice.LookupNumber(pricePath); ok {
			b.WriteString(priceStyle.Render(cli.FormatMoneyFloat(price, a.currency)))
			b.WriteString("\n\n")
		}
		b.WriteString(truncateHeight(cli.JSON(a.state.StockPrice), maxPayloadLines))
		body = b.String()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.InputCard("Stock", in.String(), cw, a.focus >= 0),
		components.ContentCard("Stock Price", body, cw),
	)
}

func (a App) renderTaxesTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	dueStyle := lipgloss.NewStyle().Foreground(t.Due).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warn)

	var in strings.Builder
	in.WriteString(a.inputs[fieldIncome].View())
	in.WriteString("\n")
	in.WriteString(a.inputs[fieldBrackets].View())
	in.WriteString("\n")
	in.WriteString(hintStyle.Render("[e] edit  [tab] next field  [c] calculate"))
	in.WriteString(a.statusLines(session.ActionTaxes))
	inputCard := components.InputCard("Inputs", in.String(), cw, a.focus >= 0)

	widths := []int{cw, cw}
	if !a.isCompactLayout() {
		widths = components.LayoutRow(cw, 2)
	}

	// Bracket preview, parsed as the user types.
	var preview string
	list, err := brackets.ParseStrict(a.state.Brackets)
	switch {
	case strings.TrimSpace(a.state.Brackets) == "":
		preview = hintStyle.Render("rate:threshold pairs, e.g. 0.1:10000,0.2:40000")
	case err != nil:
		preview = warnStyle.Render(err.Error())
	default:
		labelW := 0
		labels := make([]string, len(list))
		for i, br := range list {
			labels[i] = "over " + cli.FormatThreshold(br.Threshold)
			if w := lipgloss.Width(labels[i]); w > labelW {
				labelW = w
			}
		}
		rows := make([]string, len(list))
		for i, br := range list {
			rows[i] = components.RateBar(labels[i], br.Rate, labelW, components.CardInnerWidth(widths[0])-labelW-8)
		}
		preview = strings.Join(rows, "\n")
	}

	var result string
	switch {
	case a.busy[session.ActionTaxes] > 0 && a.state.TaxResult.Empty():
		result = a.spinner.View() + " calculating"
	case a.state.TaxResult.Empty():
		result = hintStyle.Render("No calculation yet.")
	default:
		var b strings.Builder
		if line, ok := cli.TaxDue(a.state.TaxResult, a.currency); ok {
			b.WriteString(dueStyle.Render(line))
			b.WriteString("\n")
			if rate, ok := effectiveRate(a.state.TaxResult, a.state.Income); ok {
				b.WriteString(components.RateBar("Effective", rate, 9, components.CardInnerWidth(widths[1])-17))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(truncateHeight(cli.JSON(a.state.TaxResult), maxPayloadLines))
		result = b.String()
	}

	if a.isCompactLayout() {
		return lipgloss.JoinVertical(lipgloss.Left,
			inputCard,
			components.ContentCard("Brackets", preview, cw),
			components.ContentCard("Result", result, cw),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		inputCard,
		components.CardRow([]string{
			components.ContentCard("Brackets", preview, widths[0]),
			components.ContentCard("Result", result, widths[1]),
		}),
	)
}

func (a App) renderSavingsTab(cw int) string {
	t := theme.Active
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	sugg := a.state.Suggestions
	if len(sugg) == 0 {
		return components.ContentCard("Tax Savings",
			hintStyle.Render("No harvesting suggestions yet. Fetch them on the Investments tab."), cw)
	}

	largest := sugg[0]
	for _, s := range sugg[1:] {
		if s.TotalLoss > largest.TotalLoss {
			largest = s
		}
	}

	metrics := components.MetricRow([]components.Metric{
		{Label: "Harvestable Loss", Value: cli.FormatMoney(backend.TotalLoss(sugg), a.currency)},
		{Label: "Positions", Value: fmt.Sprintf("%d", len(sugg))},
		{Label: "Largest", Value: cli.FormatMoneyFloat(largest.TotalLoss, a.currency), Note: largest.SecurityName},
	}, cw)

	labels := make([]string, len(sugg))
	values := make([]float64, len(sugg))
	for i, s := range sugg {
		labels[i] = s.SecurityName
		values[i] = s.TotalLoss
	}
	chart := components.BarChart(values, labels, t.Savings, components.CardInnerWidth(cw), func(v float64) string {
		return cli.FormatMoneyFloat(v, a.currency)
	})

	return lipgloss.JoinVertical(lipgloss.Left,
		metrics,
		components.ContentCard("Tax Savings", chart, cw),
	)
}

// statusLines renders a spinner line for in-flight actions and the error
// message of each failed one.
func (a App) statusLines(acts ...session.Action) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Error)
	busyStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	for _, act := range acts {
		if a.busy[act] > 0 {
			b.WriteString("\n")
			b.WriteString(a.spinner.View())
			b.WriteString(busyStyle.Render(" requesting " + act.String()))
		}
		if msg := a.state.Err(act); msg != "" {
			b.WriteString("\n")
			b.WriteString(errStyle.Render(msg))
		}
	}
	return b.String()
}

// effectiveRate is tax_due divided by the typed income.
func effectiveRate(result backend.Payload, incomeIn string) (float64, bool) {
	due, ok := result.LookupNumber(cli.TaxDuePath)
	if !ok {
		return 0, false
	}
	income, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(incomeIn), ",", ""))
	if err != nil || !income.IsPositive() {
		return 0, false
	}
	rate, _ := decimal.NewFromFloat(due).Div(income).Float64()
	return rate, true
}
