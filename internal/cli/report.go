package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/session"
)

// ReportMarkdown summarizes a session as a markdown document. Sections
// whose action failed show the error message instead of a result.
func ReportMarkdown(s session.State, currency string) string {
	var b strings.Builder
	b.WriteString("# Tax Alpha Report\n\n")

	if s.LinkToken != "" {
		fmt.Fprintf(&b, "Link token: `%s`\n\n", MaskToken(s.LinkToken))
	}

	b.WriteString("## Investments\n\n")
	switch {
	case s.Err(session.ActionInvestments) != "":
		writeErr(&b, s.Err(session.ActionInvestments))
	case !s.Investments.Empty():
		writeJSON(&b, JSON(s.Investments))
	default:
		b.WriteString("_not requested_\n\n")
	}

	b.WriteString("## Tax-Loss Harvesting\n\n")
	switch {
	case s.Err(session.ActionHarvesting) != "":
		writeErr(&b, s.Err(session.ActionHarvesting))
	case len(s.Suggestions) > 0:
		b.WriteString("| Security | Loss |\n|---|---:|\n")
		for _, sg := range s.Suggestions {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(sg.SecurityName), FormatMoneyFloat(sg.TotalLoss, currency))
		}
		b.WriteString("\n")
	default:
		b.WriteString("_no suggestions_\n\n")
	}

	fmt.Fprintf(&b, "## Stock Price%s\n\n", headingSuffix(s.Symbol))
	switch {
	case s.Err(session.ActionStockPrice) != "":
		writeErr(&b, s.Err(session.ActionStockPrice))
	case !s.StockPrice.Empty():
		writeJSON(&b, JSON(s.StockPrice))
	default:
		b.WriteString("_not requested_\n\n")
	}

	b.WriteString("## Taxes\n\n")
	switch {
	case s.Err(session.ActionTaxes) != "":
		writeErr(&b, s.Err(session.ActionTaxes))
	case !s.TaxResult.Empty():
		if line, ok := TaxDue(s.TaxResult, currency); ok {
			fmt.Fprintf(&b, "**%s**\n\n", line)
		}
		writeJSON(&b, JSON(s.TaxResult))
	default:
		b.WriteString("_not requested_\n\n")
	}

	return b.String()
}

func writeErr(b *strings.Builder, msg string) {
	fmt.Fprintf(b, "> %s\n\n", msg)
}

func writeJSON(b *strings.Builder, body string) {
	b.WriteString("```json\n")
	b.WriteString(body)
	b.WriteString("\n```\n\n")
}

func headingSuffix(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return ""
	}
	return " (" + symbol + ")"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
