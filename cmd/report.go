package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/spf13/cobra"
)

var (
	reportPublicToken string
	reportSymbol      string
	reportIncome      string
	reportBrackets    string
	reportRaw         bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every action for the given inputs and print a markdown report",
	Long: "Runs each action whose inputs are given, independently of the others.\n" +
		"Failed sections are listed in the report; the command only fails when\n" +
		"every attempted action failed.",
	Example: `  taxalpha report --public-token public-sandbox-123 --symbol AAPL \
    --income 50000 --brackets "0.1:10000,0.2:40000"`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportPublicToken, "public-token", "", "Public token for investments and harvesting")
	reportCmd.Flags().StringVar(&reportSymbol, "symbol", "", "Stock symbol to quote")
	reportCmd.Flags().StringVar(&reportIncome, "income", "", "Annual income for the tax calculation")
	reportCmd.Flags().StringVar(&reportBrackets, "brackets", "", "rate:threshold pairs for the tax calculation")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print the markdown source instead of rendering it")
	rootCmd.AddCommand(reportCmd)
}

// runner performs one action; env.dispatch.Run satisfies it.
type runner func(ctx context.Context, s session.State, a session.Action) (session.State, error)

// buildReport runs the actions the inputs allow. It returns the final state
// and how many actions were attempted and failed.
func buildReport(ctx context.Context, run runner, s session.State) (session.State, int, int) {
	plan := []session.Action{session.ActionLinkToken}
	if strings.TrimSpace(s.PublicToken) != "" {
		plan = append(plan, session.ActionInvestments, session.ActionHarvesting)
	}
	if strings.TrimSpace(s.Symbol) != "" {
		plan = append(plan, session.ActionStockPrice)
	}
	if strings.TrimSpace(s.Income) != "" || strings.TrimSpace(s.Brackets) != "" {
		plan = append(plan, session.ActionTaxes)
	}

	attempted, failed := 0, 0
	for _, a := range plan {
		// Harvesting needs investments; skip it rather than report a
		// second error for the same cause.
		if a == session.ActionHarvesting && s.Investments.Empty() {
			continue
		}
		attempted++
		next, err := run(ctx, s, a)
		s = next
		if err != nil {
			failed++
		}
	}
	return s, attempted, failed
}

func runReport(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	status("Building report...")
	s := session.State{
		PublicToken: reportPublicToken,
		Symbol:      reportSymbol,
		Income:      reportIncome,
		Brackets:    reportBrackets,
	}
	s, attempted, failed := buildReport(cmd.Context(), e.dispatch.Run, s)

	out := newOutput(cmd, e.cfg)
	md := cli.ReportMarkdown(s, out.currency)
	if reportRaw {
		fmt.Fprint(out.w, md)
	} else if err := out.md(md); err != nil {
		return err
	}

	if attempted > 0 && failed == attempted {
		return errors.New("every action in the report failed")
	}
	if failed > 0 {
		status("%d of %d actions failed", failed, attempted)
	}
	return nil
}
