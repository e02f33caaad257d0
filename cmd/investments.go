package cmd

import (
	"fmt"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/spf13/cobra"
)

var (
	invPublicToken string
	harvestChart   bool
	harvestTable   bool
)

var investmentsCmd = &cobra.Command{
	Use:   "investments",
	Short: "Fetch investment data for a linked account",
	Args:  cobra.NoArgs,
	RunE:  runInvestments,
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch investments, then tax-loss harvesting suggestions for them",
	Args:  cobra.NoArgs,
	RunE:  runHarvest,
}

func init() {
	investmentsCmd.Flags().StringVar(&invPublicToken, "public-token", "", "Public token from the account link flow")
	_ = investmentsCmd.MarkFlagRequired("public-token")

	harvestCmd.Flags().StringVar(&invPublicToken, "public-token", "", "Public token from the account link flow")
	harvestCmd.Flags().BoolVar(&harvestChart, "chart", false, "Show losses as a bar chart")
	harvestCmd.Flags().BoolVar(&harvestTable, "table", false, "Show losses as a table with a total")
	_ = harvestCmd.MarkFlagRequired("public-token")

	rootCmd.AddCommand(investmentsCmd, harvestCmd)
}

func runInvestments(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	status("Fetching investment data...")
	s, err := e.run(cmd.Context(), session.State{PublicToken: invPublicToken}, session.ActionInvestments)
	if err != nil {
		return err
	}
	return newOutput(cmd, e.cfg).payload("Investment Data", s.Investments)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	s := session.State{PublicToken: invPublicToken}
	status("Fetching investment data...")
	if s, err = e.run(cmd.Context(), s, session.ActionInvestments); err != nil {
		return err
	}
	status("Fetching harvesting suggestions...")
	if s, err = e.run(cmd.Context(), s, session.ActionHarvesting); err != nil {
		return err
	}

	out := newOutput(cmd, e.cfg)
	return printSuggestions(out, s.Suggestions, harvestChart, harvestTable)
}

func printSuggestions(out output, sugg []backend.Suggestion, chart, table bool) error {
	if out.field != "" {
		return out.value("Tax Loss Harvesting Suggestions", sugg)
	}
	if len(sugg) == 0 {
		fmt.Fprintln(out.w, "  No tax-loss harvesting opportunities.")
		return nil
	}

	switch {
	case chart:
		out.title("Tax Loss Harvesting Suggestions")
		fmt.Fprint(out.w, cli.SavingsChart(sugg, 40, out.currency))
		fmt.Fprintf(out.w, "\n  Total: %s\n", cli.FormatMoney(backend.TotalLoss(sugg), out.currency))
	case table:
		fmt.Fprint(out.w, cli.SuggestionsTable(sugg, out.currency))
	case out.markdown:
		md := "## Tax Loss Harvesting Suggestions\n\n"
		for _, l := range cli.SuggestionLines(sugg) {
			md += "- " + l + "\n"
		}
		return out.md(md)
	default:
		out.title("Tax Loss Harvesting Suggestions")
		out.lines(cli.SuggestionLines(sugg))
	}
	return nil
}
