package cmd

import (
	"fmt"

	"github.com/theirongolddev/taxalpha/internal/brackets"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/spf13/cobra"
)

var (
	taxIncome   string
	taxBrackets string
)

var taxesCmd = &cobra.Command{
	Use:     "taxes",
	Short:   "Calculate tax due for an income under progressive brackets",
	Example: `  taxalpha taxes --income 50000 --brackets "0.1:10000,0.2:40000"`,
	Args:    cobra.NoArgs,
	RunE:    runTaxes,
}

func init() {
	taxesCmd.Flags().StringVar(&taxIncome, "income", "", "Annual income, e.g. 50000 or 50,000.50")
	taxesCmd.Flags().StringVar(&taxBrackets, "brackets", "", "Comma-separated rate:threshold pairs")
	_ = taxesCmd.MarkFlagRequired("income")
	_ = taxesCmd.MarkFlagRequired("brackets")
	rootCmd.AddCommand(taxesCmd)
}

func runTaxes(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	s := session.State{Income: taxIncome, Brackets: taxBrackets}
	s, err = e.run(cmd.Context(), s, session.ActionTaxes)
	if err != nil {
		return err
	}

	out := newOutput(cmd, e.cfg)
	if out.field != "" {
		return out.lookup(s.TaxResult)
	}

	dueLine, hasDue := cli.TaxDue(s.TaxResult, out.currency)
	if out.markdown {
		md := "## Tax Calculation\n\n"
		if hasDue {
			md += "**" + dueLine + "**\n\n"
		}
		md += "```json\n" + cli.JSON(s.TaxResult) + "\n```\n"
		return out.md(md)
	}
	if out.quiet {
		if hasDue {
			fmt.Fprintln(out.w, dueLine)
			return nil
		}
		fmt.Fprintln(out.w, cli.JSON(s.TaxResult))
		return nil
	}

	out.title("Tax Calculation")
	fmt.Fprint(out.w, bracketsTable(s.Brackets))
	fmt.Fprintln(out.w)
	if hasDue {
		fmt.Fprintf(out.w, "  %s\n\n", dueLine)
	}
	fmt.Fprintln(out.w, cli.JSON(s.TaxResult))
	return nil
}

// bracketsTable renders the brackets that were sent. Input has already
// passed strict validation by the time this runs.
func bracketsTable(in string) string {
	t := cli.Table{
		Title:   "Brackets",
		Headers: []string{"#", "Rate", "Over"},
	}
	for i, b := range brackets.Parse(in) {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%d", i+1), cli.FormatPercent(b.Rate), cli.FormatThreshold(b.Threshold)})
	}
	return cli.RenderTable(t)
}
