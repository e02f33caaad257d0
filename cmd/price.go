package cmd

import (
	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:     "price SYMBOL",
	Short:   "Fetch the current price of a stock",
	Example: "  taxalpha price AAPL\n  taxalpha price msft --field '$.price'",
	Args:    cobra.ExactArgs(1),
	RunE:    runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.run(cmd.Context(), session.State{Symbol: args[0]}, session.ActionStockPrice)
	if err != nil {
		return err
	}
	return newOutput(cmd, e.cfg).payload("Stock Price", s.StockPrice)
}
