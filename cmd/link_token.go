package cmd

import (
	"fmt"

	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/spf13/cobra"
)

var linkTokenCmd = &cobra.Command{
	Use:   "link-token",
	Short: "Request a new account link token",
	Args:  cobra.NoArgs,
	RunE:  runLinkToken,
}

func init() {
	rootCmd.AddCommand(linkTokenCmd)
}

func runLinkToken(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.run(cmd.Context(), session.State{}, session.ActionLinkToken)
	if err != nil {
		return err
	}

	out := newOutput(cmd, e.cfg)
	if out.field != "" || out.markdown {
		return out.value("Link Token", map[string]string{"link_token": s.LinkToken})
	}
	if out.quiet {
		fmt.Fprintln(out.w, s.LinkToken)
		return nil
	}
	fmt.Fprintf(out.w, "  Link token: %s\n", s.LinkToken)
	return nil
}
