// Package cmd implements the taxalpha CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/taxalpha/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Backend]")
	fmt.Fprintf(w, "    Base URL:   %s\n", cfg.Backend.BaseURL)
	fmt.Fprintf(w, "    Timeout:    %s\n", cfg.Timeout())
	if cfg.Backend.UserAgent != "" {
		fmt.Fprintf(w, "    User agent: %s\n", cfg.Backend.UserAgent)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Display]")
	fmt.Fprintf(w, "    Currency: %s\n", cfg.Display.Currency)
	fmt.Fprintf(w, "    Markdown: %v\n", cfg.Display.Markdown)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Logging]")
	fmt.Fprintf(w, "    Level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fmt.Fprintf(w, "    File:  %s\n", cfg.Logging.File)
	} else {
		fmt.Fprintln(w, "    File:  stderr")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Environment overrides: %s, %s, %s\n", config.EnvBackendURL, config.EnvLogLevel, config.EnvLogFile)
	fmt.Fprintln(w, "  Run `taxalpha setup` to reconfigure.")
	return nil
}
