package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/taxalpha/internal/config"
	"github.com/theirongolddev/taxalpha/internal/logging"
	"github.com/theirongolddev/taxalpha/internal/session"
	"github.com/theirongolddev/taxalpha/internal/tui"
	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive client",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// The program owns the terminal, so logs go to the configured file or nowhere.
	logger := logging.Discard()
	var closer io.Closer
	if cfg.Logging.File != "" {
		logger, closer, err = logging.NewFile(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	d, err := newDispatcher(cfg, logger)
	if err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(d, tui.Options{
		Currency:  cfg.Display.Currency,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
		NeedSetup: !config.Exists(),
		Connect: func(c config.Config) (*session.Dispatcher, error) {
			return newDispatcher(c, logger)
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
