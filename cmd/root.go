package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/config"
	"github.com/theirongolddev/taxalpha/internal/logging"
	"github.com/theirongolddev/taxalpha/internal/session"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var (
	flagBackend  string
	flagTimeout  time.Duration
	flagQuiet    bool
	flagLogLevel string
	flagMarkdown bool
	flagField    string
	flagCurrency string
)

var rootCmd = &cobra.Command{
	Use:           "taxalpha",
	Short:         "Tax Alpha Calculator client",
	Long:          "Fetch investments, tax-loss harvesting suggestions, stock prices and tax calculations from a tax-alpha backend.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	// Ctrl-C cancels in-flight backend requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Backend base URL (default from config, "+config.EnvBackendURL+")")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Print results only")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagMarkdown, "markdown", false, "Render output as terminal markdown")
	rootCmd.PersistentFlags().StringVarP(&flagField, "field", "f", "", "JSONPath to extract from the response, e.g. $.tax_due")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "ISO currency code for money output")
}

// loadConfig loads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend.BaseURL = flagBackend
	}
	if flags.Changed("timeout") {
		cfg.Backend.TimeoutSec = int(flagTimeout.Round(time.Second) / time.Second)
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	} else if flagQuiet {
		cfg.Logging.Level = "error"
	}
	if flags.Changed("markdown") {
		cfg.Display.Markdown = flagMarkdown
	}
	if flags.Changed("currency") {
		cfg.Display.Currency = flagCurrency
	}
	return cfg, nil
}

// newLogger returns the CLI logger: the configured file if any, stderr
// otherwise. The closer is nil when logging to stderr.
func newLogger(cfg config.Config) (*log.Logger, io.Closer, error) {
	if cfg.Logging.File != "" {
		return logging.NewFile(cfg.Logging.Level, cfg.Logging.File)
	}
	return logging.New(cfg.Logging.Level, os.Stderr), nil, nil
}

// newDispatcher builds the backend client and dispatcher for cfg.
func newDispatcher(cfg config.Config, logger *log.Logger) (*session.Dispatcher, error) {
	opts := []backend.Option{
		backend.WithTimeout(cfg.Timeout()),
		backend.WithLogger(logger),
	}
	if cfg.Backend.UserAgent != "" {
		opts = append(opts, backend.WithUserAgent(cfg.Backend.UserAgent))
	}
	client, err := backend.New(cfg.Backend.BaseURL, opts...)
	if err != nil {
		return nil, err
	}
	return session.NewDispatcher(client, logger), nil
}

// env bundles what every backend command needs.
type env struct {
	cfg      config.Config
	log      *log.Logger
	dispatch *session.Dispatcher
	closer   io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	d, err := newDispatcher(cfg, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	return &env{cfg: cfg, log: logger, dispatch: d, closer: closer}, nil
}

// run performs one action against s and turns a failure into the
// user-facing message.
func (e *env) run(ctx context.Context, s session.State, a session.Action) (session.State, error) {
	s, err := e.dispatch.Run(ctx, s, a)
	if err != nil {
		if msg := s.Err(a); msg != "" {
			return s, errors.New(msg)
		}
		return s, err
	}
	return s, nil
}

// status prints progress to stderr unless --quiet.
func status(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
