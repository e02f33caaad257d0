package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/theirongolddev/taxalpha/internal/config"
	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	BackendURL string
	TimeoutSec string
	Currency   string
	Theme      string
	Markdown   bool
}

// currencies offered by the setup form.
var currencies = []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY", "CHF"}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BackendURL: cfg.Backend.BaseURL,
		TimeoutSec: strconv.Itoa(cfg.Backend.TimeoutSec),
		Currency:   cfg.Display.Currency,
		Theme:      cfg.Appearance.Theme,
		Markdown:   cfg.Display.Markdown,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	if err := validateBackendURL(v.BackendURL); err != nil {
		return cfg, err
	}
	secs, err := validateTimeout(v.TimeoutSec)
	if err != nil {
		return cfg, err
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(v.BackendURL), "/")
	cfg.Backend.TimeoutSec = secs
	cfg.Display.Currency = v.Currency
	cfg.Display.Markdown = v.Markdown
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return cfg, nil
}

// NewSetupForm builds the huh form that edits v in place.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to taxalpha").
				Description("Point the client at your tax-alpha backend.\nRun `taxalpha setup` anytime to reconfigure."),
			huh.NewInput().
				Title("Backend URL").
				Placeholder("http://127.0.0.1:5000").
				Value(&v.BackendURL).
				Validate(validateBackendURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&v.TimeoutSec).
				Validate(func(s string) error {
					_, err := validateTimeout(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Options(huh.NewOptions(currencies...)...).
				Value(&v.Currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("Render command output as markdown?").
				Value(&v.Markdown),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateBackendURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL needs a host")
	}
	return nil
}

func validateTimeout(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, errors.New("enter a whole number of seconds above 0")
	}
	return n, nil
}
