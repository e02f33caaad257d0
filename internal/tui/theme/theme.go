// Package theme holds the color palettes of the taxalpha TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps each color role of the TUI to a concrete color.
type Theme struct {
	Name string

	// Chrome
	Background   lipgloss.Color
	Surface      lipgloss.Color // panel and card fill
	SurfaceHover lipgloss.Color // active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused input card, help box

	// Text
	TextDim      lipgloss.Color // hints
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in help

	// Rate scale, lowest band first
	RateLow  lipgloss.Color
	RateMid  lipgloss.Color
	RateHigh lipgloss.Color
	RateTop  lipgloss.Color

	// Results
	Savings lipgloss.Color // harvestable loss bars
	Price   lipgloss.Color // quoted stock price
	Due     lipgloss.Color // tax due headline
	Error   lipgloss.Color
	Warn    lipgloss.Color // input that will not validate yet
}

// FlexokiDark is the default: warm paper-toned dark palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#1C1B1A",
	SurfaceHover: "#282726",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Key:          "#24837B",
	RateLow:      "#879A39",
	RateMid:      "#D0A215",
	RateHigh:     "#DA702C",
	RateTop:      "#D14D41",
	Savings:      "#879A39",
	Price:        "#4385BE",
	Due:          "#DA702C",
	Error:        "#D14D41",
	Warn:         "#DA702C",
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   "#1E1E2E",
	Surface:      "#313244",
	SurfaceHover: "#45475A",
	Border:       "#585B70",
	BorderAccent: "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Key:          "#94E2D5",
	RateLow:      "#A6E3A1",
	RateMid:      "#F9E2AF",
	RateHigh:     "#FAB387",
	RateTop:      "#F38BA8",
	Savings:      "#A6E3A1",
	Price:        "#89B4FA",
	Due:          "#FAB387",
	Error:        "#F38BA8",
	Warn:         "#FAB387",
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   "#1A1B26",
	Surface:      "#24283B",
	SurfaceHover: "#343A52",
	Border:       "#565F89",
	BorderAccent: "#7AA2F7",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Key:          "#7DCFFF",
	RateLow:      "#9ECE6A",
	RateMid:      "#E0AF68",
	RateHigh:     "#FF9E64",
	RateTop:      "#F7768E",
	Savings:      "#9ECE6A",
	Price:        "#7DCFFF",
	Due:          "#FF9E64",
	Error:        "#F7768E",
	Warn:         "#E0AF68",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   "0",
	Surface:      "0",
	SurfaceHover: "8",
	Border:       "8",
	BorderAccent: "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Key:          "6",
	RateLow:      "2",
	RateMid:      "3",
	RateHigh:     "11",
	RateTop:      "1",
	Savings:      "2",
	Price:        "4",
	Due:          "3",
	Error:        "1",
	Warn:         "3",
}

// All lists the themes in the order setup offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Active is the theme every renderer reads.
var Active = FlexokiDark

// ByName returns the named theme, or FlexokiDark for an unknown name.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive switches Active to the named theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the available theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}
