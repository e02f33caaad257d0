// Package tui provides the interactive Bubble Tea client for taxalpha.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/config"
	"github.com/theirongolddev/taxalpha/internal/logging"
	"github.com/theirongolddev/taxalpha/internal/session"
	"github.com/theirongolddev/taxalpha/internal/tui/components"
	"github.com/theirongolddev/taxalpha/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/phuslu/log"
)

// ResultMsg carries a finished backend round-trip back into the update loop.
type ResultMsg struct {
	Result session.Result
}

// Options configures a new App.
type Options struct {
	Currency string
	Timeout  time.Duration
	Logger   *log.Logger

	// NeedSetup shows the setup form before the first request. When the
	// form completes, Connect builds a dispatcher for the saved config.
	NeedSetup bool
	Connect   func(config.Config) (*session.Dispatcher, error)
}

const (
	tabInvestments = iota
	tabStock
	tabTaxes
	tabSavings
)

const (
	fieldPublicToken = iota
	fieldSymbol
	fieldIncome
	fieldBrackets
	fieldCount // sentinel
)

// tabFields lists the inputs shown on each tab, in focus order.
var tabFields = map[int][]int{
	tabInvestments: {fieldPublicToken},
	tabStock:       {fieldSymbol},
	tabTaxes:       {fieldIncome, fieldBrackets},
}

// App is the root Bubble Tea model.
type App struct {
	state    session.State
	dispatch *session.Dispatcher
	log      *log.Logger
	currency string
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// Request queued by NewApp and issued from Init.
	initReq *session.Request

	// In-flight request count per action.
	busy map[session.Action]int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	connect   func(config.Config) (*session.Dispatcher, error)

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	inputs    [fieldCount]textinput.Model
	focus     int // index into inputs, -1 when no input has focus
	spinner   spinner.Model
}

const (
	minTerminalWidth = 60
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model. The link token request is prepared
// here and sent as soon as the program starts.
func NewApp(d *session.Dispatcher, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Currency == "" {
		opts.Currency = cli.DefaultCurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := App{
		dispatch: d,
		log:      opts.Logger,
		currency: opts.Currency,
		timeout:  opts.Timeout,
		ctx:      ctx,
		cancel:   cancel,
		busy:     make(map[session.Action]int),
		focus:    -1,
		spinner:  sp,
		connect:  opts.Connect,
	}
	a.inputs = newInputs()

	if opts.NeedSetup {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		vals := SetupValuesFrom(cfg)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
		return a
	}

	st, req, err := session.Begin(a.state, session.ActionLinkToken)
	a.state = st
	if err == nil {
		a.initReq = &req
		a.busy[session.ActionLinkToken]++
	}
	return a
}

func newInputs() [fieldCount]textinput.Model {
	var in [fieldCount]textinput.Model
	specs := [fieldCount]struct {
		prompt, placeholder string
		limit               int
	}{
		fieldPublicToken: {"Public token ", "public-sandbox-...", 256},
		fieldSymbol:      {"Symbol       ", "AAPL", 16},
		fieldIncome:      {"Income       ", "50000", 32},
		fieldBrackets:    {"Brackets     ", "0.1:10000,0.2:40000", 512},
	}
	for i, s := range specs {
		ti := textinput.New()
		ti.Prompt = s.prompt
		ti.Placeholder = s.placeholder
		ti.CharLimit = s.limit
		ti.Width = 40
		in[i] = ti
	}
	return in
}

// State returns the current session state.
func (a App) State() session.State { return a.state }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.setupForm != nil {
		return a.setupForm.Init()
	}
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, textinput.Blink}
	if a.initReq != nil {
		cmds = append(cmds, a.requestCmd(*a.initReq), a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// start validates and issues one action. Invalid input is recorded in the
// state and produces no command.
func (a App) start(act session.Action) (App, tea.Cmd) {
	st, req, err := session.Begin(a.state, act)
	a.state = st
	if err != nil {
		a.log.Warn().Str("action", act.String()).Err(err).Msg("invalid input")
		return a, nil
	}

	cmds := []tea.Cmd{a.requestCmd(req)}
	if a.inFlight() == 0 {
		cmds = append(cmds, a.spinner.Tick)
	}
	a.busy[act]++
	return a, tea.Batch(cmds...)
}

// requestCmd performs req off the update loop. The request is bounded by
// the configured timeout and canceled when the app quits.
func (a App) requestCmd(req session.Request) tea.Cmd {
	d, parent, timeout := a.dispatch, a.ctx, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return ResultMsg{Result: d.Do(ctx, req)}
	}
}

func (a App) inFlight() int {
	n := 0
	for _, c := range a.busy {
		n += c
	}
	return n
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.cancel != nil {
		a.cancel()
	}
	return a, tea.Quit
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a = a.switchTab(tab)
			}
		}
		return a, nil

	case ResultMsg:
		act := msg.Result.Action
		if a.busy[act] > 0 {
			a.busy[act]--
		}
		a.state = session.Apply(a.state, msg.Result)
		return a, nil

	case spinner.TickMsg:
		if a.inFlight() == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.focus >= 0 {
			return a.updateFocused(msg)
		}
		return a.updateKeys(msg)
	}

	// Forward unhandled messages (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.focus >= 0 {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
	case huh.StateAborted:
	default:
		return a, cmd
	}

	a.setupForm = nil
	a.setupVals = nil
	a, cmd = a.start(session.ActionLinkToken)
	return a, tea.Batch(cmd, tea.EnableMouseCellMotion)
}

// saveSetupConfig persists the form answers and reconnects to the chosen
// backend. Failures are logged and the current settings kept.
func (a *App) saveSetupConfig() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg, err = a.setupVals.Apply(cfg)
	if err != nil {
		a.log.Warn().Err(err).Msg("setup answers rejected")
		return
	}
	if err := config.Save(cfg); err != nil {
		a.log.Warn().Err(err).Str("path", config.Path()).Msg("could not save config")
	}

	theme.SetActive(cfg.Appearance.Theme)
	a.currency = cfg.Display.Currency
	a.timeout = cfg.Timeout()
	if a.connect != nil {
		d, err := a.connect(cfg)
		if err != nil {
			a.log.Warn().Err(err).Msg("keeping previous backend")
			return
		}
		a.dispatch = d
	}
}

// updateKeys handles navigation and action keys while no input has focus.
func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a.quit()
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)), nil
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs)), nil
	case "l":
		return a.start(session.ActionLinkToken)
	case "e", "enter":
		if fields := tabFields[a.activeTab]; len(fields) > 0 {
			return a.focusField(fields[0])
		}
		return a, nil
	}

	switch a.activeTab {
	case tabInvestments:
		switch key {
		case "f":
			return a.start(session.ActionInvestments)
		case "h":
			return a.start(session.ActionHarvesting)
		}
	case tabStock:
		if key == "f" {
			return a.start(session.ActionStockPrice)
		}
	case tabTaxes:
		if key == "c" {
			return a.start(session.ActionTaxes)
		}
	}

	if len(msg.Runes) == 1 {
		if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
			return a.switchTab(tab), nil
		}
	}
	return a, nil
}

// updateFocused routes keys to the focused input. Enter submits the
// current tab's action; tab cycles between the tab's inputs.
func (a App) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.blur()
		return a, nil
	case "enter":
		a.blur()
		switch a.activeTab {
		case tabInvestments:
			return a.start(session.ActionInvestments)
		case tabStock:
			return a.start(session.ActionStockPrice)
		case tabTaxes:
			return a.start(session.ActionTaxes)
		}
		return a, nil
	case "tab", "down":
		return a.cycleFocus(1)
	case "shift+tab", "up":
		return a.cycleFocus(-1)
	}

	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	a.syncInputs()
	return a, cmd
}

func (a App) switchTab(tab int) App {
	a.blur()
	a.activeTab = tab
	return a
}

func (a App) focusField(f int) (App, tea.Cmd) {
	a.blur()
	a.focus = f
	return a, a.inputs[f].Focus()
}

func (a *App) blur() {
	if a.focus >= 0 {
		a.inputs[a.focus].Blur()
	}
	a.focus = -1
}

func (a App) cycleFocus(dir int) (App, tea.Cmd) {
	fields := tabFields[a.activeTab]
	if len(fields) == 0 {
		return a, nil
	}
	cur := 0
	for i, f := range fields {
		if f == a.focus {
			cur = i
		}
	}
	next := (cur + dir + len(fields)) % len(fields)
	return a.focusField(fields[next])
}

// syncInputs copies what the user typed into the session state.
func (a *App) syncInputs() {
	a.state.PublicToken = a.inputs[fieldPublicToken].Value()
	a.state.Symbol = a.inputs[fieldSymbol].Value()
	a.state.Income = a.inputs[fieldIncome].Value()
	a.state.Brackets = a.inputs[fieldBrackets].Value()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  taxalpha needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"i s t v", "Jump to tab"},
			{"← → Tab", "Previous / Next tab"},
			{"e Enter", "Edit the tab's inputs"},
			{"Esc", "Stop editing"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Submit while editing"},
			{"f", "Fetch investments / stock price"},
			{"h", "Fetch harvesting suggestions"},
			{"c", "Calculate taxes"},
			{"l", "Request a new link token"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.linkInfo(), a.errorCount())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	tabName := strings.ToLower(components.Tabs[a.activeTab].Name)
	content := cli.Safe(a.log, tabName, func() string {
		switch a.activeTab {
		case tabInvestments:
			return a.renderInvestmentsTab(cw)
		case tabStock:
			return a.renderStockTab(cw)
		case tabTaxes:
			return a.renderTaxesTab(cw)
		case tabSavings:
			return a.renderSavingsTab(cw)
		}
		return ""
	})

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// linkInfo is the status bar's right-hand text.
func (a App) linkInfo() string {
	switch {
	case a.busy[session.ActionLinkToken] > 0:
		return a.spinner.View() + " requesting link token"
	case a.state.Err(session.ActionLinkToken) != "":
		return "link token unavailable"
	case a.state.LinkToken != "":
		return "link: " + cli.MaskToken(a.state.LinkToken)
	}
	return ""
}

func (a App) errorCount() int {
	n := 0
	for _, act := range session.Actions {
		if a.state.Err(act) != "" {
			n++
		}
	}
	return n
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
