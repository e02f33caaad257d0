package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/cli"
	"github.com/theirongolddev/taxalpha/internal/config"
	"github.com/theirongolddev/taxalpha/internal/session"
	"github.com/theirongolddev/taxalpha/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

type stubAPI struct {
	mu    sync.Mutex
	calls []string

	payload     backend.Payload
	suggestions []backend.Suggestion
	err         error
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubAPI) CreateLinkToken(context.Context) (string, error) {
	s.record("link")
	return "link-sandbox-1234567890abcdef", s.err
}

func (s *stubAPI) FetchInvestments(_ context.Context, tok string) (backend.Payload, error) {
	s.record("investments:" + tok)
	return s.payload, s.err
}

func (s *stubAPI) FetchHarvestingSuggestions(context.Context, backend.Payload) ([]backend.Suggestion, error) {
	s.record("harvest")
	return s.suggestions, s.err
}

func (s *stubAPI) FetchStockPrice(_ context.Context, sym string) (backend.Payload, error) {
	s.record("price:" + sym)
	return s.payload, s.err
}

func (s *stubAPI) CalculateTaxes(context.Context, backend.TaxRequest) (backend.Payload, error) {
	s.record("taxes")
	return s.payload, s.err
}

func newTestApp(api backend.API) App {
	a := NewApp(session.NewDispatcher(api, nil), Options{Currency: "USD"})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

// results runs cmd and any batched commands, collecting the ResultMsgs.
func results(t *testing.T, cmd tea.Cmd) []ResultMsg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	var out []ResultMsg
	switch msg := cmd().(type) {
	case ResultMsg:
		out = append(out, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, results(t, c)...)
		}
	}
	return out
}

func press(a App, keys ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a, cmd
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := components.TabVisualWidth(components.Tabs[i], i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past last tab -> %d, want -1", got)
		}
	}
}

func TestNewApp_RequestsLinkTokenOnStart(t *testing.T) {
	api := &stubAPI{}
	a := newTestApp(api)

	if a.initReq == nil {
		t.Fatal("no link token request queued")
	}
	if got := a.linkInfo(); !strings.Contains(got, "requesting link token") {
		t.Fatalf("status before response = %q", got)
	}

	m, _ := a.Update(a.requestCmd(*a.initReq)())
	a = m.(App)
	if a.State().LinkToken != "link-sandbox-1234567890abcdef" {
		t.Fatalf("LinkToken = %q", a.State().LinkToken)
	}
	if got := a.linkInfo(); got != "link: link-san...cdef" {
		t.Fatalf("status after response = %q", got)
	}
}

func TestTypingAndSubmitFetchesStockPrice(t *testing.T) {
	api := &stubAPI{payload: backend.Payload(`{"symbol":"AAPL","price":187.5}`)}
	a := newTestApp(api)

	a, _ = press(a, "s", "enter", "a", "a", "p", "l")
	if a.State().Symbol != "aapl" {
		t.Fatalf("Symbol = %q, want what was typed", a.State().Symbol)
	}

	a, cmd := press(a, "enter")
	if a.focus != -1 {
		t.Fatal("input still focused after submit")
	}
	msgs := results(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d results, want 1", len(msgs))
	}
	if api.calls[len(api.calls)-1] != "price:AAPL" {
		t.Fatalf("calls = %v", api.calls)
	}

	m, _ := a.Update(msgs[0])
	a = m.(App)
	if a.State().StockPrice.Empty() {
		t.Fatal("stock price not stored")
	}
	if view := a.View(); !strings.Contains(view, "$187.50") {
		t.Fatalf("view missing price headline:\n%s", view)
	}
}

func TestTaxesInvalidInputIssuesNoRequest(t *testing.T) {
	api := &stubAPI{}
	a := newTestApp(api)

	a, _ = press(a, "t", "enter")
	a, _ = press(a, "5", "0", "0", "0", "0", "tab", "0", ".", "1", ":", "x")
	if a.State().Income != "50000" || a.State().Brackets != "0.1:x" {
		t.Fatalf("inputs = %q / %q", a.State().Income, a.State().Brackets)
	}

	a, cmd := press(a, "esc", "c")
	if cmd != nil {
		t.Fatal("invalid brackets produced a command")
	}
	if api.callCount() != 0 {
		t.Fatalf("backend called %d times", api.callCount())
	}
	if msg := a.State().Err(session.ActionTaxes); !strings.HasPrefix(msg, "Error calculating taxes") {
		t.Fatalf("error = %q", msg)
	}
	if view := a.View(); !strings.Contains(view, "Error calculating taxes") {
		t.Fatal("validation error not shown on the Taxes tab")
	}
}

func TestFailedFetchKeepsPriorData(t *testing.T) {
	api := &stubAPI{payload: backend.Payload(`{"accounts":[]}`)}
	a := newTestApp(api)

	a, cmd := press(a, "enter", "p", "t", "enter")
	for _, r := range results(t, cmd) {
		m, _ := a.Update(r)
		a = m.(App)
	}
	if a.State().Investments.Empty() {
		t.Fatal("investments not stored")
	}

	api.err = &backend.StatusError{Method: "POST", Path: "/api/investments", Status: 500, Message: "boom"}
	a, cmd = press(a, "f")
	for _, r := range results(t, cmd) {
		m, _ := a.Update(r)
		a = m.(App)
	}
	if a.State().Investments.Empty() {
		t.Fatal("failure cleared prior investments")
	}
	want := "Error fetching investment data: backend returned 500: boom"
	if got := a.State().Err(session.ActionInvestments); got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
	if a.errorCount() != 1 {
		t.Fatalf("errorCount = %d", a.errorCount())
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	api := &stubAPI{payload: backend.Payload(`{"price":1}`)}
	a := newTestApp(api)
	a.state.Symbol = "OLD"

	a, first := a.start(session.ActionStockPrice)
	a.state.Symbol = "NEW"
	a, second := a.start(session.ActionStockPrice)

	newer := results(t, second)
	api.payload = backend.Payload(`{"price":99}`)
	older := results(t, first)

	m, _ := a.Update(newer[0])
	a = m.(App)
	m, _ = a.Update(older[0])
	a = m.(App)

	if p, _ := a.State().StockPrice.LookupNumber("$.price"); p != 1 {
		t.Fatalf("price = %v, want the newer response", p)
	}
	if a.busy[session.ActionStockPrice] != 0 {
		t.Fatalf("busy = %d after both responses", a.busy[session.ActionStockPrice])
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(&stubAPI{})
	a.state.Investments = backend.Payload(`{"holdings":[{"security":"ACME"}]}`)
	a.state.Suggestions = []backend.Suggestion{
		{SecurityName: "ACME", TotalLoss: 1200},
		{SecurityName: "Globex", TotalLoss: 300},
	}
	a.state.Income = "50000"
	a.state.Brackets = "0.1:10000,0.2:40000"
	a.state.TaxResult = backend.Payload(`{"tax_due":6000}`)

	wants := map[int][]string{
		tabInvestments: {"Security: ACME, Loss: 1200", "Total: $1,500.00"},
		tabStock:       {"Enter a symbol"},
		tabTaxes:       {"Tax Due: $6,000.00", "over 40,000", "12.0%"},
		tabSavings:     {"Harvestable Loss", "$1,500.00", "Globex"},
	}
	for tab, want := range wants {
		a.activeTab = tab
		view := a.View()
		if strings.Contains(view, cli.Fallback) {
			t.Fatalf("tab %d hit the error boundary", tab)
		}
		for _, w := range want {
			if !strings.Contains(view, w) {
				t.Errorf("tab %d missing %q", tab, w)
			}
		}
	}

	// Compact layout stacks the cards instead.
	m, _ := a.Update(tea.WindowSizeMsg{Width: 70, Height: 60})
	a = m.(App)
	a.activeTab = tabInvestments
	if view := a.View(); !strings.Contains(view, "Harvesting Suggestions") {
		t.Fatal("compact investments view missing suggestions card")
	}
}

func TestHelpAndQuit(t *testing.T) {
	a := newTestApp(&stubAPI{})
	a, _ = press(a, "?")
	if !a.showHelp || !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	a, _ = press(a, "x")
	if a.showHelp {
		t.Fatal("any key should close help")
	}
	_, cmd := press(a, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not return tea.Quit")
	}
	if a.ctx.Err() == nil {
		t.Fatal("quitting did not cancel outstanding requests")
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.BackendURL = "https://tax.example.com/"
	v.TimeoutSec = "5"
	v.Currency = "EUR"
	v.Theme = "tokyo-night"

	got, err := v.Apply(cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Backend.BaseURL != "https://tax.example.com" || got.Backend.TimeoutSec != 5 {
		t.Fatalf("backend = %+v", got.Backend)
	}
	if got.Display.Currency != "EUR" || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("display/appearance = %+v / %+v", got.Display, got.Appearance)
	}

	v.BackendURL = "ftp://nope"
	if _, err := v.Apply(cfg); err == nil {
		t.Fatal("non-http URL accepted")
	}
	v.BackendURL = "http://ok:5000"
	v.TimeoutSec = "0"
	if _, err := v.Apply(cfg); err == nil {
		t.Fatal("zero timeout accepted")
	}
}
