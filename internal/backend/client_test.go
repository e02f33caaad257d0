package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/taxalpha/internal/brackets"
)

// recorded captures what the fake backend received.
type recorded struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
}

func newTestClient(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, &calls
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost:5000"); err == nil {
		t.Fatal("New accepted a URL without scheme")
	}
	c, err := New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
}

func TestCreateLinkToken(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"link_token":"link-sandbox-123"}`)

	tok, err := c.CreateLinkToken(context.Background())
	if err != nil {
		t.Fatalf("CreateLinkToken: %v", err)
	}
	if tok != "link-sandbox-123" {
		t.Fatalf("token = %q, want link-sandbox-123", tok)
	}
	if got := (*calls)[0]; got.method != http.MethodGet || got.path != "/create_link_token" {
		t.Fatalf("request = %s %s, want GET /create_link_token", got.method, got.path)
	}
}

func TestCreateLinkToken_MissingField(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{}`)
	if _, err := c.CreateLinkToken(context.Background()); err == nil {
		t.Fatal("expected error for response without link_token")
	}
}

func TestFetchInvestments_SendsPublicToken(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"holdings":[{"security":"VTI","quantity":3}]}`)

	p, err := c.FetchInvestments(context.Background(), "public-sandbox-abc")
	if err != nil {
		t.Fatalf("FetchInvestments: %v", err)
	}
	if p.Empty() {
		t.Fatal("payload is empty")
	}

	got := (*calls)[0]
	if got.method != http.MethodPost || got.path != "/api/investments" {
		t.Fatalf("request = %s %s, want POST /api/investments", got.method, got.path)
	}
	if got.contentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", got.contentType)
	}
	if got.body != `{"public_token":"public-sandbox-abc"}` {
		t.Fatalf("body = %s", got.body)
	}
}

func TestFetchHarvestingSuggestions_ForwardsPayloadVerbatim(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK,
		`[{"security_name":"ACME","total_loss":1200.5},{"security_name":"INIT","total_loss":80}]`)

	inv := Payload(`{"holdings":[{"security":"ACME"}]}`)
	suggestions, err := c.FetchHarvestingSuggestions(context.Background(), inv)
	if err != nil {
		t.Fatalf("FetchHarvestingSuggestions: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("len = %d, want 2", len(suggestions))
	}
	if suggestions[0].SecurityName != "ACME" || suggestions[0].TotalLoss != 1200.5 {
		t.Fatalf("first suggestion = %+v", suggestions[0])
	}

	want := `{"investment_data":{"holdings":[{"security":"ACME"}]}}`
	if got := (*calls)[0].body; got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}

	if total := TotalLoss(suggestions); !total.Equal(decimal.RequireFromString("1280.5")) {
		t.Fatalf("TotalLoss = %s, want 1280.5", total)
	}
}

func TestFetchHarvestingSuggestions_NullIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `null`)
	suggestions, err := c.FetchHarvestingSuggestions(context.Background(), Payload(`{}`))
	if err != nil {
		t.Fatalf("FetchHarvestingSuggestions: %v", err)
	}
	if suggestions == nil || len(suggestions) != 0 {
		t.Fatalf("suggestions = %#v, want empty non-nil", suggestions)
	}
}

func TestFetchStockPrice_EncodesSymbol(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"symbol":"BRK.B","price":412.1}`)

	p, err := c.FetchStockPrice(context.Background(), "BRK.B")
	if err != nil {
		t.Fatalf("FetchStockPrice: %v", err)
	}
	got := (*calls)[0]
	if got.path != "/api/stock_price" || got.query != "symbol=BRK.B" {
		t.Fatalf("request = %s?%s", got.path, got.query)
	}
	if price, ok := p.LookupNumber("$.price"); !ok || price != 412.1 {
		t.Fatalf("price = %v (ok=%v), want 412.1", price, ok)
	}
}

func TestCalculateTaxes_Body(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"tax_due":9000}`)

	list, err := brackets.ParseStrict("0.1:10000,0.2:40000")
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.CalculateTaxes(context.Background(), TaxRequest{
		Income:      decimal.RequireFromString("50000"),
		TaxBrackets: list,
	})
	if err != nil {
		t.Fatalf("CalculateTaxes: %v", err)
	}

	want := `{"income":50000,"tax_brackets":[[0.1,10000],[0.2,40000]]}`
	if got := (*calls)[0].body; got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
	if due, ok := p.LookupNumber("$.tax_due"); !ok || due != 9000 {
		t.Fatalf("tax_due = %v (ok=%v), want 9000", due, ok)
	}
}

func TestErrors_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		reply  string
		want   error
	}{
		{http.StatusUnauthorized, `{}`, ErrUnauthorized},
		{http.StatusForbidden, `{}`, ErrUnauthorized},
		{http.StatusTooManyRequests, `{}`, ErrRateLimited},
	}
	for _, tc := range cases {
		c, _ := newTestClient(t, tc.status, tc.reply)
		_, err := c.FetchStockPrice(context.Background(), "AAPL")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestErrors_StatusErrorCarriesEnvelope(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, `{"error":"Not Found"}`)

	_, err := c.FetchInvestments(context.Background(), "tok")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Status != http.StatusNotFound || se.Message != "Not Found" {
		t.Fatalf("StatusError = %+v", se)
	}
}

func TestErrors_InvalidJSON(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `<html>oops</html>`)
	if _, err := c.FetchStockPrice(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestErrors_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateLinkToken(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestPayload_PrettyAndMarshal(t *testing.T) {
	p := Payload(`{"a":1,"b":[true]}`)
	pretty, err := p.Pretty()
	if err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}"
	if pretty != want {
		t.Fatalf("Pretty = %q, want %q", pretty, want)
	}

	var empty Payload
	data, err := json.Marshal(struct {
		P Payload `json:"p"`
	}{P: empty})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"p":null}` {
		t.Fatalf("empty payload json = %s, want {\"p\":null}", data)
	}
}
