package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/taxalpha/internal/brackets"
)

// Payload is an opaque JSON document owned by the backend.
// The client stores and displays it without imposing a schema.
type Payload json.RawMessage

// Empty reports whether no payload has been stored.
func (p Payload) Empty() bool {
	return len(bytes.TrimSpace(p)) == 0 || string(bytes.TrimSpace(p)) == "null"
}

// MarshalJSON emits the payload verbatim so it can be forwarded unchanged.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Empty() {
		return []byte("null"), nil
	}
	return json.RawMessage(p).MarshalJSON()
}

// UnmarshalJSON keeps a copy of the raw bytes.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("backend: UnmarshalJSON on nil Payload")
	}
	*p = append((*p)[:0], data...)
	return nil
}

// Pretty returns the payload indented by two spaces.
func (p Payload) Pretty() (string, error) {
	if p.Empty() {
		return "", nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return "", fmt.Errorf("backend: indenting payload: %w", err)
	}
	return buf.String(), nil
}

// Lookup evaluates a JSONPath expression (e.g. "$.tax_due") against the payload.
func (p Payload) Lookup(path string) (any, error) {
	if p.Empty() {
		return nil, errors.New("backend: empty payload")
	}
	var doc any
	if err := json.Unmarshal(p, &doc); err != nil {
		return nil, fmt.Errorf("backend: decoding payload: %w", err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("backend: jsonpath %s: %w", path, err)
	}
	return v, nil
}

// LookupNumber evaluates path and converts the result to a float.
func (p Payload) LookupNumber(path string) (float64, bool) {
	v, err := p.Lookup(path)
	if err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// LinkToken is the response of GET /create_link_token.
type LinkToken struct {
	LinkToken string `json:"link_token"`
}

// Suggestion is one tax-loss harvesting recommendation.
type Suggestion struct {
	SecurityName string  `json:"security_name"`
	TotalLoss    float64 `json:"total_loss"`
}

// TotalLoss sums the losses of all suggestions exactly.
func TotalLoss(suggestions []Suggestion) decimal.Decimal {
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(decimal.NewFromFloat(s.TotalLoss))
	}
	return total
}

// InvestmentsRequest is the body of POST /api/investments.
type InvestmentsRequest struct {
	PublicToken string `json:"public_token"`
}

// HarvestingRequest is the body of POST /api/tax_loss_harvesting.
type HarvestingRequest struct {
	InvestmentData Payload `json:"investment_data"`
}

// TaxRequest is the body of POST /calculate_taxes.
type TaxRequest struct {
	Income      decimal.Decimal
	TaxBrackets brackets.List
}

// MarshalJSON encodes income as a bare JSON number rather than decimal's
// default quoted string.
func (r TaxRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Income      json.Number   `json:"income"`
		TaxBrackets brackets.List `json:"tax_brackets"`
	}{
		Income:      json.Number(r.Income.String()),
		TaxBrackets: r.TaxBrackets,
	})
}

// errorEnvelope is the backend's JSON error body ({"error": "Not Found"}).
type errorEnvelope struct {
	Error string `json:"error"`
}
