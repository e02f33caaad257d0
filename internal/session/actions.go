package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/brackets"
)

var (
	// ErrMissingInput is wrapped by every empty-field validation error.
	ErrMissingInput = errors.New("missing input")
	// ErrNoInvestments means harvesting was requested before investment data arrived.
	ErrNoInvestments = errors.New("fetch investment data first")
)

// Request is a validated, ready-to-send backend call.
type Request struct {
	Action Action
	Seq    uint64

	PublicToken string
	Investments backend.Payload
	Symbol      string
	Tax         backend.TaxRequest
}

// Result is the outcome of one Request.
type Result struct {
	Action Action
	Seq    uint64
	Err    error

	LinkToken   string
	Payload     backend.Payload
	Suggestions []backend.Suggestion
}

// Begin validates the inputs a needs and builds its request.
// On a validation failure the message lands in a's error slot and no
// request is produced.
func Begin(s State, a Action) (State, Request, error) {
	req, err := build(s, a)
	if err != nil {
		s.Errors[a] = Message(a, err)
		return s, Request{}, err
	}
	s.seq[a]++
	req.Action = a
	req.Seq = s.seq[a]
	return s, req, nil
}

func build(s State, a Action) (Request, error) {
	switch a {
	case ActionLinkToken:
		return Request{}, nil

	case ActionInvestments:
		tok := strings.TrimSpace(s.PublicToken)
		if tok == "" {
			return Request{}, fmt.Errorf("%w: public token", ErrMissingInput)
		}
		return Request{PublicToken: tok}, nil

	case ActionHarvesting:
		if s.Investments.Empty() {
			return Request{}, ErrNoInvestments
		}
		return Request{Investments: s.Investments}, nil

	case ActionStockPrice:
		sym := strings.ToUpper(strings.TrimSpace(s.Symbol))
		if sym == "" {
			return Request{}, fmt.Errorf("%w: stock symbol", ErrMissingInput)
		}
		return Request{Symbol: sym}, nil

	case ActionTaxes:
		tax, err := buildTaxRequest(s.Income, s.Brackets)
		if err != nil {
			return Request{}, err
		}
		return Request{Tax: tax}, nil
	}
	return Request{}, fmt.Errorf("session: unknown action %d", int(a))
}

func buildTaxRequest(incomeIn, bracketsIn string) (backend.TaxRequest, error) {
	incomeIn = strings.TrimSpace(incomeIn)
	if incomeIn == "" {
		return backend.TaxRequest{}, fmt.Errorf("%w: income", ErrMissingInput)
	}
	if strings.TrimSpace(bracketsIn) == "" {
		return backend.TaxRequest{}, fmt.Errorf("%w: tax brackets", ErrMissingInput)
	}

	income, err := decimal.NewFromString(strings.ReplaceAll(incomeIn, ",", ""))
	if err != nil {
		return backend.TaxRequest{}, fmt.Errorf("income %q is not a number", incomeIn)
	}
	if income.IsNegative() {
		return backend.TaxRequest{}, errors.New("income must not be negative")
	}

	list, err := brackets.ParseStrict(bracketsIn)
	if err != nil {
		return backend.TaxRequest{}, err
	}
	return backend.TaxRequest{Income: income, TaxBrackets: list}, nil
}

// Apply folds a result into the state.
// A result older than the action's latest request is dropped. Success
// replaces the action's stored value and clears its own error slot; failure
// records the message and keeps the previous value.
func Apply(s State, r Result) State {
	a := r.Action
	if a < 0 || a >= actionCount {
		return s
	}
	if r.Seq != s.seq[a] {
		return s
	}

	if r.Err != nil {
		s.Errors[a] = Message(a, r.Err)
		return s
	}

	switch a {
	case ActionLinkToken:
		s.LinkToken = r.LinkToken
	case ActionInvestments:
		s.Investments = r.Payload
	case ActionHarvesting:
		s.Suggestions = r.Suggestions
	case ActionStockPrice:
		s.StockPrice = r.Payload
	case ActionTaxes:
		s.TaxResult = r.Payload
	}
	s.Errors[a] = ""
	return s
}

// Message reduces an error to one line suitable for the user.
func Message(a Action, err error) string {
	var (
		statusErr *backend.StatusError
		netErr    net.Error
	)

	var reason string
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		reason = "the backend rejected the credentials"
	case errors.Is(err, backend.ErrRateLimited):
		reason = "rate limited by the backend, try again in a minute"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "the backend did not respond in time"
	case errors.Is(err, context.Canceled):
		reason = "request canceled"
	case errors.As(err, &statusErr):
		reason = fmt.Sprintf("backend returned %d", statusErr.Status)
		if statusErr.Message != "" {
			reason += ": " + statusErr.Message
		}
	case errors.As(err, &netErr):
		reason = "could not reach the backend"
	default:
		reason = strings.TrimPrefix(err.Error(), "backend: ")
	}

	if a == ActionTaxes {
		return "Error calculating taxes: " + reason
	}
	return fmt.Sprintf("Error fetching %s: %s", a, reason)
}
