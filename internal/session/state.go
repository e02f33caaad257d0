// Package session holds the client's view state and the per-action
// validate/dispatch/apply steps that change it.
package session

import (
	"github.com/theirongolddev/taxalpha/internal/backend"
)

// Action identifies one user-triggered backend round-trip.
type Action int

const (
	ActionLinkToken Action = iota
	ActionInvestments
	ActionHarvesting
	ActionStockPrice
	ActionTaxes
	actionCount // sentinel
)

// Actions lists every action in display order.
var Actions = []Action{ActionLinkToken, ActionInvestments, ActionHarvesting, ActionStockPrice, ActionTaxes}

func (a Action) String() string {
	switch a {
	case ActionLinkToken:
		return "link token"
	case ActionInvestments:
		return "investment data"
	case ActionHarvesting:
		return "harvesting suggestions"
	case ActionStockPrice:
		return "stock price"
	case ActionTaxes:
		return "tax calculation"
	default:
		return "unknown action"
	}
}

// State is the single view-state record for one client session.
// Input fields hold exactly what the user typed; result fields hold the
// last successful response for their action.
type State struct {
	// Inputs
	PublicToken string
	Symbol      string
	Income      string
	Brackets    string

	// Results
	LinkToken   string
	Investments backend.Payload
	Suggestions []backend.Suggestion
	StockPrice  backend.Payload
	TaxResult   backend.Payload

	// Errors holds the latest failure message per action. An action's slot
	// is cleared only by that action's own success.
	Errors [actionCount]string

	// seq is the sequence number of each action's latest request.
	seq [actionCount]uint64
}

// Err returns the current error message for a.
func (s State) Err(a Action) string {
	if a < 0 || a >= actionCount {
		return ""
	}
	return s.Errors[a]
}

// HasErrors reports whether any action currently shows an error.
func (s State) HasErrors() bool {
	for _, e := range s.Errors {
		if e != "" {
			return true
		}
	}
	return false
}

// Seq returns the sequence number of the latest request issued for a.
func (s State) Seq(a Action) uint64 {
	if a < 0 || a >= actionCount {
		return 0
	}
	return s.seq[a]
}
