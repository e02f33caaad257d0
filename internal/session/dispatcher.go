package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/phuslu/log"

	"github.com/theirongolddev/taxalpha/internal/backend"
)

// Dispatcher performs requests against the backend. It holds no view state;
// every call is independent and none is retried.
type Dispatcher struct {
	api backend.API
	log *log.Logger
}

// NewDispatcher returns a dispatcher for api. A nil logger discards output.
func NewDispatcher(api backend.API, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
	}
	return &Dispatcher{api: api, log: logger}
}

// Do performs one round-trip. Failures are logged and returned in Result.Err.
func (d *Dispatcher) Do(ctx context.Context, req Request) Result {
	res := Result{Action: req.Action, Seq: req.Seq}
	start := time.Now()

	switch req.Action {
	case ActionLinkToken:
		res.LinkToken, res.Err = d.api.CreateLinkToken(ctx)
	case ActionInvestments:
		res.Payload, res.Err = d.api.FetchInvestments(ctx, req.PublicToken)
	case ActionHarvesting:
		res.Suggestions, res.Err = d.api.FetchHarvestingSuggestions(ctx, req.Investments)
	case ActionStockPrice:
		res.Payload, res.Err = d.api.FetchStockPrice(ctx, req.Symbol)
	case ActionTaxes:
		res.Payload, res.Err = d.api.CalculateTaxes(ctx, req.Tax)
	default:
		res.Err = fmt.Errorf("session: unknown action %d", int(req.Action))
	}

	if res.Err != nil {
		d.log.Error().
			Str("action", req.Action.String()).
			Uint64("seq", req.Seq).
			Err(res.Err).
			Msg("request failed")
	} else {
		d.log.Info().
			Str("action", req.Action.String()).
			Uint64("seq", req.Seq).
			Dur("took", time.Since(start)).
			Msg("request done")
	}
	return res
}

// Run validates, dispatches and applies a in one go. The returned error is
// the validation or request error, already reflected in the state.
func (d *Dispatcher) Run(ctx context.Context, s State, a Action) (State, error) {
	s, req, err := Begin(s, a)
	if err != nil {
		d.log.Warn().Str("action", a.String()).Err(err).Msg("invalid input")
		return s, err
	}
	res := d.Do(ctx, req)
	return Apply(s, res), res.Err
}
