package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/taxalpha/internal/backend"
	"github.com/theirongolddev/taxalpha/internal/session"
)

// fakeRun records the actions it sees and fails the ones in fail.
func fakeRun(seen *[]session.Action, fail map[session.Action]bool) runner {
	return func(_ context.Context, s session.State, a session.Action) (session.State, error) {
		*seen = append(*seen, a)
		if fail[a] {
			s.Errors[a] = "Error: boom"
			return s, errors.New("boom")
		}
		switch a {
		case session.ActionLinkToken:
			s.LinkToken = "link-sandbox-abc"
		case session.ActionInvestments:
			s.Investments = backend.Payload(`{"holdings":[]}`)
		case session.ActionHarvesting:
			s.Suggestions = []backend.Suggestion{{SecurityName: "ACME", TotalLoss: 120}}
		case session.ActionStockPrice:
			s.StockPrice = backend.Payload(`{"price":187.5}`)
		case session.ActionTaxes:
			s.TaxResult = backend.Payload(`{"tax_due":7000}`)
		}
		return s, nil
	}
}

func TestBuildReportRunsOnlyActionsWithInputs(t *testing.T) {
	var seen []session.Action
	_, attempted, failed := buildReport(context.Background(), fakeRun(&seen, nil), session.State{Symbol: "AAPL"})

	want := []session.Action{session.ActionLinkToken, session.ActionStockPrice}
	if len(seen) != len(want) {
		t.Fatalf("ran %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("ran %v, want %v", seen, want)
		}
	}
	if attempted != 2 || failed != 0 {
		t.Fatalf("attempted=%d failed=%d, want 2 and 0", attempted, failed)
	}
}

func TestBuildReportSkipsHarvestingWithoutInvestments(t *testing.T) {
	var seen []session.Action
	fail := map[session.Action]bool{session.ActionInvestments: true}
	s, attempted, failed := buildReport(context.Background(), fakeRun(&seen, fail),
		session.State{PublicToken: "public-sandbox-1", Income: "50000", Brackets: "0.1:10000"})

	for _, a := range seen {
		if a == session.ActionHarvesting {
			t.Fatal("harvesting ran after investments failed")
		}
	}
	if attempted != 3 || failed != 1 {
		t.Fatalf("attempted=%d failed=%d, want 3 and 1", attempted, failed)
	}
	if s.TaxResult.Empty() {
		t.Error("taxes should still run when investments fail")
	}
	if s.Err(session.ActionInvestments) == "" {
		t.Error("investments error should be kept for the report")
	}
}

func TestBuildReportAllFailed(t *testing.T) {
	var seen []session.Action
	fail := map[session.Action]bool{session.ActionLinkToken: true}
	_, attempted, failed := buildReport(context.Background(), fakeRun(&seen, fail), session.State{})
	if attempted != 1 || failed != attempted {
		t.Fatalf("attempted=%d failed=%d, want every attempt failed", attempted, failed)
	}
}
