package chart

import (
	"math/rand"
	"testing"

	"github.com/stockpeek/chartsync/internal/model"
)

func testScope() model.Scope {
	return model.Scope{Symbol: "AAPL", Period: model.Period1Mo}
}

func TestCoordinatorOnlyLatestTokenAccepted(t *testing.T) {
	coord := NewCoordinator()
	scope := testScope()

	tokens := make([]Token, 10)
	for i := range tokens {
		tokens[i] = coord.Issue(scope, HistoryPurpose)
	}

	// Completion order is arbitrary; acceptance must not depend on it.
	shuffled := make([]Token, len(tokens))
	copy(shuffled, tokens)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	accepted := 0
	for _, tok := range shuffled {
		if coord.Accept(tok, scope, HistoryPurpose) == Accepted {
			accepted++
			if tok != tokens[len(tokens)-1] {
				t.Errorf("accepted token %d, want only the latest %d", tok, tokens[len(tokens)-1])
			}
		}
	}
	if accepted != 1 {
		t.Errorf("accepted %d responses, want exactly 1", accepted)
	}
}

func TestCoordinatorStreamsAreIndependent(t *testing.T) {
	coord := NewCoordinator()
	scope := testScope()

	histToken := coord.Issue(scope, HistoryPurpose)
	rsiToken := coord.Issue(scope, IndicatorPurpose(model.KindRSI))
	smaToken := coord.Issue(scope, IndicatorPurpose(model.KindSMA))

	// Superseding the RSI stream must not disturb history or SMA.
	rsiToken2 := coord.Issue(scope, IndicatorPurpose(model.KindRSI))

	if coord.Accept(histToken, scope, HistoryPurpose) != Accepted {
		t.Error("history token should still be authoritative")
	}
	if coord.Accept(smaToken, scope, IndicatorPurpose(model.KindSMA)) != Accepted {
		t.Error("sma token should still be authoritative")
	}
	if coord.Accept(rsiToken, scope, IndicatorPurpose(model.KindRSI)) != Stale {
		t.Error("superseded rsi token should be stale")
	}
	if coord.Accept(rsiToken2, scope, IndicatorPurpose(model.KindRSI)) != Accepted {
		t.Error("latest rsi token should be authoritative")
	}
}

func TestCoordinatorScopesAreIndependent(t *testing.T) {
	coord := NewCoordinator()
	oneMonth := model.Scope{Symbol: "AAPL", Period: model.Period1Mo}
	oneYear := model.Scope{Symbol: "AAPL", Period: model.Period1Y}

	monthToken := coord.Issue(oneMonth, HistoryPurpose)
	yearToken := coord.Issue(oneYear, HistoryPurpose)

	// A scope change does not reset the old scope's counter: its last token
	// stays nominally acceptable, which is why the owning view must also
	// check the active scope before calling Accept.
	if coord.Accept(monthToken, oneMonth, HistoryPurpose) != Accepted {
		t.Error("old scope token remains latest within its own stream")
	}
	if coord.Accept(yearToken, oneYear, HistoryPurpose) != Accepted {
		t.Error("new scope token should be authoritative")
	}
}

func TestCoordinatorLatest(t *testing.T) {
	coord := NewCoordinator()
	scope := testScope()

	if got := coord.Latest(scope, HistoryPurpose); got != 0 {
		t.Errorf("Latest on untouched stream = %d, want 0", got)
	}
	tok := coord.Issue(scope, HistoryPurpose)
	if got := coord.Latest(scope, HistoryPurpose); got != tok {
		t.Errorf("Latest = %d, want %d", got, tok)
	}
}
