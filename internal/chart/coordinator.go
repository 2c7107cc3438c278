package chart

import (
	"sync"

	"github.com/stockpeek/chartsync/internal/model"
)

// Token marks request issuance order within one (scope, purpose) stream.
// Tokens only ever increase; a completion whose token is not the latest
// issued for its stream must not mutate shared state.
type Token = uint64

// Purpose identifies what a request fetches: the price history, or one
// indicator kind.
type Purpose string

// HistoryPurpose is the purpose of a price history fetch.
const HistoryPurpose Purpose = "history"

// IndicatorPurpose returns the purpose of an indicator fetch for one kind.
func IndicatorPurpose(kind model.IndicatorKind) Purpose {
	return Purpose("indicator:" + string(kind))
}

type streamKey struct {
	scope   model.Scope
	purpose Purpose
}

// Coordinator issues and validates freshness tokens per (scope, purpose).
// It tracks only the latest issued token for each stream, so responses from
// abandoned scopes are handled by the owning view's active-scope check while
// token comparison guards reordering within a scope.
type Coordinator struct {
	mu     sync.Mutex
	latest map[streamKey]Token
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{latest: make(map[streamKey]Token)}
}

// Issue assigns the next token for the stream. The returned token supersedes
// every earlier one issued for the same scope and purpose.
func (c *Coordinator) Issue(scope model.Scope, purpose Purpose) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := streamKey{scope, purpose}
	c.latest[key]++
	return c.latest[key]
}

// Accept reports whether a completion holding the given token is still the
// authoritative one for its stream. On Stale the caller must discard the
// payload without touching shared state.
func (c *Coordinator) Accept(token Token, scope model.Scope, purpose Purpose) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest[streamKey{scope, purpose}] != token {
		return Stale
	}
	return Accepted
}

// Latest returns the most recently issued token for the stream, zero if none.
func (c *Coordinator) Latest(scope model.Scope, purpose Purpose) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest[streamKey{scope, purpose}]
}
