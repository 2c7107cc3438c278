package chart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stockpeek/chartsync/internal/model"
)

// Fetcher loads chart data from the host application's endpoints.
type Fetcher interface {
	GetCandlesticks(ctx context.Context, symbol string, period model.Period) (model.PriceHistory, error)
	GetIndicator(ctx context.Context, kind model.IndicatorKind, symbol string) (model.IndicatorSeries, error)
}

// RenderState is what the mounted view should currently display.
type RenderState string

const (
	// StateLoading means the history fetch for the active scope is in flight.
	StateLoading RenderState = "loading"
	// StateReady means an accepted, non-empty history is displayed.
	StateReady RenderState = "ready"
	// StateEmpty means the history fetch succeeded with zero candles. This is
	// the canonical "no data" state, distinct from an error.
	StateEmpty RenderState = "empty"
	// StateFailed means the history fetch failed; rendering is blocked and
	// the failure is surfaced as a retryable error.
	StateFailed RenderState = "failed"
)

// ViewOptions configures a ChartView.
type ViewOptions struct {
	Fetcher        Fetcher
	Surface        *SurfaceManager
	Representation Representation
	Logger         *zerolog.Logger
	// OnIndicatorError receives individual overlay fetch failures. They never
	// block the price chart; the overlay is simply not added.
	OnIndicatorError func(kind model.IndicatorKind, err *FetchError)
}

// ChartView orchestrates the chart of one mounted stock-detail view: it owns
// the request coordinator, the overlay registry, and the surface manager, and
// applies every fetch completion under a single lock so the surface only ever
// has one writer.
//
// Every completion is double-checked before it may mutate state: first
// against the active scope (guards stale cross-scope delivery after a symbol
// or period switch), then against the coordinator's token (guards reordering
// within a scope). A superseded request may resolve arbitrarily late without
// observable effect.
type ChartView struct {
	mu       sync.Mutex
	fetcher  Fetcher
	coord    *Coordinator
	registry *OverlayRegistry
	surface  *SurfaceManager
	logger   zerolog.Logger

	onIndicatorError func(kind model.IndicatorKind, err *FetchError)

	scope   model.Scope
	history model.PriceHistory
	state   RenderState
	lastErr *FetchError

	inflight sync.WaitGroup
}

// NewChartView creates a view. The caller remains responsible for the
// surface manager's lifecycle pairing: Create before data arrives, Destroy on
// teardown (Close does the latter unconditionally).
func NewChartView(opts ViewOptions) *ChartView {
	logger := log.With().Str("component", "chart_view").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	coord := NewCoordinator()
	v := &ChartView{
		fetcher:          opts.Fetcher,
		coord:            coord,
		registry:         NewOverlayRegistry(coord),
		surface:          opts.Surface,
		logger:           logger,
		onIndicatorError: opts.OnIndicatorError,
		state:            StateLoading,
	}
	if opts.Representation != "" && v.surface != nil {
		v.surface.SetRepresentation(opts.Representation)
	}
	return v
}

// SetSymbol switches the view to a new symbol, keeping the current period.
func (v *ChartView) SetSymbol(ctx context.Context, symbol string) {
	v.mu.Lock()
	scope := model.Scope{Symbol: symbol, Period: v.scope.Period}
	v.changeScopeLocked(ctx, scope)
	v.mu.Unlock()
}

// SetPeriod switches the view to a new period, keeping the current symbol.
func (v *ChartView) SetPeriod(ctx context.Context, period model.Period) {
	v.mu.Lock()
	scope := model.Scope{Symbol: v.scope.Symbol, Period: period}
	v.changeScopeLocked(ctx, scope)
	v.mu.Unlock()
}

// Load sets both symbol and period at once, the initial-mount path.
func (v *ChartView) Load(ctx context.Context, symbol string, period model.Period) {
	v.mu.Lock()
	v.changeScopeLocked(ctx, model.Scope{Symbol: symbol, Period: period})
	v.mu.Unlock()
}

// changeScopeLocked starts a new scope: overlays are cleared before any fetch
// for the new scope is issued, so they never leak across symbol or period
// boundaries. In-flight fetches of the old scope keep running; their results
// fail the active-scope check on arrival.
func (v *ChartView) changeScopeLocked(ctx context.Context, scope model.Scope) {
	v.scope = scope
	v.registry.Clear(scope)
	v.history = nil
	v.state = StateLoading
	v.lastErr = nil

	token := v.coord.Issue(scope, HistoryPurpose)
	v.logger.Debug().Str("scope", scope.String()).Uint64("token", token).Msg("Issuing history fetch")

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		history, err := v.fetcher.GetCandlesticks(ctx, scope.Symbol, scope.Period)
		v.completeHistory(scope, token, history, err)
	}()
}

func (v *ChartView) completeHistory(scope model.Scope, token Token, history model.PriceHistory, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Active-scope check first: a late response for an abandoned scope must
	// not even reach the coordinator.
	if scope != v.scope {
		v.logger.Debug().Str("scope", scope.String()).Msg("Dropping history response for inactive scope")
		return
	}
	if v.coord.Accept(token, scope, HistoryPurpose) != Accepted {
		v.logger.Debug().Str("scope", scope.String()).Uint64("token", token).Msg("Dropping stale history response")
		return
	}

	if err != nil {
		fe := newFetchError(HistoryPurpose, scope, err)
		v.lastErr = fe
		v.state = StateFailed
		v.logger.Error().Err(err).Str("scope", scope.String()).Msg("History fetch failed")
		return
	}

	v.history = history
	v.lastErr = nil
	if len(history) == 0 {
		v.state = StateEmpty
	} else {
		v.state = StateReady
	}
	v.renderLocked()
}

// AddIndicator fetches one indicator for the active scope and, on success,
// adds it as an overlay. A failure degrades gracefully: it is logged and
// reported through OnIndicatorError but never blocks the price chart.
func (v *ChartView) AddIndicator(ctx context.Context, kind model.IndicatorKind) {
	v.mu.Lock()
	scope := v.scope
	token := v.coord.Issue(scope, IndicatorPurpose(kind))
	v.mu.Unlock()

	v.logger.Debug().Str("scope", scope.String()).Str("kind", kind.String()).Uint64("token", token).Msg("Issuing indicator fetch")

	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		series, err := v.fetcher.GetIndicator(ctx, kind, scope.Symbol)
		v.completeIndicator(scope, kind, token, series, err)
	}()
}

func (v *ChartView) completeIndicator(scope model.Scope, kind model.IndicatorKind, token Token, series model.IndicatorSeries, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if scope != v.scope {
		v.logger.Debug().Str("scope", scope.String()).Str("kind", kind.String()).Msg("Dropping indicator response for inactive scope")
		return
	}
	if v.coord.Accept(token, scope, IndicatorPurpose(kind)) != Accepted {
		v.logger.Debug().Str("kind", kind.String()).Uint64("token", token).Msg("Dropping stale indicator response")
		return
	}

	if err != nil {
		fe := newFetchError(IndicatorPurpose(kind), scope, err)
		v.logger.Warn().Err(err).Str("kind", kind.String()).Msg("Indicator fetch failed, overlay dropped")
		if v.onIndicatorError != nil {
			v.onIndicatorError(kind, fe)
		}
		return
	}

	if _, outcome := v.registry.Add(kind, series, token); outcome != Accepted {
		v.logger.Debug().Str("kind", kind.String()).Msg("Overlay add refused as stale")
		return
	}
	v.renderLocked()
}

// RemoveOverlay removes one overlay by id, reporting whether it existed.
func (v *ChartView) RemoveOverlay(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.registry.Remove(id) {
		return false
	}
	v.renderLocked()
	return true
}

// Overlays lists the active overlays in render order.
func (v *ChartView) Overlays() []model.Overlay {
	return v.registry.List()
}

// SetRepresentation switches how the bundle is drawn. Pure re-render with the
// data already held; no fetch is issued.
func (v *ChartView) SetRepresentation(repr Representation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.surface != nil {
		v.surface.SetRepresentation(repr)
	}
	v.renderLocked()
}

// Snapshot returns the current render state, the last aligned bundle, and the
// blocking history error if any.
func (v *ChartView) Snapshot() (RenderState, model.AlignedBundle, *FetchError) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, Align(v.history, v.registry.List()), v.lastErr
}

// Wait blocks until every fetch issued so far has completed. Completion does
// not imply acceptance: superseded responses are still discarded.
func (v *ChartView) Wait() {
	v.inflight.Wait()
}

// Close tears the view down. Destroy is called unconditionally, even if the
// last update failed.
func (v *ChartView) Close() {
	if v.surface != nil {
		v.surface.Destroy()
	}
}

// renderLocked recomputes the aligned bundle and pushes it at the surface.
// Held under v.mu so the surface has a single writer.
func (v *ChartView) renderLocked() {
	if v.surface == nil || v.state == StateFailed {
		return
	}
	bundle := Align(v.history, v.registry.List())
	if err := v.surface.UpdateData(bundle); err != nil {
		v.logger.Warn().Err(err).Msg("Surface update skipped")
	}
}
