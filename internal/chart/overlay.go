package chart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stockpeek/chartsync/internal/model"
)

// OverlayRegistry holds the active indicator overlays for the current scope.
// Insertion order is render order; removal preserves the relative order of
// the remainder. Overlays never survive a scope change.
type OverlayRegistry struct {
	mu       sync.Mutex
	coord    *Coordinator
	scope    model.Scope
	overlays []model.Overlay
}

// NewOverlayRegistry creates a registry gated by the coordinator's tokens.
func NewOverlayRegistry(coord *Coordinator) *OverlayRegistry {
	return &OverlayRegistry{coord: coord}
}

// Clear empties the registry and records the new active scope. Called exactly
// once per scope transition, before any fetch for the new scope is issued.
func (r *OverlayRegistry) Clear(scope model.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scope = scope
	r.overlays = nil
}

// Add registers a fetched series as an overlay. The add is refused as Stale
// when the token is no longer the latest issued for that indicator kind in
// the current scope, so a slow superseded fetch cannot resurrect a removed
// or replaced overlay.
func (r *OverlayRegistry) Add(kind model.IndicatorKind, series model.IndicatorSeries, token Token) (string, Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coord.Accept(token, r.scope, IndicatorPurpose(kind)) != Accepted {
		return "", Stale
	}
	id := uuid.NewString()
	r.overlays = append(r.overlays, model.Overlay{
		ID:           id,
		Kind:         kind,
		Series:       series,
		RequestToken: token,
	})
	return id, Accepted
}

// Remove deletes the overlay with the given id, reporting whether it existed.
func (r *OverlayRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.overlays {
		if o.ID == id {
			r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the overlays in insertion order. The slice is a copy.
func (r *OverlayRegistry) List() []model.Overlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Overlay, len(r.overlays))
	copy(out, r.overlays)
	return out
}
