package chart

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stockpeek/chartsync/internal/model"
)

// Dimensions is a surface layout size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Container is the host-provided slot a surface renders into. It supplies the
// current dimensions and a layout-change subscription; the returned cancel
// func must be safe to call more than once.
type Container interface {
	Dimensions() Dimensions
	Subscribe(onResize func()) (cancel func())
}

// Surface is one live rendering surface. Implementations wrap the concrete
// rendering technology; the engine only pushes wholesale series replacements
// and layout changes at it.
type Surface interface {
	ApplyOptions(dims Dimensions)
	SetSeries(instructions []DrawInstruction)
	Release()
}

// SurfaceFactory allocates a surface sized to the given dimensions.
type SurfaceFactory func(dims Dimensions) (Surface, error)

// SurfaceOptions configures surface creation.
type SurfaceOptions struct {
	Representation Representation
	Logger         *zerolog.Logger
}

type surfaceState int

const (
	stateUninitialized surfaceState = iota
	stateReady
	stateDestroyed
)

// ErrSurfaceNotReady is returned when UpdateData or Resize is called outside
// the Ready state.
var ErrSurfaceNotReady = errors.New("chart: surface is not ready")

// SurfaceManager owns the single rendering surface of a mounted view:
// creation, data push, resize, and teardown. All mutations are serialized
// behind its mutex; exactly one Ready surface exists per manager.
type SurfaceManager struct {
	mu           sync.Mutex
	state        surfaceState
	surface      Surface
	container    Container
	cancelResize func()
	repr         Representation
	logger       zerolog.Logger
}

// NewSurfaceManager creates a manager in the Uninitialized state.
func NewSurfaceManager() *SurfaceManager {
	return &SurfaceManager{
		logger: log.With().Str("component", "surface_manager").Logger(),
	}
}

// Create allocates the rendering surface sized to the container's current
// dimensions and registers the resize listener. Calling Create twice without
// an intervening Destroy is a programming error and panics. On factory
// failure nothing is registered and the manager stays Uninitialized.
func (m *SurfaceManager) Create(container Container, factory SurfaceFactory, opts SurfaceOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateReady:
		panic("chart: Create called twice without Destroy")
	case stateDestroyed:
		panic("chart: Create called on a destroyed surface manager")
	}

	if opts.Logger != nil {
		m.logger = *opts.Logger
	}
	m.repr = opts.Representation
	if m.repr == "" {
		m.repr = RepLine
	}

	surface, err := factory(container.Dimensions())
	if err != nil {
		return err
	}

	cancel := container.Subscribe(m.onContainerResize)

	m.surface = surface
	m.container = container
	m.cancelResize = cancel
	m.state = stateReady
	m.logger.Debug().Msg("Surface created")
	return nil
}

// UpdateData replaces the displayed series wholesale from the bundle. Redraw
// frequency is bounded by user interaction, so no incremental diffing.
func (m *SurfaceManager) UpdateData(bundle model.AlignedBundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateReady {
		return ErrSurfaceNotReady
	}
	m.surface.SetSeries(BuildInstructions(bundle, m.repr))
	return nil
}

// SetRepresentation switches the drawing representation. The next UpdateData
// uses it; no fetch is involved.
func (m *SurfaceManager) SetRepresentation(repr Representation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repr = repr
}

// Representation returns the current drawing representation.
func (m *SurfaceManager) Representation() Representation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repr
}

// Resize re-lays-out the surface without discarding data.
func (m *SurfaceManager) Resize(dims Dimensions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateReady {
		return ErrSurfaceNotReady
	}
	m.surface.ApplyOptions(dims)
	return nil
}

// Destroy releases the surface and the resize registration. Idempotent:
// destroying an already-destroyed manager is a no-op.
func (m *SurfaceManager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateDestroyed {
		return
	}
	if m.state == stateReady {
		m.cancelResize()
		m.surface.Release()
		m.surface = nil
		m.container = nil
		m.cancelResize = nil
		m.logger.Debug().Msg("Surface destroyed")
	}
	m.state = stateDestroyed
}

// onContainerResize reads the container's dimensions at fire time so the
// surface never lays out against stale dimensions.
func (m *SurfaceManager) onContainerResize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateReady {
		return
	}
	m.surface.ApplyOptions(m.container.Dimensions())
}
