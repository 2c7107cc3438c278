package chart

import (
	"errors"
	"testing"

	"github.com/stockpeek/chartsync/internal/model"
)

// recordingSurface captures every call the manager forwards to it.
type recordingSurface struct {
	applied  []Dimensions
	series   [][]DrawInstruction
	released int
}

func (s *recordingSurface) ApplyOptions(dims Dimensions)   { s.applied = append(s.applied, dims) }
func (s *recordingSurface) SetSeries(in []DrawInstruction) { s.series = append(s.series, in) }
func (s *recordingSurface) Release()                       { s.released++ }

// fakeContainer drives resize notifications by hand.
type fakeContainer struct {
	dims       Dimensions
	onResize   func()
	cancelled  int
	subscribed int
}

func (c *fakeContainer) Dimensions() Dimensions { return c.dims }

func (c *fakeContainer) Subscribe(onResize func()) (cancel func()) {
	c.onResize = onResize
	c.subscribed++
	return func() { c.cancelled++ }
}

func (c *fakeContainer) fireResize(dims Dimensions) {
	c.dims = dims
	if c.onResize != nil {
		c.onResize()
	}
}

func newReadySurface(t *testing.T) (*SurfaceManager, *recordingSurface, *fakeContainer) {
	t.Helper()
	manager := NewSurfaceManager()
	surface := &recordingSurface{}
	container := &fakeContainer{dims: Dimensions{Width: 800, Height: 400}}
	err := manager.Create(container, func(Dimensions) (Surface, error) {
		return surface, nil
	}, SurfaceOptions{Representation: RepLine})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return manager, surface, container
}

func TestSurfaceLifecycle(t *testing.T) {
	manager, surface, container := newReadySurface(t)

	bundle := Align(generateTestHistory(5), nil)
	if err := manager.UpdateData(bundle); err != nil {
		t.Fatalf("UpdateData failed: %v", err)
	}
	if len(surface.series) != 1 {
		t.Fatalf("surface received %d updates, want 1", len(surface.series))
	}

	if err := manager.Resize(Dimensions{Width: 1024, Height: 500}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(surface.applied) != 1 || surface.applied[0].Width != 1024 {
		t.Errorf("surface layout calls = %v, want one 1024 wide", surface.applied)
	}

	manager.Destroy()
	if surface.released != 1 {
		t.Errorf("Release called %d times, want 1", surface.released)
	}
	if container.cancelled != 1 {
		t.Errorf("resize registration cancelled %d times, want 1", container.cancelled)
	}
}

func TestSurfaceDestroyIdempotent(t *testing.T) {
	manager, surface, container := newReadySurface(t)

	manager.Destroy()
	manager.Destroy()

	if surface.released != 1 {
		t.Errorf("Release called %d times, want 1", surface.released)
	}
	if container.cancelled != 1 {
		t.Errorf("cancel called %d times, want 1", container.cancelled)
	}
}

func TestSurfaceDoubleCreatePanics(t *testing.T) {
	manager, _, _ := newReadySurface(t)

	defer func() {
		if recover() == nil {
			t.Error("second Create should panic")
		}
	}()
	_ = manager.Create(&fakeContainer{}, func(Dimensions) (Surface, error) {
		return &recordingSurface{}, nil
	}, SurfaceOptions{})
}

func TestSurfaceCreateFailureRegistersNothing(t *testing.T) {
	manager := NewSurfaceManager()
	container := &fakeContainer{dims: Dimensions{Width: 100, Height: 100}}

	err := manager.Create(container, func(Dimensions) (Surface, error) {
		return nil, errors.New("allocation failed")
	}, SurfaceOptions{})
	if err == nil {
		t.Fatal("Create should propagate the factory error")
	}
	if container.subscribed != 0 {
		t.Error("resize listener must not be registered when creation fails")
	}
	if err := manager.UpdateData(model.AlignedBundle{}); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("UpdateData after failed Create = %v, want ErrSurfaceNotReady", err)
	}
}

func TestSurfaceUpdateAfterDestroy(t *testing.T) {
	manager, _, _ := newReadySurface(t)
	manager.Destroy()

	if err := manager.UpdateData(model.AlignedBundle{}); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("UpdateData after Destroy = %v, want ErrSurfaceNotReady", err)
	}
	if err := manager.Resize(Dimensions{Width: 10, Height: 10}); !errors.Is(err, ErrSurfaceNotReady) {
		t.Errorf("Resize after Destroy = %v, want ErrSurfaceNotReady", err)
	}
}

func TestSurfaceResizeUsesCurrentDimensions(t *testing.T) {
	manager, surface, container := newReadySurface(t)

	// The notification fires after the container has already changed size
	// again; the layout must use the dimensions read at fire time.
	container.fireResize(Dimensions{Width: 640, Height: 480})

	if len(surface.applied) != 1 {
		t.Fatalf("surface layout calls = %d, want 1", len(surface.applied))
	}
	if surface.applied[0] != (Dimensions{Width: 640, Height: 480}) {
		t.Errorf("layout dimensions = %+v, want 640x480", surface.applied[0])
	}

	manager.Destroy()
	container.fireResize(Dimensions{Width: 320, Height: 200})
	if len(surface.applied) != 1 {
		t.Error("resize after Destroy must not reach the surface")
	}
}
