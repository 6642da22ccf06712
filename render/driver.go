package render

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/hwy-mandel/hwy/contrib/workerpool"
	"github.com/ajroetker/hwy-mandel/mandel"
)

// Driver runs the frame loop: it owns the viewport, applies navigation
// input between frames and presents each finished frame on a Surface.
//
// Input may arrive from any goroutine at any time. Redraw takes a snapshot
// of the viewport before computing, so input that arrives during a frame
// only takes effect on the next Redraw and a frame never mixes two
// viewports.
type Driver struct {
	renderer *Renderer
	exec     workerpool.Executor
	surface  Surface

	// frameMu serialises Redraw.
	frameMu sync.Mutex

	mu sync.Mutex
	vp mandel.Viewport

	frames atomic.Uint64

	// OnPresent, if set, is called after each presented frame with the
	// viewport it was computed from. It runs on the Redraw goroutine.
	OnPresent func(vp mandel.Viewport)
}

// NewDriver returns a Driver starting at vp.
func NewDriver(r *Renderer, exec workerpool.Executor, s Surface, vp mandel.Viewport) (*Driver, error) {
	if err := vp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	Logger().Info("driver started",
		"width", r.grid.Width,
		"height", r.grid.Height,
		"max_iter", r.maxIter,
		"lanes", r.lanes,
		"workers", exec.NumWorkers())
	return &Driver{renderer: r, exec: exec, surface: s, vp: vp}, nil
}

// Viewport returns the viewport the next frame will use.
func (d *Driver) Viewport() mandel.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vp
}

// SetViewport replaces the viewport.
func (d *Driver) SetViewport(vp mandel.Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	d.vp = vp
	d.mu.Unlock()
	return nil
}

// Pan moves the viewport by (dx, dy) pan units.
func (d *Driver) Pan(dx, dy float64) {
	d.mu.Lock()
	d.vp = d.vp.Pan(dx, dy)
	d.mu.Unlock()
}

// Zoom zooms in by steps factors of mandel.ZoomFactor; negative steps zoom
// out. A step that would leave the zoom non-positive or infinite is ignored.
func (d *Driver) Zoom(steps int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.vp.ZoomBy(math.Pow(mandel.ZoomFactor, float64(steps)))
	if next.Validate() == nil {
		d.vp = next
	}
}

// HandleKey applies a key press and reports whether the key is bound.
// Arrow keys pan, "+" and "=" zoom in, "-" zooms out.
func (d *Driver) HandleKey(key string) bool {
	switch key {
	case "ArrowUp", "Up":
		d.Pan(0, -1)
	case "ArrowDown", "Down":
		d.Pan(0, 1)
	case "ArrowLeft", "Left":
		d.Pan(-1, 0)
	case "ArrowRight", "Right":
		d.Pan(1, 0)
	case "+", "=":
		d.Zoom(1)
	case "-":
		d.Zoom(-1)
	default:
		return false
	}
	return true
}

// HandleWheel zooms in for an upward scroll (dy > 0) and out for a
// downward one.
func (d *Driver) HandleWheel(dy float64) {
	switch {
	case dy > 0:
		d.Zoom(1)
	case dy < 0:
		d.Zoom(-1)
	}
}

// Frames returns the number of frames presented.
func (d *Driver) Frames() uint64 {
	return d.frames.Load()
}

// Redraw computes a frame for the current viewport and presents it. If the
// frame cannot be computed, nothing is presented, the previous frame stays
// visible and the error is returned; retrying is up to the caller.
func (d *Driver) Redraw(ctx context.Context) error {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	vp := d.Viewport()

	buf, err := d.surface.Lock()
	if err != nil {
		Logger().Warn("frame aborted", "stage", "lock", "err", err)
		return fmt.Errorf("redraw: lock surface: %w", err)
	}
	if err := d.renderer.ComputeFrame(ctx, d.exec, vp, buf); err != nil {
		Logger().Warn("frame aborted", "stage", "compute", "err", err)
		return fmt.Errorf("redraw: %w", err)
	}
	if err := d.surface.Present(); err != nil {
		Logger().Warn("frame aborted", "stage", "present", "err", err)
		return fmt.Errorf("redraw: present: %w", err)
	}

	n := d.frames.Add(1)
	Logger().Debug("frame presented", "frame", n, "offset_x", vp.OffsetX, "offset_y", vp.OffsetY, "zoom", vp.Zoom)
	if d.OnPresent != nil {
		d.OnPresent(vp)
	}
	return nil
}
