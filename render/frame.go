// Package render computes full escape-time frames into pixel buffers.
//
// A frame is split into contiguous row ranges, one per worker of a
// workerpool.Executor. Each worker owns a mandel.Evaluator and writes only
// the rows of its range, so the buffer needs no locking; the frame is
// complete when ParallelFor returns. Driver adds the interactive loop on
// top: it snapshots the viewport, computes into a Surface's back buffer and
// presents only finished frames.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajroetker/hwy-mandel/hwy"
	"github.com/ajroetker/hwy-mandel/hwy/contrib/workerpool"
	"github.com/ajroetker/hwy-mandel/mandel"
	"github.com/ajroetker/hwy-mandel/palette"
)

// ErrInvalidConfig wraps every configuration error reported by this package.
var ErrInvalidConfig = errors.New("render: invalid configuration")

// Options configures a Renderer.
type Options struct {
	Grid    Grid
	MaxIter int

	// Lanes is the evaluator batch width. Zero selects the detected vector
	// width for float64.
	Lanes int
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	var errs []error
	if err := o.Grid.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.MaxIter <= 0 {
		errs = append(errs, fmt.Errorf("%w: iteration cap %d must be positive", ErrInvalidConfig, o.MaxIter))
	}
	if o.Lanes < 0 {
		errs = append(errs, fmt.Errorf("%w: lane width %d must not be negative", ErrInvalidConfig, o.Lanes))
	}
	return errors.Join(errs...)
}

// Renderer computes frames for a fixed grid and iteration cap. It holds no
// per-frame state and is safe for concurrent use.
type Renderer struct {
	grid    Grid
	maxIter int
	lanes   int
	colors  *palette.Table
}

// NewRenderer validates opts and precomputes the color table.
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lanes := opts.Lanes
	if lanes == 0 {
		lanes = hwy.MaxLanes[float64]()
	}
	return &Renderer{
		grid:    opts.Grid,
		maxIter: opts.MaxIter,
		lanes:   lanes,
		colors:  palette.NewTable(opts.MaxIter),
	}, nil
}

// Grid returns the grid size.
func (r *Renderer) Grid() Grid { return r.grid }

// MaxIter returns the iteration cap.
func (r *Renderer) MaxIter() int { return r.maxIter }

// Lanes returns the evaluator batch width.
func (r *Renderer) Lanes() int { return r.lanes }

// ComputeFrame fills buf with the frame seen through vp, splitting rows
// across exec. It returns after every worker has finished.
//
// vp must not change while the call runs; pass a copy. An error means the
// frame was not computed; buf may then hold a mix of old and new rows and
// must not be presented.
func (r *Renderer) ComputeFrame(ctx context.Context, exec workerpool.Executor, vp mandel.Viewport, buf *Buffer) error {
	if err := vp.Validate(); err != nil {
		return fmt.Errorf("compute frame: %w", err)
	}
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("compute frame: %w", err)
	}
	if buf.Width != r.grid.Width || buf.Height != r.grid.Height {
		return fmt.Errorf("compute frame: buffer %dx%d does not match grid %dx%d",
			buf.Width, buf.Height, r.grid.Width, r.grid.Height)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("compute frame: %w", err)
	}

	start := time.Now()
	err := exec.ParallelFor(r.grid.Height, func(rowStart, rowEnd int) {
		r.computeRows(vp, buf, rowStart, rowEnd)
	})
	if err != nil {
		return fmt.Errorf("compute frame: %w", err)
	}

	Logger().Debug("frame computed",
		"width", r.grid.Width,
		"height", r.grid.Height,
		"workers", exec.NumWorkers(),
		"lanes", r.lanes,
		"elapsed", time.Since(start))
	return nil
}

// computeRows renders rows [rowStart, rowEnd). It touches only those rows
// of buf.
func (r *Renderer) computeRows(vp mandel.Viewport, buf *Buffer, rowStart, rowEnd int) {
	w, h := r.grid.Width, r.grid.Height
	ev := mandel.NewEvaluator(r.lanes)
	cr := make([]float64, r.lanes)
	ci := make([]float64, r.lanes)
	counts := make([]int, r.lanes)

	for row := rowStart; row < rowEnd; row++ {
		out := buf.Row(row)
		for col := 0; col < w; col += r.lanes {
			n := min(r.lanes, w-col)
			for i := range n {
				cr[i], ci[i] = mandel.MapToComplex(col+i, row, w, h, vp)
			}
			ev.Evaluate(cr[:n], ci[:n], r.maxIter, counts)
			for i := range n {
				out[col+i] = r.colors.Lookup(counts[i])
			}
		}
	}
}

// ComputeFrame renders one frame with a fresh goroutine per row range. It is
// the one-shot form of Renderer.ComputeFrame for callers without a pool.
func ComputeFrame(opts Options, vp mandel.Viewport, buf *Buffer, workers int) error {
	if workers <= 0 {
		return fmt.Errorf("%w: worker count %d must be positive", ErrInvalidConfig, workers)
	}
	r, err := NewRenderer(opts)
	if err != nil {
		return err
	}
	return r.ComputeFrame(context.Background(), workerpool.Spawn(workers), vp, buf)
}
