package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/hwy-mandel/hwy/contrib/workerpool"
	"github.com/ajroetker/hwy-mandel/mandel"
	"github.com/ajroetker/hwy-mandel/palette"
)

const sentinel = 0xDEADBEEF

// referenceFrame renders the grid one pixel at a time with the scalar
// reference.
func referenceFrame(opts Options, vp mandel.Viewport) *Buffer {
	w, h := opts.Grid.Width, opts.Grid.Height
	buf := NewBuffer(w, h)
	for y := range h {
		for x := range w {
			cr, ci := mandel.MapToComplex(x, y, w, h, vp)
			buf.Pix[y*w+x] = palette.Packed(mandel.EscapeTime(cr, ci, opts.MaxIter), opts.MaxIter)
		}
	}
	return buf
}

func fillPadding(buf *Buffer) {
	for i := range buf.Pix {
		buf.Pix[i] = sentinel
	}
}

func checkPadding(t *testing.T, buf *Buffer) {
	t.Helper()
	stride := buf.Stride / 4
	for y := range buf.Height {
		for x := buf.Width; x < stride; x++ {
			if got := buf.Pix[y*stride+x]; got != sentinel {
				t.Fatalf("padding at (%d, %d) overwritten with %#08x", x, y, got)
			}
		}
	}
}

func visible(buf *Buffer) [][]uint32 {
	rows := make([][]uint32, buf.Height)
	for y := range rows {
		rows[y] = append([]uint32(nil), buf.Row(y)...)
	}
	return rows
}

func TestComputeFrameMatchesReference(t *testing.T) {
	vp := mandel.Viewport{OffsetX: -0.7436, OffsetY: 0.1318, Zoom: 40}
	testCases := []struct {
		name  string
		opts  Options
		pad   int
		works int
	}{
		{"4 lanes even width", Options{Grid: Grid{64, 40}, MaxIter: 200, Lanes: 4}, 0, 4},
		{"4 lanes with row tail", Options{Grid: Grid{67, 33}, MaxIter: 150, Lanes: 4}, 5, 3},
		{"scalar lanes", Options{Grid: Grid{31, 17}, MaxIter: 100, Lanes: 1}, 1, 2},
		{"wide lanes", Options{Grid: Grid{50, 20}, MaxIter: 300, Lanes: 8}, 2, 7},
		{"detected lanes", Options{Grid: Grid{45, 21}, MaxIter: 120}, 0, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want := referenceFrame(tc.opts, vp)

			buf := NewPaddedBuffer(tc.opts.Grid.Width, tc.opts.Grid.Height, tc.pad)
			fillPadding(buf)
			if err := ComputeFrame(tc.opts, vp, buf, tc.works); err != nil {
				t.Fatalf("ComputeFrame: %v", err)
			}
			if diff := cmp.Diff(visible(want), visible(buf)); diff != "" {
				t.Errorf("frame differs from reference (-want +got):\n%s", diff)
			}
			checkPadding(t, buf)
		})
	}
}

// TestComputeFrameWorkerCountInvariant checks that the partitioning never
// changes the pixels.
func TestComputeFrameWorkerCountInvariant(t *testing.T) {
	opts := Options{Grid: Grid{Width: 101, Height: 57}, MaxIter: 256, Lanes: 4}
	vp := mandel.DefaultViewport.ZoomBy(1.7).Pan(-2, 1)

	var first []uint32
	for _, workers := range []int{1, 2, 32, 57, 64} {
		buf := NewPaddedBuffer(opts.Grid.Width, opts.Grid.Height, 3)
		if err := ComputeFrame(opts, vp, buf, workers); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if first == nil {
			first = buf.Pix
			continue
		}
		if diff := cmp.Diff(first, buf.Pix); diff != "" {
			t.Errorf("workers=%d differs from workers=1 (-1 +%d):\n%s", workers, workers, diff)
		}
	}
}

func TestComputeFrameEndToEnd(t *testing.T) {
	opts := Options{Grid: Grid{Width: 4, Height: 1}, MaxIter: 50, Lanes: 4}
	buf := NewBuffer(4, 1)
	if err := ComputeFrame(opts, mandel.DefaultViewport, buf, 1); err != nil {
		t.Fatalf("ComputeFrame: %v", err)
	}
	want := palette.Packed(1, 50)
	if diff := cmp.Diff([]uint32{want, want, want, want}, buf.Pix); diff != "" {
		t.Errorf("4x1 frame (-want +got):\n%s", diff)
	}
}

func TestComputeFrameMoreWorkersThanRows(t *testing.T) {
	opts := Options{Grid: Grid{Width: 8, Height: 3}, MaxIter: 64, Lanes: 4}
	buf := NewBuffer(8, 3)
	if err := ComputeFrame(opts, mandel.DefaultViewport, buf, 32); err != nil {
		t.Fatalf("ComputeFrame: %v", err)
	}
	if diff := cmp.Diff(visible(referenceFrame(opts, mandel.DefaultViewport)), visible(buf)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRendererWithPool(t *testing.T) {
	r, err := NewRenderer(Options{Grid: Grid{Width: 40, Height: 30}, MaxIter: 100, Lanes: 4})
	if err != nil {
		t.Fatal(err)
	}
	pool := workerpool.New(4)
	defer pool.Close()

	// The pool is reused across frames with different viewports.
	vp := mandel.DefaultViewport
	for frame := range 3 {
		buf := NewBuffer(40, 30)
		if err := r.ComputeFrame(context.Background(), pool, vp, buf); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		want := referenceFrame(Options{Grid: r.Grid(), MaxIter: r.MaxIter()}, vp)
		if diff := cmp.Diff(want.Pix, buf.Pix); diff != "" {
			t.Fatalf("frame %d (-want +got):\n%s", frame, diff)
		}
		vp = vp.ZoomBy(mandel.ZoomFactor).Pan(1, 0)
	}
}

func TestComputeFrameErrors(t *testing.T) {
	r, err := NewRenderer(Options{Grid: Grid{Width: 8, Height: 8}, MaxIter: 10, Lanes: 4})
	if err != nil {
		t.Fatal(err)
	}
	closed := workerpool.New(2)
	closed.Close()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	testCases := []struct {
		name    string
		ctx     context.Context
		exec    workerpool.Executor
		vp      mandel.Viewport
		buf     *Buffer
		wantErr error
	}{
		{"closed pool", context.Background(), closed, mandel.DefaultViewport, NewBuffer(8, 8), workerpool.ErrClosed},
		{"cancelled", cancelled, workerpool.Spawn(2), mandel.DefaultViewport, NewBuffer(8, 8), context.Canceled},
		{"size mismatch", context.Background(), workerpool.Spawn(2), mandel.DefaultViewport, NewBuffer(8, 9), nil},
		{"bad stride", context.Background(), workerpool.Spawn(2), mandel.DefaultViewport, &Buffer{Pix: make([]uint32, 64), Stride: 30, Width: 8, Height: 8}, nil},
		{"bad viewport", context.Background(), workerpool.Spawn(2), mandel.Viewport{Zoom: 0}, NewBuffer(8, 8), nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fillPadding(tc.buf)
			err := r.ComputeFrame(tc.ctx, tc.exec, tc.vp, tc.buf)
			if err == nil {
				t.Fatal("ComputeFrame succeeded")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			for i, p := range tc.buf.Pix {
				if p != sentinel {
					t.Fatalf("pixel %d written by a rejected frame", i)
				}
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		opts    Options
		wantErr bool
	}{
		{Options{Grid: Grid{800, 600}, MaxIter: 1000, Lanes: 4}, false},
		{Options{Grid: Grid{1, 1}, MaxIter: 1}, false},
		{Options{Grid: Grid{0, 600}, MaxIter: 1000}, true},
		{Options{Grid: Grid{800, -1}, MaxIter: 1000}, true},
		{Options{Grid: Grid{800, 600}, MaxIter: 0}, true},
		{Options{Grid: Grid{800, 600}, MaxIter: 10, Lanes: -4}, true},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			err := tc.opts.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%+v) = %v, wantErr %v", tc.opts, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
			if _, err := NewRenderer(tc.opts); (err != nil) != tc.wantErr {
				t.Errorf("NewRenderer err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	err := ComputeFrame(Options{Grid: Grid{4, 4}, MaxIter: 4}, mandel.DefaultViewport, NewBuffer(4, 4), 0)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ComputeFrame with 0 workers = %v, want ErrInvalidConfig", err)
	}
}

func TestBufferValidate(t *testing.T) {
	testCases := []struct {
		name    string
		buf     Buffer
		wantErr bool
	}{
		{"tight", *NewBuffer(4, 3), false},
		{"padded", *NewPaddedBuffer(4, 3, 2), false},
		{"last row may be short", Buffer{Pix: make([]uint32, 2*6+4), Stride: 24, Width: 4, Height: 3}, false},
		{"empty", Buffer{}, true},
		{"unaligned stride", Buffer{Pix: make([]uint32, 64), Stride: 18, Width: 4, Height: 3}, true},
		{"stride too short", Buffer{Pix: make([]uint32, 64), Stride: 12, Width: 4, Height: 3}, true},
		{"too few pixels", Buffer{Pix: make([]uint32, 11), Stride: 16, Width: 4, Height: 3}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.buf.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBufferRGBA(t *testing.T) {
	buf := NewPaddedBuffer(2, 2, 1)
	buf.Row(0)[0] = palette.Pack(1, 2, 3)
	buf.Row(1)[1] = palette.Pack(250, 251, 252)
	img := buf.RGBA()
	if c := img.RGBAAt(0, 0); c.R != 1 || c.G != 2 || c.B != 3 || c.A != 0xFF {
		t.Errorf("pixel (0,0) = %+v", c)
	}
	if c := img.RGBAAt(1, 1); c.R != 250 || c.G != 251 || c.B != 252 || c.A != 0xFF {
		t.Errorf("pixel (1,1) = %+v", c)
	}
}

func BenchmarkComputeFrame(b *testing.B) {
	r, err := NewRenderer(Options{Grid: Grid{Width: 800, Height: 600}, MaxIter: 256, Lanes: 4})
	if err != nil {
		b.Fatal(err)
	}
	pool := workerpool.New(0)
	defer pool.Close()
	buf := NewBuffer(800, 600)
	b.ReportAllocs()
	for b.Loop() {
		if err := r.ComputeFrame(context.Background(), pool, mandel.DefaultViewport, buf); err != nil {
			b.Fatal(err)
		}
	}
}
