package render

import (
	"fmt"
	"image"

	"github.com/ajroetker/hwy-mandel/palette"
)

// Grid is the size of the sample grid, one sample per output pixel.
type Grid struct {
	Width, Height int
}

// Validate reports whether g has a positive size.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalidConfig, g.Width, g.Height)
	}
	return nil
}

// Buffer is a row-major surface of packed RGBA8888 pixels. Stride is the
// distance between rows in bytes and may exceed Width*4 when rows are padded,
// so pixel (x, y) lives at Pix[y*(Stride/4)+x].
type Buffer struct {
	Pix    []uint32
	Stride int
	Width  int
	Height int
}

// NewBuffer allocates a Buffer with unpadded rows.
func NewBuffer(width, height int) *Buffer {
	return NewPaddedBuffer(width, height, 0)
}

// NewPaddedBuffer allocates a Buffer whose rows carry pad extra pixels.
func NewPaddedBuffer(width, height, pad int) *Buffer {
	stride := (width + max(pad, 0)) * 4
	return &Buffer{
		Pix:    make([]uint32, stride/4*height),
		Stride: stride,
		Width:  width,
		Height: height,
	}
}

// Validate checks that every pixel of the Width × Height area is addressable.
func (b *Buffer) Validate() error {
	switch {
	case b.Width <= 0 || b.Height <= 0:
		return fmt.Errorf("buffer %dx%d must be positive", b.Width, b.Height)
	case b.Stride%4 != 0:
		return fmt.Errorf("buffer stride %d is not a multiple of 4 bytes", b.Stride)
	case b.Stride < b.Width*4:
		return fmt.Errorf("buffer stride %d is shorter than a %d pixel row", b.Stride, b.Width)
	case len(b.Pix) < (b.Height-1)*(b.Stride/4)+b.Width:
		return fmt.Errorf("buffer holds %d pixels, need %d", len(b.Pix), (b.Height-1)*(b.Stride/4)+b.Width)
	}
	return nil
}

// Row returns the Width pixels of row y.
func (b *Buffer) Row(y int) []uint32 {
	start := y * (b.Stride / 4)
	return b.Pix[start : start+b.Width]
}

// At returns the packed pixel at (x, y).
func (b *Buffer) At(x, y int) uint32 {
	return b.Pix[y*(b.Stride/4)+x]
}

// CopyFrom copies the visible pixels of src, which must have the same size.
func (b *Buffer) CopyFrom(src *Buffer) {
	for y := range b.Height {
		copy(b.Row(y), src.Row(y))
	}
}

// RGBA converts the buffer into a new image.RGBA.
func (b *Buffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := range b.Height {
		row := b.Row(y)
		off := y * img.Stride
		for x, c := range row {
			r, g, bl, a := palette.Unpack(c)
			img.Pix[off+4*x+0] = r
			img.Pix[off+4*x+1] = g
			img.Pix[off+4*x+2] = bl
			img.Pix[off+4*x+3] = a
		}
	}
	return img
}
