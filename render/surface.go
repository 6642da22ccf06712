package render

import (
	"image"
	"sync"
)

// Surface is the pixel surface a Driver draws into. Lock hands out the back
// buffer for the next frame; Present makes the back buffer visible. A Driver
// calls Present only after a frame has been computed completely.
type Surface interface {
	Lock() (*Buffer, error)
	Present() error
}

// MemorySurface is a double-buffered in-memory Surface. Present swaps the
// back and front buffers, so the front buffer always holds the last complete
// frame.
type MemorySurface struct {
	mu          sync.Mutex
	back, front *Buffer
	presented   uint64
}

// NewMemorySurface allocates both buffers. pad adds that many unused pixels
// to the end of every row.
func NewMemorySurface(width, height, pad int) *MemorySurface {
	return &MemorySurface{
		back:  NewPaddedBuffer(width, height, pad),
		front: NewPaddedBuffer(width, height, pad),
	}
}

// Lock returns the back buffer. Only one frame may hold it at a time.
func (s *MemorySurface) Lock() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.back, nil
}

// Present swaps the buffers.
func (s *MemorySurface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.back, s.front = s.front, s.back
	s.presented++
	return nil
}

// Presented returns the number of frames presented so far.
func (s *MemorySurface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Front returns a copy of the last presented frame.
func (s *MemorySurface) Front() *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := NewPaddedBuffer(s.front.Width, s.front.Height, s.front.Stride/4-s.front.Width)
	cp.CopyFrom(s.front)
	return cp
}

// Image returns the last presented frame as an image.
func (s *MemorySurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.front.RGBA()
}
