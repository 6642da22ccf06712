// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package palette maps escape-time counts to colors.
//
// Counts below the cap are spread over one turn of a sinusoid per channel,
// with the green and blue channels phase-shifted by 2π/3 and 4π/3:
//
//	t = count / maxIter
//	r = 128 + 127·sin(2πt)
//	g = 128 + 127·sin(2πt + 2π/3)
//	b = 128 + 127·sin(2πt + 4π/3)
//
// Each channel is rounded to the nearest integer. Points at the cap are
// black. Colors are packed as RGBA8888: red in the high byte, opaque alpha
// in the low byte.
package palette

import "math"

const (
	phaseG = 2 * math.Pi / 3
	phaseB = 4 * math.Pi / 3
)

// Color returns the color of an escape-time count. Counts equal to maxIter
// are black; this includes every count when maxIter <= 0.
func Color(iter, maxIter int) (r, g, b uint8) {
	if iter == maxIter || maxIter <= 0 {
		return 0, 0, 0
	}
	angle := 2 * math.Pi * float64(iter) / float64(maxIter)
	return channel(angle), channel(angle + phaseG), channel(angle + phaseB)
}

func channel(angle float64) uint8 {
	v := math.Round(128 + 127*math.Sin(angle))
	return uint8(min(max(v, 0), 255))
}

// Pack packs a color as RGBA8888 with opaque alpha.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF
}

// Unpack splits an RGBA8888 value into its channels.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Packed returns the packed color of an escape-time count.
func Packed(iter, maxIter int) uint32 {
	return Pack(Color(iter, maxIter))
}

// Table holds the packed color of every count in [0, maxIter]. Build it once
// per iteration cap and share it; it is read-only after NewTable.
type Table struct {
	maxIter int
	colors  []uint32
}

// NewTable precomputes the colors for the given iteration cap.
// A cap of 0 or less yields a table with the single entry for count 0.
func NewTable(maxIter int) *Table {
	n := max(maxIter, 0) + 1
	t := &Table{maxIter: maxIter, colors: make([]uint32, n)}
	for i := range t.colors {
		t.colors[i] = Packed(i, maxIter)
	}
	return t
}

// MaxIter returns the iteration cap the table was built for.
func (t *Table) MaxIter() int {
	return t.maxIter
}

// Lookup returns the packed color for iter. Counts outside [0, maxIter] fall
// back to Packed.
func (t *Table) Lookup(iter int) uint32 {
	if iter >= 0 && iter < len(t.colors) {
		return t.colors[iter]
	}
	return Packed(iter, t.maxIter)
}
