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

package hwy

// FirstN returns an n-lane mask whose first k lanes are set.
// k is clamped to [0, n].
func FirstN[T Lanes](n, k int) Mask[T] {
	m := Mask[T]{bits: make([]bool, n)}
	FirstNInto(m, k)
	return m
}

// FirstNInto sets the first k lanes of dst and clears the rest.
func FirstNInto[T Lanes](dst Mask[T], k int) {
	for i := range dst.bits {
		dst.bits[i] = i < k
	}
}

// MaskAnd returns a & b.
func MaskAnd[T Lanes](a, b Mask[T]) Mask[T] {
	dst := Mask[T]{bits: make([]bool, min(len(a.bits), len(b.bits)))}
	MaskAndInto(dst, a, b)
	return dst
}

// MaskAndInto computes dst = a & b.
func MaskAndInto[T Lanes](dst, a, b Mask[T]) {
	n := min(len(dst.bits), len(a.bits), len(b.bits))
	for i := 0; i < n; i++ {
		dst.bits[i] = a.bits[i] && b.bits[i]
	}
}

// MaskNot returns the lane-wise complement of m.
func MaskNot[T Lanes](m Mask[T]) Mask[T] {
	bits := make([]bool, len(m.bits))
	for i, b := range m.bits {
		bits[i] = !b
	}
	return Mask[T]{bits: bits}
}

// AllFalse reports whether no lane of m is set.
func AllFalse[T Lanes](m Mask[T]) bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// AllTrue reports whether every lane of m is set.
func AllTrue[T Lanes](m Mask[T]) bool {
	for _, b := range m.bits {
		if !b {
			return false
		}
	}
	return true
}

// CountTrue returns the number of set lanes.
func CountTrue[T Lanes](m Mask[T]) int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// RebindMask reinterprets m as a mask for vectors of element type D with the
// same lane count. The result shares storage with m.
func RebindMask[D, S Lanes](m Mask[S]) Mask[D] {
	return Mask[D]{bits: m.bits}
}
