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

// Package hwy provides portable lane vectors for data-parallel kernels.
//
// A Vec holds a fixed number of lanes that are processed in lock-step: every
// operation applies the same instruction to every lane. A Mask carries one
// boolean per lane and is produced by comparisons; it selects which lanes an
// update applies to (IfThenElse) and answers batch-wide questions such as
// AllFalse.
//
// Every operation exists in two forms. The plain form (Add, Mul, LessThan,
// ...) returns a freshly allocated result. The Into form (AddInto, MulInto,
// LessThanInto, ...) writes into a destination created up front and never
// allocates, which is what hot loops should use. A destination may alias any
// of its operands.
//
// The lane count of a vector is fixed when it is created. MaxLanes reports
// the natural count for the detected CPU, but callers may pick any count
// >= 1 with SetN, ZeroN or Load.
package hwy

// Lanes is the set of element types a Vec can hold.
type Lanes interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Floats is the set of floating-point element types.
type Floats interface {
	~float32 | ~float64
}

// Vec is a group of lanes of type T.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes in v.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// GetLane returns lane i.
func (v Vec[T]) GetLane(i int) T {
	return v.data[i]
}

// Mask holds one boolean per lane. Masks are typed by the vector element
// type they were produced from so that they cannot be mixed up across
// vectors of different widths.
type Mask[T Lanes] struct {
	bits []bool
}

// NumLanes returns the number of lanes in m.
func (m Mask[T]) NumLanes() int {
	return len(m.bits)
}

// GetBit reports whether lane i is set.
func (m Mask[T]) GetBit(i int) bool {
	return m.bits[i]
}

// MaxLanes returns the number of T lanes that fit in the detected vector
// register width. It is always at least 1.
func MaxLanes[T Lanes]() int {
	var zero T
	n := currentWidth / sizeOf(zero)
	if n < 1 {
		return 1
	}
	return n
}

func sizeOf[T Lanes](v T) int {
	switch any(v).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}
