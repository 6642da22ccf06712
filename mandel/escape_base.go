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

package mandel

import (
	"fmt"

	"github.com/ajroetker/hwy-mandel/hwy"
)

// DefaultLanes is the batch width used when none is configured. Four
// float64 lanes fill one 256-bit register.
const DefaultLanes = 4

// escapeRadiusSq is the squared escape radius. A lane keeps iterating while
// zr²+zi² < escapeRadiusSq.
const escapeRadiusSq = 4.0

// Evaluator computes escape-time counts for batches of up to Lanes() points
// in lock-step. It owns the lane state for one batch at a time and resets it
// on every call, so results never depend on earlier calls.
//
// An Evaluator is not safe for concurrent use. Give each worker its own.
type Evaluator struct {
	lanes int

	cr, ci   hwy.Vec[float64]
	zr, zi   hwy.Vec[float64]
	zr2, zi2 hwy.Vec[float64]
	re, im   hwy.Vec[float64]
	two      hwy.Vec[float64]
	radius   hwy.Vec[float64]

	// active is set for lanes that are still iterating; inside is the
	// current step's bound test. counting shares storage with active.
	active   hwy.Mask[float64]
	inside   hwy.Mask[float64]
	counting hwy.Mask[int64]

	count hwy.Vec[int64]
	one   hwy.Vec[int64]
}

// NewEvaluator returns an Evaluator for batches of the given width.
// If lanes is 0 or negative, the detected vector width for float64 is used.
func NewEvaluator(lanes int) *Evaluator {
	if lanes <= 0 {
		lanes = hwy.MaxLanes[float64]()
	}

	e := &Evaluator{
		lanes:  lanes,
		cr:     hwy.ZeroN[float64](lanes),
		ci:     hwy.ZeroN[float64](lanes),
		zr:     hwy.ZeroN[float64](lanes),
		zi:     hwy.ZeroN[float64](lanes),
		zr2:    hwy.ZeroN[float64](lanes),
		zi2:    hwy.ZeroN[float64](lanes),
		re:     hwy.ZeroN[float64](lanes),
		im:     hwy.ZeroN[float64](lanes),
		two:    hwy.SetN(lanes, 2.0),
		radius: hwy.SetN(lanes, escapeRadiusSq),
		active: hwy.FirstN[float64](lanes, 0),
		inside: hwy.FirstN[float64](lanes, 0),
		count:  hwy.ZeroN[int64](lanes),
		one:    hwy.SetN(lanes, int64(1)),
	}
	e.counting = hwy.RebindMask[int64](e.active)
	return e
}

// Lanes returns the batch width.
func (e *Evaluator) Lanes() int {
	return e.lanes
}

// Evaluate computes the escape-time count of each point (cReal[i], cImag[i])
// and stores it in out[i].
//
// A point's count is the number of steps z ← z² + c taken from z = 0 while
// |z|² < 4, capped at maxIter; points that never escape get exactly maxIter.
// A maxIter of 0 or less gives 0 for every point without iterating. Infinite
// or NaN magnitudes count as escaped.
//
// Batches shorter than Lanes() are allowed; the unused lanes start inactive.
// PRECONDITION: len(cImag) == len(cReal) <= Lanes() and len(out) >= len(cReal).
func (e *Evaluator) Evaluate(cReal, cImag []float64, maxIter int, out []int) {
	n := len(cReal)
	if n > e.lanes || len(cImag) != n || len(out) < n {
		panic(fmt.Sprintf("mandel: batch of %d/%d points (out %d) does not fit %d lanes",
			n, len(cImag), len(out), e.lanes))
	}

	hwy.SetInto(e.cr, 0)
	hwy.SetInto(e.ci, 0)
	hwy.LoadInto(e.cr, cReal)
	hwy.LoadInto(e.ci, cImag)
	hwy.SetInto(e.zr, 0)
	hwy.SetInto(e.zi, 0)
	hwy.SetInto(e.count, 0)
	hwy.FirstNInto(e.active, n)

	for step := 0; step < maxIter; step++ {
		hwy.MulInto(e.zr2, e.zr, e.zr)
		hwy.MulInto(e.zi2, e.zi, e.zi)
		hwy.AddInto(e.re, e.zr2, e.zi2)
		hwy.LessThanInto(e.inside, e.re, e.radius)

		// active only ever goes from set to clear: an escaped lane is frozen
		// and stays escaped even if its bound test were to change.
		hwy.MaskAndInto(e.active, e.active, e.inside)
		if hwy.AllFalse(e.active) {
			break
		}

		// im = 2·zr·zi + ci
		hwy.MulInto(e.im, e.zr, e.zi)
		hwy.MulInto(e.im, e.two, e.im)
		hwy.AddInto(e.im, e.im, e.ci)

		// re = zr² − zi² + cr
		hwy.SubInto(e.re, e.zr2, e.zi2)
		hwy.AddInto(e.re, e.re, e.cr)

		hwy.IfThenElseInto(e.zr, e.active, e.re, e.zr)
		hwy.IfThenElseInto(e.zi, e.active, e.im, e.zi)
		hwy.MaskedAddInto(e.count, e.counting, e.count, e.one)
	}

	for i := range n {
		out[i] = int(e.count.GetLane(i))
	}
}

// EvaluateBatch returns the escape-time counts of the points
// (cReal[i], cImag[i]), evaluating them together as one batch.
// It uses no shared state and is safe for concurrent use.
func EvaluateBatch(cReal, cImag []float64, maxIter int) []int {
	out := make([]int, len(cReal))
	if len(cReal) == 0 {
		return out
	}
	NewEvaluator(len(cReal)).Evaluate(cReal, cImag, maxIter, out)
	return out
}
