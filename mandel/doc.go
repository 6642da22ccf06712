// Package mandel computes Mandelbrot escape-time counts.
//
// # Escape time
//
// For a point c of the complex plane the recurrence z ← z² + c is iterated
// from z = 0. The escape-time count is the number of steps taken while
// |z|² < 4, capped at a maximum. Points that never leave the disc of radius 2
// within the cap are presumed to belong to the set and report the cap.
//
// # Lane kernel
//
// Evaluator processes a batch of points in lock-step lanes built on the
// hwy package. Every step runs the same operations on every lane; an active
// mask records which lanes are still iterating, and escaped lanes keep their
// z and count frozen through masked updates instead of branches. The batch
// stops as soon as no lane is active. Lanes that escape early therefore cost
// idle work until the slowest lane in their batch finishes; that is the price
// of keeping the lanes in lock-step.
//
// EscapeTime is the scalar reference. Both paths round every operation
// separately and share the continue-while-below-4 test, so they agree
// exactly, including at the boundary.
//
// # Sample mapping
//
// MapToComplex places a width × height grid over the plane so that the grid
// centre sits at the viewport offset and the real axis spans 4/zoom units.
//
// Example:
//
//	ev := mandel.NewEvaluator(mandel.DefaultLanes)
//	cr := make([]float64, 4)
//	ci := make([]float64, 4)
//	for i := range 4 {
//	    cr[i], ci[i] = mandel.MapToComplex(i, 0, 4, 1, mandel.DefaultViewport)
//	}
//	counts := make([]int, 4)
//	ev.Evaluate(cr, ci, 50, counts)
package mandel
