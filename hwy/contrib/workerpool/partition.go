// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

// Range is a half-open interval [Start, End) of work items, usually rows.
type Range struct {
	Start, End int
}

// Len returns the number of items in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether r holds no items.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Partition splits [0, n) into exactly workers contiguous ranges in order.
// Every range holds n/workers items and the last range also takes the
// remainder, so the ranges cover [0, n) once with no gaps or overlap. When
// workers > n the leading ranges are empty.
//
// Partition panics if workers < 1. A negative n is treated as 0.
func Partition(n, workers int) []Range {
	if workers < 1 {
		panic("workerpool: Partition needs at least one worker")
	}
	n = max(n, 0)

	per := n / workers
	ranges := make([]Range, workers)
	for i := range workers {
		start := i * per
		end := start + per
		if i == workers-1 {
			end = n
		}
		ranges[i] = Range{Start: start, End: end}
	}
	return ranges
}
