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

import (
	"math"
	"testing"
)

func TestLoadStore(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	v := Load(src)
	if v.NumLanes() != 4 {
		t.Fatalf("NumLanes = %d, want 4", v.NumLanes())
	}

	// Load copies; mutating the source must not affect the vector.
	src[0] = 100
	if v.GetLane(0) != 1 {
		t.Errorf("lane 0 = %v after source mutation, want 1", v.GetLane(0))
	}

	dst := make([]float64, 3)
	Store(v, dst)
	for i, want := range []float64{1, 2, 3} {
		if dst[i] != want {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestSetZero(t *testing.T) {
	v := SetN(5, int64(7))
	for i := range v.NumLanes() {
		if v.GetLane(i) != 7 {
			t.Errorf("SetN lane %d = %d, want 7", i, v.GetLane(i))
		}
	}
	SetInto(v, 3)
	if ReduceSum(v) != 15 {
		t.Errorf("ReduceSum after SetInto = %d, want 15", ReduceSum(v))
	}

	z := Zero[float64]()
	if z.NumLanes() != MaxLanes[float64]() {
		t.Errorf("Zero lanes = %d, want %d", z.NumLanes(), MaxLanes[float64]())
	}
	if ReduceSum(z) != 0 {
		t.Errorf("Zero sum = %v, want 0", ReduceSum(z))
	}
}

func TestArithmetic(t *testing.T) {
	a := Load([]float64{1, -2, 3.5, 0})
	b := Load([]float64{4, 5, -1, 2})

	tests := []struct {
		name string
		got  Vec[float64]
		want []float64
	}{
		{"Add", Add(a, b), []float64{5, 3, 2.5, 2}},
		{"Sub", Sub(a, b), []float64{-3, -7, 4.5, -2}},
		{"Mul", Mul(a, b), []float64{4, -10, -3.5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.NumLanes() != len(tt.want) {
				t.Fatalf("NumLanes = %d, want %d", tt.got.NumLanes(), len(tt.want))
			}
			for i, w := range tt.want {
				if tt.got.GetLane(i) != w {
					t.Errorf("lane %d = %v, want %v", i, tt.got.GetLane(i), w)
				}
			}
		})
	}
}

func TestIntoAliasing(t *testing.T) {
	// dst aliasing an operand is the common in-place update pattern.
	a := Load([]float64{1, 2, 3, 4})
	b := Load([]float64{10, 20, 30, 40})
	AddInto(a, a, b)
	MulInto(a, a, a)
	want := []float64{121, 484, 1089, 1936}
	for i, w := range want {
		if a.GetLane(i) != w {
			t.Errorf("lane %d = %v, want %v", i, a.GetLane(i), w)
		}
	}
}

func TestMismatchedLengths(t *testing.T) {
	a := Load([]int32{1, 2, 3})
	b := Load([]int32{1, 1})
	sum := Add(a, b)
	if sum.NumLanes() != 2 {
		t.Fatalf("NumLanes = %d, want 2", sum.NumLanes())
	}
	if sum.GetLane(0) != 2 || sum.GetLane(1) != 3 {
		t.Errorf("sum = [%d %d], want [2 3]", sum.GetLane(0), sum.GetLane(1))
	}
}

func TestComparisons(t *testing.T) {
	nan := math.NaN()
	a := Load([]float64{1, 4, 5, nan, math.Inf(1)})
	four := SetN(5, 4.0)

	lt := LessThan(a, four)
	ge := GreaterEqual(a, four)
	wantLT := []bool{true, false, false, false, false}
	wantGE := []bool{false, true, true, false, true}
	for i := range wantLT {
		if lt.GetBit(i) != wantLT[i] {
			t.Errorf("LessThan lane %d = %v, want %v", i, lt.GetBit(i), wantLT[i])
		}
		if ge.GetBit(i) != wantGE[i] {
			t.Errorf("GreaterEqual lane %d = %v, want %v", i, ge.GetBit(i), wantGE[i])
		}
	}
}

func TestIfThenElse(t *testing.T) {
	m := FirstN[float64](4, 2)
	got := IfThenElse(m, SetN(4, 1.0), SetN(4, 2.0))
	want := []float64{1, 1, 2, 2}
	for i, w := range want {
		if got.GetLane(i) != w {
			t.Errorf("lane %d = %v, want %v", i, got.GetLane(i), w)
		}
	}
}

func TestMaskedAddInto(t *testing.T) {
	counts := ZeroN[int64](4)
	one := SetN(4, int64(1))
	active := RebindMask[int64](LessThan(
		Load([]float64{0, 5, 1, 9}),
		SetN(4, 4.0),
	))
	for range 3 {
		MaskedAddInto(counts, active, counts, one)
	}
	want := []int64{3, 0, 3, 0}
	for i, w := range want {
		if counts.GetLane(i) != w {
			t.Errorf("lane %d = %d, want %d", i, counts.GetLane(i), w)
		}
	}
}

func TestMaskOps(t *testing.T) {
	tests := []struct {
		name             string
		n, k             int
		allTrue, allFals bool
		count            int
	}{
		{"none", 4, 0, false, true, 0},
		{"some", 4, 3, false, false, 3},
		{"all", 4, 4, true, false, 4},
		{"clamped", 4, 9, true, false, 4},
		{"negative", 4, -1, false, true, 0},
		{"single lane", 1, 1, true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FirstN[float64](tt.n, tt.k)
			if got := AllTrue(m); got != tt.allTrue {
				t.Errorf("AllTrue = %v, want %v", got, tt.allTrue)
			}
			if got := AllFalse(m); got != tt.allFals {
				t.Errorf("AllFalse = %v, want %v", got, tt.allFals)
			}
			if got := CountTrue(m); got != tt.count {
				t.Errorf("CountTrue = %d, want %d", got, tt.count)
			}
			if got := CountTrue(MaskNot(m)); got != tt.n-tt.count {
				t.Errorf("CountTrue(MaskNot) = %d, want %d", got, tt.n-tt.count)
			}
		})
	}

	a := FirstN[int64](4, 3)
	b := MaskNot(FirstN[int64](4, 1))
	and := MaskAnd(a, b)
	want := []bool{false, true, true, false}
	for i, w := range want {
		if and.GetBit(i) != w {
			t.Errorf("MaskAnd lane %d = %v, want %v", i, and.GetBit(i), w)
		}
	}
}

func TestRebindMaskSharesStorage(t *testing.T) {
	m := FirstN[float64](4, 0)
	r := RebindMask[int64](m)
	FirstNInto(m, 2)
	if CountTrue(r) != 2 {
		t.Errorf("CountTrue(rebound) = %d, want 2", CountTrue(r))
	}
}
