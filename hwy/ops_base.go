package hwy

// This file provides pure Go (scalar) implementations of the lane operations.
// Each lane is processed by the same loop body, so the compiler can keep the
// loops branch-free apart from the select in IfThenElse.
//
// Length mismatches are not errors: an operation processes the lanes that
// every operand has, matching Highway's behaviour for partial vectors.
//
// Floating-point results pass through an explicit T(...) conversion. Go may
// otherwise fuse a multiply and a following add into one FMA, which would
// make lane results depend on how a kernel was split into operations.

// Load creates a vector with one lane per element of src.
func Load[T Lanes](src []T) Vec[T] {
	data := make([]T, len(src))
	copy(data, src)
	return Vec[T]{data: data}
}

// LoadInto copies src into the lanes of dst.
func LoadInto[T Lanes](dst Vec[T], src []T) {
	copy(dst.data, src)
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := len(v.data)
	if len(dst) < n {
		n = len(dst)
	}
	copy(dst[:n], v.data[:n])
}

// Set creates a vector of MaxLanes lanes all set to value.
func Set[T Lanes](value T) Vec[T] {
	return SetN(MaxLanes[T](), value)
}

// SetN creates a vector of n lanes all set to value.
func SetN[T Lanes](n int, value T) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// SetInto sets every lane of dst to value.
func SetInto[T Lanes](dst Vec[T], value T) {
	for i := range dst.data {
		dst.data[i] = value
	}
}

// Zero creates a vector of MaxLanes lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return ZeroN[T](MaxLanes[T]())
}

// ZeroN creates a vector of n lanes set to zero.
func ZeroN[T Lanes](n int) Vec[T] {
	return Vec[T]{data: make([]T, n)}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	dst := ZeroN[T](min(len(a.data), len(b.data)))
	AddInto(dst, a, b)
	return dst
}

// AddInto computes dst = a + b.
func AddInto[T Lanes](dst, a, b Vec[T]) {
	n := min(len(dst.data), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		dst.data[i] = T(a.data[i] + b.data[i])
	}
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	dst := ZeroN[T](min(len(a.data), len(b.data)))
	SubInto(dst, a, b)
	return dst
}

// SubInto computes dst = a - b.
func SubInto[T Lanes](dst, a, b Vec[T]) {
	n := min(len(dst.data), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		dst.data[i] = T(a.data[i] - b.data[i])
	}
}

// Mul performs element-wise multiplication.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	dst := ZeroN[T](min(len(a.data), len(b.data)))
	MulInto(dst, a, b)
	return dst
}

// MulInto computes dst = a * b.
func MulInto[T Lanes](dst, a, b Vec[T]) {
	n := min(len(dst.data), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		dst.data[i] = T(a.data[i] * b.data[i])
	}
}

// MaskedAddInto computes dst = a + b on lanes where m is set and dst = a on
// the others.
func MaskedAddInto[T Lanes](dst Vec[T], m Mask[T], a, b Vec[T]) {
	n := min(len(dst.data), len(m.bits), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		if m.bits[i] {
			dst.data[i] = T(a.data[i] + b.data[i])
		} else {
			dst.data[i] = a.data[i]
		}
	}
}

// ReduceSum sums all lanes.
func ReduceSum[T Lanes](v Vec[T]) T {
	var sum T
	for i := 0; i < len(v.data); i++ {
		sum += v.data[i]
	}
	return sum
}

// LessThan performs element-wise less-than comparison.
func LessThan[T Lanes](a, b Vec[T]) Mask[T] {
	dst := Mask[T]{bits: make([]bool, min(len(a.data), len(b.data)))}
	LessThanInto(dst, a, b)
	return dst
}

// LessThanInto sets dst to a < b. NaN lanes compare false.
func LessThanInto[T Lanes](dst Mask[T], a, b Vec[T]) {
	n := min(len(dst.bits), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		dst.bits[i] = a.data[i] < b.data[i]
	}
}

// GreaterEqual performs element-wise greater-or-equal comparison.
func GreaterEqual[T Lanes](a, b Vec[T]) Mask[T] {
	dst := Mask[T]{bits: make([]bool, min(len(a.data), len(b.data)))}
	GreaterEqualInto(dst, a, b)
	return dst
}

// GreaterEqualInto sets dst to a >= b. NaN lanes compare false.
func GreaterEqualInto[T Lanes](dst Mask[T], a, b Vec[T]) {
	n := min(len(dst.bits), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		dst.bits[i] = a.data[i] >= b.data[i]
	}
}

// IfThenElse performs conditional selection.
func IfThenElse[T Lanes](mask Mask[T], a, b Vec[T]) Vec[T] {
	dst := ZeroN[T](min(len(mask.bits), len(a.data), len(b.data)))
	IfThenElseInto(dst, mask, a, b)
	return dst
}

// IfThenElseInto sets dst to a on lanes where mask is set and to b elsewhere.
func IfThenElseInto[T Lanes](dst Vec[T], mask Mask[T], a, b Vec[T]) {
	n := min(len(dst.data), len(mask.bits), len(a.data), len(b.data))
	for i := 0; i < n; i++ {
		if mask.bits[i] {
			dst.data[i] = a.data[i]
		} else {
			dst.data[i] = b.data[i]
		}
	}
}
