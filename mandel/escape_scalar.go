package mandel

// EscapeTime is the scalar reference for Evaluator: the escape-time count of
// c = cr + ci·i with the same bound test and rounding as the lane kernel.
func EscapeTime(cr, ci float64, maxIter int) int {
	var zr, zi float64
	iter := 0
	for iter < maxIter {
		// Explicit conversions stop the compiler from fusing these into
		// FMAs, which the lane kernel does not do.
		zr2 := float64(zr * zr)
		zi2 := float64(zi * zi)
		if !(zr2+zi2 < escapeRadiusSq) {
			break
		}
		zi = float64(2*float64(zr*zi)) + ci
		zr = float64(zr2-zi2) + cr
		iter++
	}
	return iter
}
