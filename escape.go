// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

// Bounded is the iteration count reported for points whose orbit did not
// escape within the iteration cap.
const Bounded = -1

// escapeRadiusSq is the squared escape radius (|z| > 2).
const escapeRadiusSq = 4.0

// Iterate returns the escape time of c = cReal + cImag·i under z ← z² + c.
//
// The orbit starts at z = c. At step n the squared magnitude of the current
// z is tested before z is advanced; if it exceeds 4 the function returns n.
// If maxIter steps pass without escape, Bounded is returned. The result is
// therefore either Bounded or in [0, maxIter). A maxIter of zero or less
// never enters the loop and classifies every point as bounded.
//
// Iterate is pure and safe for concurrent use.
func Iterate(cReal, cImag float64, maxIter int) int {
	re, im := cReal, cImag
	for n := 0; n < maxIter; n++ {
		re2 := re * re
		im2 := im * im
		im = 2*re*im + cImag
		re = re2 - im2 + cReal

		if re2+im2 > escapeRadiusSq {
			return n
		}
	}
	return Bounded
}
