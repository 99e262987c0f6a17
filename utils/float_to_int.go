// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 scales a sample in [-1, 1] by 32768 and saturates the
// result to the int16 range, so 1.0 maps to 32767 and -1.0 to -32768.
func Float32ToInt16(x float32) int16 {
	v := x * 32768
	if v >= math.MaxInt16 {
		return math.MaxInt16
	}
	if v <= math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Float32sToInt16s converts src into dst, growing dst when it is too short,
// and returns the filled slice.
func Float32sToInt16s(dst []int16, src []float32) []int16 {
	if cap(dst) < len(src) {
		dst = make([]int16, len(src))
	}
	dst = dst[:len(src)]
	for i, x := range src {
		dst[i] = Float32ToInt16(x)
	}
	return dst
}
