package transcode

import "math"

// FitLongSide returns output dimensions whose longer side equals maxDim, with
// the shorter side scaled proportionally and rounded to the nearest even
// value (never below 2 nor above the long side). An odd maxDim is lowered by
// one so both sides stay even.
func FitLongSide(width, height, maxDim int) (int, int) {
	if width <= 0 || height <= 0 || maxDim < 2 {
		return 0, 0
	}
	long := maxDim - maxDim%2
	if width >= height {
		return long, even(float64(height)*float64(long)/float64(width), long)
	}
	return even(float64(width)*float64(long)/float64(height), long), long
}

func even(v float64, limit int) int {
	n := int(math.Round(v/2)) * 2
	return min(max(n, 2), limit)
}
