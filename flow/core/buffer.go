// Package core holds small numeric and buffer helpers shared by the
// processing packages.
package core

// EnsureLen returns a slice of length n, reusing buf's backing array
// when its capacity suffices and allocating a fresh zeroed one
// otherwise. Reused contents are kept; callers that need zeroes call
// Zero on the result.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero clears buf in place.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies min(len(dst), len(src)) samples from src into dst
// and returns the count.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}
