// Package window provides the analysis window functions used by the
// spectral units.
package window

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
)

var errMismatchedLength = errors.New("window: samples and coefficients must have same length")

// Generate returns periodic window coefficients of the given length.
// Periodic windows are the right choice for overlap-add analysis; hop
// sizes dividing the length then satisfy the constant-overlap-add
// property for Hann and Hamming.
func Generate(t Type, length int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", length)
	}

	out := make([]float64, length)
	n := float64(length)
	for i := range out {
		x := float64(i) / n
		out[i] = eval(t, x)
	}
	return out, nil
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	case TypeBlackmanHarris:
		return 0.35875 -
			0.48829*math.Cos(2*math.Pi*x) +
			0.14128*math.Cos(4*math.Pi*x) -
			0.01168*math.Cos(6*math.Pi*x)
	default:
		return 1
	}
}

// Kaiser returns symmetric Kaiser window coefficients. The symmetric
// form suits FIR kernel design (e.g. shaping convolver kernels); for
// overlap-add analysis use Generate, whose periodic windows satisfy
// the constant-overlap-add property.
func Kaiser(length int, beta float64) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", length)
	}
	if beta < 0 {
		return nil, fmt.Errorf("window: kaiser beta must be >= 0: %f", beta)
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out, nil
	}
	den := besselI0(beta)
	for i := range out {
		r := 2*float64(i)/float64(length-1) - 1
		out[i] = besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / den
	}
	return out, nil
}

// besselI0 approximates the zeroth-order modified Bessel function
// (Abramowitz and Stegun 9.8.1 and 9.8.2).
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y
		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}
	y := 3.75 / ax
	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}

// Apply multiplies samples with coefficients in place.
func Apply(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// OverlapGain returns the constant-overlap-add gain of a window at the
// given hop size: the sum of all hop-shifted copies at one position.
// Dividing synthesis output by this gain restores unity throughput.
func OverlapGain(coeffs []float64, hop int) (float64, error) {
	if hop <= 0 || hop > len(coeffs) {
		return 0, fmt.Errorf("window: hop must be in [1, %d]: %d", len(coeffs), hop)
	}

	gain := 0.0
	for i := 0; i < len(coeffs); i += hop {
		gain += coeffs[i]
	}
	if gain <= 0 {
		return 0, fmt.Errorf("window: degenerate overlap gain %v at hop %d", gain, hop)
	}
	return gain, nil
}
