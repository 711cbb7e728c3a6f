// Package fixpoint implements Q15 fixed-point arithmetic for IQ sample
// processing. Values carry 15 fractional bits and are stored in an int32,
// so intermediate magnitudes beyond the nominal [-1, 1) range (as produced
// by FFT butterfly accumulation) do not wrap.
package fixpoint

import "math"

const (
	// FracBits is the number of fractional bits in a Q15 value
	FracBits = 15

	// Scale is the integer representation of 1.0
	Scale = 1 << FracBits
)

// Q15 is a signed fixed-point scalar with a fixed 1/2^15 fractional resolution
type Q15 int32

// FromFloat converts a float to the nearest Q15 value
func FromFloat(f float64) Q15 {
	return Q15(math.Round(f * Scale))
}

// FromInt converts a plain integer to its Q15 representation
func FromInt(v int) Q15 {
	return Q15(v) * Scale
}

// Float converts q back to a float
func (q Q15) Float() float64 {
	return float64(q) / Scale
}

// Int returns the integer part of q, truncated toward zero
func (q Q15) Int() int {
	return int(q / Scale)
}

// Mul multiplies two Q15 values. The product is computed in an int64
// intermediate and rescaled back to 15 fractional bits, so the result keeps
// the same resolution as the operands.
func (a Q15) Mul(b Q15) Q15 {
	return Q15((int64(a) * int64(b)) >> FracBits)
}

// Div divides a by b in Q15. The dividend is widened and pre-scaled so the
// quotient keeps 15 fractional bits.
func (a Q15) Div(b Q15) Q15 {
	return Q15((int64(a) << FracBits) / int64(b))
}
