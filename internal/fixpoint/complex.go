package fixpoint

// Complex is a complex number whose real and imaginary parts share the Q15
// fractional scale. It is a pure value type: every operation returns a new
// value and leaves the receiver untouched.
type Complex struct {
	Re Q15
	Im Q15
}

// NewComplex builds a Complex from two Q15 scalars
func NewComplex(re, im Q15) Complex {
	return Complex{Re: re, Im: im}
}

// Add returns a + b. Addition is exact and does not change the scale.
func (a Complex) Add(b Complex) Complex {
	return Complex{Re: a.Re + b.Re, Im: a.Im + b.Im}
}

// Sub returns a - b. Subtraction is exact and does not change the scale.
func (a Complex) Sub(b Complex) Complex {
	return Complex{Re: a.Re - b.Re, Im: a.Im - b.Im}
}

// Mul returns a * b. The four partial products are computed in int64 and the
// sums are rescaled back to 15 fractional bits, matching the scalar Mul
// contract.
func (a Complex) Mul(b Complex) Complex {
	re := int64(a.Re)*int64(b.Re) - int64(a.Im)*int64(b.Im)
	im := int64(a.Re)*int64(b.Im) + int64(a.Im)*int64(b.Re)
	return Complex{Re: Q15(re >> FracBits), Im: Q15(im >> FracBits)}
}

// DivScalar divides both parts by the Q15 scalar s
func (a Complex) DivScalar(s Q15) Complex {
	return Complex{Re: a.Re.Div(s), Im: a.Im.Div(s)}
}

// IsZero reports whether both parts are exactly zero
func (a Complex) IsZero() bool {
	return a.Re == 0 && a.Im == 0
}

// Norm returns the squared magnitude |a|^2 in Q15
func (a Complex) Norm() Q15 {
	n := int64(a.Re)*int64(a.Re) + int64(a.Im)*int64(a.Im)
	return Q15(n >> FracBits)
}

// RemoveDC subtracts the arithmetic mean of buf from every sample, in place.
// The per-part sums use int64 accumulators so summing any realistic transform
// length cannot overflow. When the mean is exactly zero the subtraction pass
// is skipped.
func RemoveDC(buf []Complex) {
	if len(buf) == 0 {
		return
	}

	var sumRe, sumIm int64
	for _, s := range buf {
		sumRe += int64(s.Re)
		sumIm += int64(s.Im)
	}

	n := int64(len(buf))
	mean := Complex{Re: Q15(sumRe / n), Im: Q15(sumIm / n)}
	if mean.IsZero() {
		return
	}

	for i := range buf {
		buf[i] = buf[i].Sub(mean)
	}
}
