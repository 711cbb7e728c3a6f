// Package fft implements an in-place radix-2 decimation-in-time transform
// over fixed-point complex samples. The transform is written against a small
// arithmetic interface so the engine itself carries no knowledge of the
// sample representation; the twiddle table bound at construction fixes the
// concrete element type.
package fft

import "fmt"

// MaxSize is the largest supported transform size
const MaxSize = 8 * 1024

// Element is the arithmetic contract the transform requires from its sample
// type. Implementations must be pure value types: operations return new
// values and leave their operands untouched.
type Element[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
}

// ValidateSize reports whether n is a usable transform size. It is exported
// so configuration layers can reject a bad size before any resource is
// touched.
func ValidateSize(n int) error {
	if n < 1 {
		return fmt.Errorf("fft: size must be positive: %d", n)
	}
	if n&(n-1) != 0 {
		return fmt.Errorf("fft: size must be a power of two: %d", n)
	}
	if n > MaxSize {
		return fmt.Errorf("fft: size %d is too big (max supported is %d)", n, MaxSize)
	}
	return nil
}

// Engine computes in-place transforms of a fixed size n. It is stateless
// apart from the immutable twiddle table and is safe for concurrent use by
// multiple stages once constructed.
type Engine[T Element[T]] struct {
	n       int
	log2n   int
	twiddle []T
}

// NewEngine creates an engine for transforms of size n. The twiddle table
// must hold the n/2 unit exponentials e^(-2*pi*i*k/n) for k in [0, n/2).
// Size violations are configuration errors and are rejected here, not per
// call.
func NewEngine[T Element[T]](n int, twiddle []T) (*Engine[T], error) {
	if err := ValidateSize(n); err != nil {
		return nil, err
	}
	if len(twiddle) != n/2 {
		return nil, fmt.Errorf("fft: twiddle table has %d entries, want %d", len(twiddle), n/2)
	}

	log2n := 0
	for 1<<log2n < n {
		log2n++
	}

	return &Engine[T]{n: n, log2n: log2n, twiddle: twiddle}, nil
}

// Size returns the transform size the engine was built for
func (e *Engine[T]) Size() int {
	return e.n
}

// Transform computes the discrete Fourier transform of buf in place and
// leaves the bins in ascending natural-frequency order. buf must have
// exactly the engine's size.
func (e *Engine[T]) Transform(buf []T) error {
	if len(buf) != e.n {
		return fmt.Errorf("fft: buffer has %d samples, engine size is %d", len(buf), e.n)
	}
	if e.n < 2 {
		return nil
	}

	reorderSamples(buf)

	for s := 0; s < e.log2n; s++ {
		mh := 1 << s
		m := mh << 1
		stride := e.n / m // twiddle stride: e^(-2*pi*i*j/m) == twiddle[j*stride]

		for j := 0; j < mh; j++ {
			w := e.twiddle[j*stride]
			for r := 0; r < e.n; r += m {
				u := buf[r+j]
				v := buf[r+j+mh].Mul(w)

				buf[r+j] = u.Add(v)
				buf[r+j+mh] = u.Sub(v)
			}
		}
	}

	reorderBins(buf)
	return nil
}

// reorderSamples permutes buf in place so that index n holds the sample that
// was at the bit-reversal of n. The next reversed index is derived from the
// previous one instead of being recomputed per index, and each pair is
// swapped exactly once.
func reorderSamples[T any](buf []T) {
	size := len(buf)
	for n, m := 1, 0; n < size; n++ {
		l := size
		for {
			l /= 2
			if m+l < size {
				break
			}
		}
		m = (m & (l - 1)) + l

		if m > n {
			buf[n], buf[m] = buf[m], buf[n]
		}
	}
}

// reorderBins swaps the first and second halves of buf so bins end up in
// ascending natural-frequency order rather than FFT-native order.
func reorderBins[T any](buf []T) {
	half := len(buf) / 2
	for n := 0; n < half; n++ {
		buf[n], buf[n+half] = buf[n+half], buf[n]
	}
}
