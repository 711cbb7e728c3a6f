package fft

import (
	"math"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"
)

// Twiddles builds the n/2 unit exponentials e^(-2*pi*i*k/n), k in [0, n/2),
// rounded to Q15. The table is built once per transform size and shared
// read-only afterwards.
func Twiddles(n int) []fixpoint.Complex {
	tw := make([]fixpoint.Complex, n/2)
	for k := range tw {
		x := 2 * math.Pi * float64(k) / float64(n)
		tw[k] = fixpoint.Complex{
			Re: fixpoint.FromFloat(math.Cos(x)),
			Im: fixpoint.FromFloat(-math.Sin(x)),
		}
	}
	return tw
}

// New creates an engine over Q15 complex samples for transforms of size n
func New(n int) (*Engine[fixpoint.Complex], error) {
	if err := ValidateSize(n); err != nil {
		return nil, err
	}
	return NewEngine(n, Twiddles(n))
}
