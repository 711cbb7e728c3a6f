// Package spectrum defines the power spectrum record produced by the FFT
// stage and the sinks that persist it.
package spectrum

import (
	"math"
	"time"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"
)

// Spectrum is a single FFT frame: the complex bins of one transformed
// sample block, in ascending frequency order, together with the tuning
// parameters needed to map a bin index to an absolute frequency.
type Spectrum struct {
	Timestamp       time.Time
	CenterFrequency int64 // Hz
	Bandwidth       int64 // Hz, equals the tuner sample rate
	Bins            []fixpoint.Complex
}

// BinFrequency returns the absolute frequency of bin i in Hz. Bin 0 maps
// to CenterFrequency - Bandwidth/2, the last bin just short of
// CenterFrequency + Bandwidth/2.
func (s *Spectrum) BinFrequency(i int) int64 {
	n := int64(len(s.Bins))
	return s.CenterFrequency - s.Bandwidth/2 + int64(i)*s.Bandwidth/n
}

// Power returns the power of bin i in dB, 10*log10 of the squared
// magnitude. The squared magnitude is computed in float64: large-N bins can
// exceed the Q15 range once squared. An empty bin yields -Inf.
func (s *Spectrum) Power(i int) float64 {
	re := s.Bins[i].Re.Float()
	im := s.Bins[i].Im.Float()
	norm := re*re + im*im
	if norm <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(norm)
}
