package app

import (
	"math"
	"time"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/spectrum"
)

// SpectrumData accumulates frames into the waterfall raster: one row per
// frame, one column per bin, power in dB. A nil power marks a bin with no
// energy at all, which renders as the no-data color.
type SpectrumData struct {
	Width, Height                int
	FrequencyMin, FrequencyMax   float64
	TimestampStart, TimestampEnd time.Time
	Timestamps                   []time.Time
	BoundsTracker                *SmoothBounds
	Rows                         [][]*float64
}

func NewSpectrumData(b *SmoothBounds) *SpectrumData {
	return &SpectrumData{
		FrequencyMin:  math.MaxFloat64,
		BoundsTracker: b,
		Rows:          make([][]*float64, 0),
	}
}

func (s *SpectrumData) Update(frame *spectrum.Spectrum) {
	s.Width = max(s.Width, len(frame.Bins))
	s.Height++

	s.FrequencyMin = min(s.FrequencyMin, float64(frame.BinFrequency(0)))
	s.FrequencyMax = max(s.FrequencyMax, float64(frame.CenterFrequency+frame.Bandwidth/2))

	if s.TimestampStart.IsZero() || s.TimestampStart.After(frame.Timestamp) {
		s.TimestampStart = frame.Timestamp
	}
	if s.TimestampEnd.IsZero() || s.TimestampEnd.Before(frame.Timestamp) {
		s.TimestampEnd = frame.Timestamp
	}
	s.Timestamps = append(s.Timestamps, frame.Timestamp)

	powers := make([]*float64, len(frame.Bins))
	for i := range frame.Bins {
		p := frame.Power(i)
		if math.IsInf(p, -1) {
			continue
		}
		powers[i] = &p
		s.BoundsTracker.Update(&p)
	}
	s.Rows = append(s.Rows, powers)
}
