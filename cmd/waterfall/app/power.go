package app

import "math"

const (
	// Fallback display range in dB when too few samples have been seen.
	// A single-LSB bin sits near -90dB, a strong carrier well above 0dB.
	defaultMinPower = -90.0
	defaultMaxPower = 30.0

	// For 20 samples:
	// - 5% percentile  = 1 sample
	// - 95% percentile = 19th sample
	minimumSampleCount = 20

	// Never present less than this much range, no matter how flat the data
	minimumRangeDB = 30
)

// PowerBounds represents the calculated power boundaries
type PowerBounds struct {
	Min       float64 // 5th percentile power level in dB
	Max       float64 // 95th percentile power level in dB
	Mean      float64 // Mean power level in dB
	Reference float64 // Reference level for visualization in dB
}

func defaultPowerBounds() PowerBounds {
	return PowerBounds{
		Min:       defaultMinPower,
		Max:       defaultMaxPower,
		Mean:      (defaultMinPower + defaultMaxPower) / 2,
		Reference: (defaultMinPower + defaultMaxPower) / 2,
	}
}

// PowerHistogram counts readings in 1dB bins so percentile bounds come out
// of a single pass over the occupied range instead of a sort.
type PowerHistogram struct {
	bins       map[int]uint32
	totalCount uint64
	minBin     int
	maxBin     int
}

// NewPowerHistogram creates a new histogram
func NewPowerHistogram() *PowerHistogram {
	h := &PowerHistogram{bins: make(map[int]uint32)}
	h.resetRange()
	return h
}

func (h *PowerHistogram) resetRange() {
	h.minBin = math.MaxInt32
	h.maxBin = math.MinInt32
}

func (h *PowerHistogram) widenRange(bin int) {
	if bin < h.minBin {
		h.minBin = bin
	}
	if bin > h.maxBin {
		h.maxBin = bin
	}
}

// scaleDown halves every count so the histogram can run indefinitely
// without its counters saturating. Emptied bins are dropped.
func (h *PowerHistogram) scaleDown() {
	h.resetRange()

	for bin := range h.bins {
		h.bins[bin] /= 2
		if h.bins[bin] == 0 {
			delete(h.bins, bin)
			continue
		}
		h.widenRange(bin)
	}
	h.totalCount /= 2
}

// Update adds new power reading to the histogram
func (h *PowerHistogram) Update(power *float64) {
	if power == nil {
		return
	}

	bin := int(math.Floor(*power)) // 1dB bins

	if h.bins[bin] == math.MaxUint32 || h.totalCount == math.MaxUint64 {
		h.scaleDown()
	}

	h.bins[bin]++
	h.totalCount++
	h.widenRange(bin)
}

// binAtCount walks the occupied range in the given direction and returns
// the first bin at which the running count reaches target.
func (h *PowerHistogram) binAtCount(target uint64, fromLow bool) int {
	var count uint64

	if fromLow {
		for bin := h.minBin; bin <= h.maxBin; bin++ {
			count += uint64(h.bins[bin])
			if count >= target {
				return bin
			}
		}
		return h.maxBin
	}

	for bin := h.maxBin; bin >= h.minBin; bin-- {
		count += uint64(h.bins[bin])
		if count >= target {
			return bin
		}
	}
	return h.minBin
}

// GetPercentileBounds returns power bounds based on percentiles
func (h *PowerHistogram) GetPercentileBounds() PowerBounds {
	if h.totalCount < minimumSampleCount {
		return defaultPowerBounds()
	}

	tail := h.totalCount * 5 / 100
	min5th := h.binAtCount(tail, true)
	max95th := h.binAtCount(tail, false)

	// Mean as weighted average of bin centers
	var sumProduct float64
	for bin, count := range h.bins {
		sumProduct += float64(bin) * float64(count)
	}
	mean := sumProduct / float64(h.totalCount)

	if max95th-min5th < minimumRangeDB {
		center := (max95th + min5th) / 2
		min5th = center - minimumRangeDB/2
		max95th = center + minimumRangeDB/2
	}

	margin := (max95th - min5th) / 10 // 10% margin

	return PowerBounds{
		Min:       float64(min5th - margin),
		Max:       float64(max95th + margin),
		Mean:      mean,
		Reference: mean,
	}
}

// SmoothBounds represents a smoothed version of the histogram bounds
type SmoothBounds struct {
	hist    *PowerHistogram
	alpha   float64     // Smoothing factor (0-1)
	current PowerBounds // Current smoothed bounds
}

// NewSmoothBounds creates a new bounds smoother
func NewSmoothBounds(alpha float64) *SmoothBounds {
	return &SmoothBounds{
		hist:    NewPowerHistogram(),
		alpha:   alpha,
		current: defaultPowerBounds(),
	}
}

// Update adds new power reading and returns smoothed bounds
func (s *SmoothBounds) Update(power *float64) PowerBounds {
	if power == nil {
		return s.current
	}

	s.hist.Update(power)
	newBounds := s.hist.GetPercentileBounds()

	// Exponential smoothing
	s.current.Min = s.current.Min*(1-s.alpha) + newBounds.Min*s.alpha
	s.current.Max = s.current.Max*(1-s.alpha) + newBounds.Max*s.alpha
	s.current.Mean = newBounds.Mean // Use new mean directly
	s.current.Reference = newBounds.Reference

	return s.current
}

// Current returns the current smoothed power bounds
func (s *SmoothBounds) Current() PowerBounds {
	return s.current
}
