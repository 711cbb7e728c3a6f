package app

import (
	"testing"
)

func TestPowerHistogram_DefaultsWithFewSamples(t *testing.T) {
	h := NewPowerHistogram()

	p := -50.0
	for i := 0; i < minimumSampleCount-1; i++ {
		h.Update(&p)
	}

	bounds := h.GetPercentileBounds()
	if bounds != defaultPowerBounds() {
		t.Errorf("expected default bounds below the sample threshold, got %+v", bounds)
	}
}

func TestPowerHistogram_PercentileBounds(t *testing.T) {
	h := NewPowerHistogram()

	// 100 values spread from -100dB to -1dB
	for i := 0; i < 100; i++ {
		p := float64(-100 + i)
		h.Update(&p)
	}

	bounds := h.GetPercentileBounds()
	if bounds.Min >= bounds.Max {
		t.Fatalf("expected min < max, got %+v", bounds)
	}
	if bounds.Min > -90 {
		t.Errorf("expected min near the 5th percentile, got %0.1f", bounds.Min)
	}
	if bounds.Max < -15 {
		t.Errorf("expected max near the 95th percentile, got %0.1f", bounds.Max)
	}
	if bounds.Mean > -40 || bounds.Mean < -60 {
		t.Errorf("expected mean near -50, got %0.1f", bounds.Mean)
	}
}

func TestPowerHistogram_MinimumRange(t *testing.T) {
	h := NewPowerHistogram()

	// All samples in one bin still yield a usable display range
	p := -42.0
	for i := 0; i < 100; i++ {
		h.Update(&p)
	}

	bounds := h.GetPercentileBounds()
	if bounds.Max-bounds.Min < 30 {
		t.Errorf("expected at least 30dB of range, got %0.1f", bounds.Max-bounds.Min)
	}
}

func TestPowerHistogram_IgnoresNil(t *testing.T) {
	h := NewPowerHistogram()
	h.Update(nil)

	if h.totalCount != 0 {
		t.Errorf("expected nil readings to be ignored, counted %d", h.totalCount)
	}
}

func TestSmoothBounds_ConvergesTowardsHistogram(t *testing.T) {
	s := NewSmoothBounds(0.3)
	start := s.Current()

	for i := 0; i < 200; i++ {
		p := float64(-60 + i%20)
		s.Update(&p)
	}

	bounds := s.Current()
	if bounds == start {
		t.Fatal("expected bounds to move away from defaults")
	}
	if bounds.Min < defaultMinPower || bounds.Max > defaultMaxPower {
		t.Errorf("smoothed bounds overshot the data: %+v", bounds)
	}
}
