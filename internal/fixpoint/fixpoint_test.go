package fixpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQ15_Conversions(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want Q15
	}{
		{"one", 1.0, Scale},
		{"minus_one", -1.0, -Scale},
		{"half", 0.5, Scale / 2},
		{"quarter", -0.25, -Scale / 4},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FromFloat(tt.f)
			assert.Equal(t, tt.want, q)
			assert.InDelta(t, tt.f, q.Float(), 1.0/Scale)
		})
	}
}

func TestQ15_FromFloatRounds(t *testing.T) {
	// 0.3 is not representable exactly; conversion must round to the
	// nearest step, not truncate.
	q := FromFloat(0.3)
	assert.InDelta(t, 0.3, q.Float(), 0.5/Scale)
}

func TestQ15_MulKeepsScale(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
	}{
		{"half_times_half", 0.5, 0.5},
		{"identity", 1.0, 0.75},
		{"negative", -0.5, 0.25},
		{"both_negative", -0.5, -0.5},
		{"above_unity", 3.0, 0.5}, // int32 storage admits magnitudes beyond 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromFloat(tt.a).Mul(FromFloat(tt.b))
			assert.InDelta(t, tt.a*tt.b, got.Float(), 2.0/Scale)
		})
	}
}

func TestQ15_MulUsesWideIntermediate(t *testing.T) {
	// 8.0 * 8.0 in raw int32 would overflow before the rescale shift if the
	// product were not widened.
	a := FromFloat(8.0)
	got := a.Mul(a)
	assert.Equal(t, FromFloat(64.0), got)
}

func TestQ15_Div(t *testing.T) {
	assert.Equal(t, FromFloat(0.5), FromFloat(1.0).Div(FromFloat(2.0)))
	assert.Equal(t, FromFloat(-2.0), FromFloat(1.0).Div(FromFloat(-0.5)))
	assert.Equal(t, Q15(0), Q15(0).Div(FromFloat(0.125)))
}

func TestQ15_Int(t *testing.T) {
	require.Equal(t, 3, FromInt(3).Int())
	require.Equal(t, -3, FromInt(-3).Int())
	require.Equal(t, 0, FromFloat(0.99).Int())
}

func TestQ15_RoundTripPrecision(t *testing.T) {
	for f := -1.0; f <= 1.0; f += 0.125 {
		q := FromFloat(f)
		require.InDelta(t, f, q.Float(), 1e-9, "value %f", f)
	}
	assert.InDelta(t, math.Pi/4, FromFloat(math.Pi/4).Float(), 1.0/Scale)
}
