package sdr

import "github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"

// ConvertIQ decodes interleaved unsigned 8-bit I/Q pairs into Q15 complex
// samples. Each byte is recentered from [0, 255] to [-127, 128] and scaled
// by 256 so the sample occupies the Q15 fractional range.
// src must hold exactly 2*len(dst) bytes.
func ConvertIQ(dst []fixpoint.Complex, src []byte) {
	for i := range dst {
		dst[i] = fixpoint.Complex{
			Re: fixpoint.Q15((int32(src[2*i]) - 127) * 256),
			Im: fixpoint.Q15((int32(src[2*i+1]) - 127) * 256),
		}
	}
}
