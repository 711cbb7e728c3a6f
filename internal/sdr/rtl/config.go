// Package rtl drives the rtl_sdr capture tool, which streams raw unsigned
// 8-bit I/Q samples from an RTL2832-based tuner to stdout.
package rtl

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FrequencyMin and FrequencyMax bound the tuning range of RTL2832
	// tuners (R820T and friends).
	FrequencyMin = 24_000_000
	FrequencyMax = 1_766_000_000

	// SampleRateMin and SampleRateMax bound the usable sample rates
	SampleRateMin = 225_001
	SampleRateMax = 3_200_000
)

// Config is the `rtl_sdr` tool configuration
type Config struct {
	// Required
	Frequency  int64 `yaml:"frequency"`  // -f center frequency to tune to (Hz)
	SampleRate int64 `yaml:"sampleRate"` // -s sample rate (Hz); equals the scanned bandwidth

	// Optional
	DeviceIndex int  `yaml:"deviceIndex"` // -d device_index (default: 0)
	Gain        int  `yaml:"gain"`        // -g tuner_gain in tenths of dB (default: automatic)
	PPMError    int  `yaml:"ppmError"`    // -p ppm_error (default: 0)
	DirectSampl bool `yaml:"directSampling"` // -D enable direct sampling (default: off)
	BiasTee     bool `yaml:"biasTee"`     // -T enable bias-tee (default: off)
}

func (c *Config) Validate() error {
	if c.Frequency < FrequencyMin || c.Frequency > FrequencyMax {
		return fmt.Errorf("rtl.Config: frequency %d out of range [%d, %d]", c.Frequency, FrequencyMin, FrequencyMax)
	}
	if c.SampleRate < SampleRateMin || c.SampleRate > SampleRateMax {
		return fmt.Errorf("rtl.Config: sample rate %d out of range [%d, %d]", c.SampleRate, SampleRateMin, SampleRateMax)
	}
	if c.DeviceIndex < 0 {
		return fmt.Errorf("rtl.Config: device index must not be negative: %d", c.DeviceIndex)
	}
	if c.Gain < 0 {
		return fmt.Errorf("rtl.Config: gain must not be negative: %d", c.Gain)
	}
	return nil
}

// Args returns the command line arguments for `rtl_sdr`.
// See `man rtl_sdr` for more information.
func (c *Config) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := []string{
		"-f", strconv.FormatInt(c.Frequency, 10),
		"-s", strconv.FormatInt(c.SampleRate, 10),
		"-d", strconv.Itoa(c.DeviceIndex), // 0 is the default device index
	}

	if c.Gain > 0 {
		args = append(args, "-g", strconv.Itoa(c.Gain))
	}

	if c.PPMError != 0 {
		args = append(args, "-p", strconv.Itoa(c.PPMError))
	}

	if c.DirectSampl {
		args = append(args, "-D")
	}

	if c.BiasTee {
		args = append(args, "-T")
	}

	args = append(args, "-") // Always dump to stdout

	return args, nil
}

func (c *Config) String() string {
	args, err := c.Args()
	if err != nil {
		return fmt.Sprintf("rtl.Config: failed to build args: %s", err)
	}
	return fmt.Sprintf("%s %s", Runtime, strings.Join(args, " "))
}
