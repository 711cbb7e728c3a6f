package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fft"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/sdr/rtl"
)

const (
	SourceRTLSDR SourceType = "rtl-sdr"
	SourceFile   SourceType = "file"
)

const (
	defaultFFTSize       = 1024
	defaultBlocksPerRead = 16
	defaultSettleReads   = 1
	defaultQueueCapacity = 42
	defaultOutput        = "-"
	defaultLogLevel      = "info"
)

type SourceType string

// Config represents the main application configuration
type Config struct {
	Settings Settings     `yaml:"settings"`
	Source   SourceConfig `yaml:"source"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel      string `yaml:"logLevel"`
	FFTSize       int    `yaml:"fftSize"`
	BlocksPerRead int    `yaml:"blocksPerRead"` // transform buffers acquired per source read
	SettleReads   int    `yaml:"settleReads"`   // initial reads discarded while the tuner settles
	QueueCapacity int    `yaml:"queueCapacity"`
	Output        string `yaml:"output"` // spectra file path, or "-" for stdout
}

// SourceConfig selects and configures the sample source
type SourceConfig struct {
	Type SourceType  `yaml:"type"`
	File FileConfig  `yaml:"file"`
	RTL  *rtl.Config `yaml:"rtl"`
}

// FileConfig configures the I/Q capture replay source. Frequency and
// SampleRate only label the emitted spectra; a recording carries no tuning
// metadata of its own.
type FileConfig struct {
	Path       string `yaml:"path"`
	Frequency  int64  `yaml:"frequency"`
	SampleRate int64  `yaml:"sampleRate"`
}

// LoadConfig reads, defaults and validates the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := Config{
		Settings: Settings{
			LogLevel:      defaultLogLevel,
			FFTSize:       defaultFFTSize,
			BlocksPerRead: defaultBlocksPerRead,
			SettleReads:   defaultSettleReads,
			QueueCapacity: defaultQueueCapacity,
			Output:        defaultOutput,
		},
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if err := fft.ValidateSize(c.Settings.FFTSize); err != nil {
		return err
	}
	if c.Settings.BlocksPerRead < 1 {
		return fmt.Errorf("blocksPerRead must be positive: %d", c.Settings.BlocksPerRead)
	}
	if c.Settings.SettleReads < 0 {
		return fmt.Errorf("settleReads must not be negative: %d", c.Settings.SettleReads)
	}
	if c.Settings.QueueCapacity < 1 {
		return fmt.Errorf("queueCapacity must be positive: %d", c.Settings.QueueCapacity)
	}
	if _, err := c.Settings.Level(); err != nil {
		return err
	}

	switch c.Source.Type {
	case SourceRTLSDR:
		if c.Source.RTL == nil {
			return fmt.Errorf("source type '%s' requires an rtl section", SourceRTLSDR)
		}
		if err := c.Source.RTL.Validate(); err != nil {
			return err
		}

	case SourceFile:
		if c.Source.File.Path == "" {
			return fmt.Errorf("source type '%s' requires a file path", SourceFile)
		}

	default:
		return fmt.Errorf("unknown source type '%s'", c.Source.Type)
	}

	return nil
}

// Level parses the configured log level
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level '%s': %w", s.LogLevel, err)
	}
	return level, nil
}
