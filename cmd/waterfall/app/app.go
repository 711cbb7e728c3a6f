// Package app renders a waterfall image from a spectra file: one image row
// per recorded frame, one column per FFT bin, color mapped from power in dB.
package app

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/spectrum"
)

const boundsSmoothing = 0.3

func Run(config *Config, logger *slog.Logger) error {
	spec, err := readSpectra(config.InputFile)
	if err != nil {
		return err
	}
	if spec.Height == 0 {
		return fmt.Errorf("no frames in '%s'", config.InputFile)
	}

	bounds := spec.BoundsTracker.Current()
	if config.MinPower != nil {
		bounds.Min = *config.MinPower
	}
	if config.MaxPower != nil {
		bounds.Max = *config.MaxPower
	}

	logger.Info("finished reading frames",
		slog.Group("stats",
			slog.Int("frames", spec.Height),
			slog.Int("bins", spec.Width),
			slog.String("minTimestamp", spec.TimestampStart.Local().Format(time.DateTime)),
			slog.String("maxTimestamp", spec.TimestampEnd.Local().Format(time.DateTime)),
			slog.String("minFreq", formatFrequency(spec.FrequencyMin)),
			slog.String("maxFreq", formatFrequency(spec.FrequencyMax)),
			slog.String("minPower", fmt.Sprintf("%0.2fdB", bounds.Min)),
			slog.String("maxPower", fmt.Sprintf("%0.2fdB", bounds.Max)),
		))

	renderer, err := NewSpectrumRenderer(RenderConfig{
		ColorTheme:    config.Theme,
		FontFile:      config.FontFile,
		NoAnnotations: config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	logger.Info("rendering waterfall",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("theme", string(config.Theme)),
			slog.Int("width", spec.Width),
			slog.Int("height", spec.Height),
		))

	img, err := renderer.Render(spec, bounds)
	if err != nil {
		return fmt.Errorf("rendering waterfall: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}

func readSpectra(input string) (*SpectrumData, error) {
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening spectra file: %w", err)
		}
		defer f.Close()
		r = f
	}

	frames, err := spectrum.ReadFrames(r)
	if err != nil {
		return nil, fmt.Errorf("parsing spectra file: %w", err)
	}

	spec := NewSpectrumData(NewSmoothBounds(boundsSmoothing))
	for _, frame := range frames {
		spec.Update(frame)
	}
	return spec, nil
}
