package app

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi            = 120.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0
	timeLabels     = 8 // target number of time scale labels
)

type annotatorConfig struct {
	TimeFormat     string
	DatetimeFormat string
	Location       *time.Location
	FontSize       float64
	FontFile       string
	Borders        BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	fontBytes, err := os.ReadFile(config.FontFile)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, spec *SpectrumData, bounds PowerBounds) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawFrequencyScale(img, spec); err != nil {
		return fmt.Errorf("drawing frequency scale: %w", err)
	}
	if err := a.drawTimeScale(img, spec); err != nil {
		return fmt.Errorf("drawing time scale: %w", err)
	}
	if err := a.drawInfoBar(img, spec, bounds); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) drawFrequencyScale(img *image.RGBA, spec *SpectrumData) error {
	freqStep := niceFrequencyStep(spec.FrequencyMax-spec.FrequencyMin, spec.Width)
	startFreq := math.Ceil(spec.FrequencyMin/freqStep) * freqStep

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Centered in the top border, above the tick marks
	textY := a.config.Borders.Top - tickMarkHeight - fontHeight/2

	for freq := startFreq; freq <= spec.FrequencyMax; freq += freqStep {
		xRatio := (freq - spec.FrequencyMin) / (spec.FrequencyMax - spec.FrequencyMin)
		x := a.config.Borders.Left + int(xRatio*float64(spec.Width))

		for y := a.config.Borders.Top - tickMarkHeight; y < a.config.Borders.Top; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatFrequency(freq)
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawTimeScale(img *image.RGBA, spec *SpectrumData) error {
	if spec.Height == 0 {
		return nil
	}

	// Rows map 1:1 to frames, so the scale follows recorded frame
	// timestamps rather than assuming a constant frame rate.
	rowStep := spec.Height / timeLabels
	if rowStep < 1 {
		rowStep = 1
	}

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for row := 0; row < spec.Height; row += rowStep {
		imgY := row + a.config.Borders.Top

		for x := a.config.Borders.Left - tickMarkHeight; x < a.config.Borders.Left; x++ {
			img.Set(x, imgY, color.Black)
		}

		textY := imgY + fontHeight/2 - metrics.Descent.Round()

		label := spec.Timestamps[row].In(a.config.Location).Format(a.config.TimeFormat)
		pt := freetype.Pt(10, textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing time label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, spec *SpectrumData, bounds PowerBounds) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Freq: %s - %s",
		formatFrequency(spec.FrequencyMin), formatFrequency(spec.FrequencyMax)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Time: %s - %s",
		spec.TimestampStart.In(a.config.Location).Format(a.config.DatetimeFormat),
		spec.TimestampEnd.In(a.config.Location).Format(a.config.DatetimeFormat)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Power: %0.1fdB - %0.1fdB", bounds.Min, bounds.Max))

	freqPerPixel := (spec.FrequencyMax - spec.FrequencyMin) / float64(spec.Width)
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("1px = %s", formatFrequency(freqPerPixel)))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Center text vertically in the bottom border
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}

	return nil
}

// formatFrequency renders a frequency with an SI prefix, e.g. "100.4 MHz"
func formatFrequency(freq float64) string {
	return humanize.SIWithDigits(freq, 1, "Hz")
}

// niceFrequencyStep picks a decade step size that yields roughly one label
// per 150 pixels.
func niceFrequencyStep(span float64, width int) float64 {
	steps := []float64{
		1,             // 1 Hz
		10,            // 10 Hz
		100,           // 100 Hz
		1_000,         // 1 kHz
		10_000,        // 10 kHz
		100_000,       // 100 kHz
		1_000_000,     // 1 MHz
		10_000_000,    // 10 MHz
		100_000_000,   // 100 MHz
		1_000_000_000, // 1 GHz
	}

	desiredSteps := float64(width) / pixelsPerLabel
	targetStep := span / desiredSteps

	for _, step := range steps {
		if step >= targetStep {
			// Only if this step still yields at least 2 labels
			if span/step >= 2 {
				return step
			}
			break
		}
	}

	// Fall back to half the span so at least the center frequency shows
	return span / 2
}
