package app

import (
	"fmt"
	"image"
	"image/draw"
	"time"
)

const (
	fontSize = 12.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 100
	defaultBottomBorder = 40
	defaultRightBorder  = 40

	defaultTimeFormat     = "15:04:05"
	defaultDatetimeFormat = time.DateTime
)

// BorderConfig defines the sizes of white space around the waterfall
type BorderConfig struct {
	Top    int // Space for frequency scale
	Left   int // Space for time scale
	Bottom int // Space for information bar
	Right  int // Right padding
}

// RenderConfig holds all configuration options for waterfall visualization
type RenderConfig struct {
	// Time display configuration
	TimeFormat     string         // Format string for time display (e.g. "15:04:05")
	DatetimeFormat string         // Format string for date/time display
	Location       *time.Location // Timezone for time display

	// Visual configuration
	FontSize      float64    // Font size in points
	FontFile      string     // TTF font used for annotations
	ColorTheme    ColorTheme // Color scheme for power values
	NoAnnotations bool       // Render the raster only

	// Border configuration
	Borders BorderConfig
}

// SpectrumRenderer turns accumulated spectrum data into a waterfall image
type SpectrumRenderer struct {
	colorMap *ColorMapper
	config   RenderConfig
}

// NewSpectrumRenderer creates a new renderer with the given configuration
func NewSpectrumRenderer(config RenderConfig) (*SpectrumRenderer, error) {
	if config.TimeFormat == "" {
		config.TimeFormat = defaultTimeFormat
	}
	if config.DatetimeFormat == "" {
		config.DatetimeFormat = defaultDatetimeFormat
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}

	if config.NoAnnotations {
		config.Borders = BorderConfig{}
	} else {
		if config.FontFile == "" {
			return nil, fmt.Errorf("annotations require a font file")
		}
		if config.Borders.Top == 0 {
			config.Borders.Top = defaultTopBorder
		}
		if config.Borders.Left == 0 {
			config.Borders.Left = defaultLeftBorder
		}
		if config.Borders.Bottom == 0 {
			config.Borders.Bottom = defaultBottomBorder
		}
		if config.Borders.Right == 0 {
			config.Borders.Right = defaultRightBorder
		}
	}

	return &SpectrumRenderer{config: config}, nil
}

// Render creates an image of the spectrum data, one pixel per bin and per
// frame, with optional scale annotations around it.
func (r *SpectrumRenderer) Render(spec *SpectrumData, bounds PowerBounds) (*image.RGBA, error) {
	fullWidth := spec.Width + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := spec.Height + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// Waterfall area (1:1 mapping)
	area := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+spec.Width,
		r.config.Borders.Top+spec.Height,
	)

	if r.colorMap == nil {
		r.colorMap = NewColorMapper(r.config.ColorTheme, bounds)
	} else {
		r.colorMap.UpdateBounds(bounds)
	}

	if !r.config.NoAnnotations {
		ann, err := newAnnotator(annotatorConfig{
			TimeFormat:     r.config.TimeFormat,
			DatetimeFormat: r.config.DatetimeFormat,
			Location:       r.config.Location,
			FontSize:       r.config.FontSize,
			FontFile:       r.config.FontFile,
			Borders:        r.config.Borders,
		})
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()

		if err = ann.annotate(img, spec, bounds); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	r.renderWaterfall(img, area, spec)
	return img, nil
}

// renderWaterfall draws the raster using the color map
func (r *SpectrumRenderer) renderWaterfall(img *image.RGBA, area image.Rectangle, spec *SpectrumData) {
	for y, row := range spec.Rows {
		imgY := area.Min.Y + y
		for x, power := range row {
			img.Set(area.Min.X+x, imgY, r.colorMap.GetColor(power))
		}
	}
}
