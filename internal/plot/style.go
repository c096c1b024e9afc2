package plot

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style holds the fixed visual contract of the diagnostic plot.
type Style struct {
	InsideColor      string
	OutsideColor     string
	CircleColor      string
	AxisBound        float64
	DPI              int
	Title            string
	XLabel           string
	YLabel           string
	AnnotationFormat string
	PointAlpha       float64
	PointRadius      float64 // points
	Size             float64 // inches, square canvas
}

// DefaultStyle returns the reference styling.
func DefaultStyle() Style {
	return Style{
		InsideColor:      "#1E90FF",
		OutsideColor:     "#FF7F50",
		CircleColor:      "#3CB371",
		AxisBound:        1.05,
		DPI:              300,
		Title:            "Monte Carlo Estimation of π",
		XLabel:           "X Coordinate",
		YLabel:           "Y Coordinate",
		AnnotationFormat: "Estimated π ≈ %.6f",
		PointAlpha:       0.6,
		PointRadius:      1.8,
		Size:             8,
	}
}

// Validate checks that every field can be rendered.
func (s Style) Validate() error {
	for _, c := range []struct{ name, value string }{
		{"inside-color", s.InsideColor},
		{"outside-color", s.OutsideColor},
		{"circle-color", s.CircleColor},
	} {
		if _, err := ParseColor(c.value); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	if s.AxisBound <= 1 {
		return fmt.Errorf("axis-bound must be > 1 to contain the unit circle")
	}
	if s.DPI <= 0 {
		return fmt.Errorf("dpi must be > 0")
	}
	if s.PointAlpha <= 0 || s.PointAlpha > 1 {
		return fmt.Errorf("point-alpha must be in (0, 1]")
	}
	if s.PointRadius <= 0 {
		return fmt.Errorf("point-radius must be > 0")
	}
	if s.Size <= 0 {
		return fmt.Errorf("size must be > 0")
	}
	if !strings.Contains(s.AnnotationFormat, "%") {
		return fmt.Errorf("annotation-format must contain a verb for the estimate")
	}
	return nil
}

// ParseColor parses a #RRGGBB hex color.
func ParseColor(hex string) (color.NRGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(v) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q (want #RRGGBB)", hex)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q (want #RRGGBB)", hex)
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(alpha*255 + 0.5)
	return c
}
