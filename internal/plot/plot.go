// Package plot renders the diagnostic scatter plot of tagged points.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/verte-zerg/mcpi/internal/detector"
	"github.com/verte-zerg/mcpi/internal/events"
	"github.com/verte-zerg/mcpi/internal/model"
)

// Legend labels.
const (
	InsideLabel  = "Inside Circle"
	OutsideLabel = "Outside Circle"
	CircleLabel  = "Unit Circle"
)

const (
	circleSegments = 360
	annotationBand = 36 // points reserved below the plot for the estimate
	titleSize      = 16
	labelSize      = 14
	tickSize       = 12
	legendSize     = 12
	annotationSize = 14
)

var gridColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xb3}

// Formats lists the accepted output file extensions.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

type figure struct {
	plot       *gplot.Plot
	annotation string
	style      Style
}

// Render draws detections with the given estimate annotated and writes the
// image to path. The image format follows the file extension.
func Render(path string, detections []model.Detection, pi float64, style Style) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}
	fig, err := newFigure(detections, pi, style)
	if err != nil {
		return err
	}
	return events.WriteAtomic(path, func(w io.Writer) error {
		return fig.writeTo(w, format)
	})
}

// Annotation formats the estimate the way it appears on the figure.
func Annotation(pi float64, style Style) string {
	return fmt.Sprintf(style.AnnotationFormat, pi)
}

func newFigure(detections []model.Detection, pi float64, style Style) (*figure, error) {
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plot style: %w", err)
	}
	insideColor, _ := ParseColor(style.InsideColor)
	outsideColor, _ := ParseColor(style.OutsideColor)
	circleColor, _ := ParseColor(style.CircleColor)

	var inside, outside plotter.XYs
	for _, d := range detections {
		xy := plotter.XY{X: d.X, Y: d.Y}
		if d.Detected {
			inside = append(inside, xy)
		} else {
			outside = append(outside, xy)
		}
	}

	p := gplot.New()
	p.Title.Text = style.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	p.Title.Padding = vg.Points(20)
	p.X.Label.Text = style.XLabel
	p.Y.Label.Text = style.YLabel
	for _, ax := range []*gplot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(labelSize)
		ax.Tick.Label.Font.Size = vg.Points(tickSize)
	}

	grid := plotter.NewGrid()
	gridStyle := draw.LineStyle{
		Color:  gridColor,
		Width:  vg.Points(0.5),
		Dashes: []vg.Length{vg.Points(3), vg.Points(2)},
	}
	grid.Vertical = gridStyle
	grid.Horizontal = gridStyle
	p.Add(grid)

	outsideScatter, err := newScatter(outside, withAlpha(outsideColor, style.PointAlpha), style.PointRadius)
	if err != nil {
		return nil, err
	}
	insideScatter, err := newScatter(inside, withAlpha(insideColor, style.PointAlpha), style.PointRadius)
	if err != nil {
		return nil, err
	}
	if len(outside) > 0 {
		p.Add(outsideScatter)
	}
	if len(inside) > 0 {
		p.Add(insideScatter)
	}

	circle, err := unitCircle(circleColor)
	if err != nil {
		return nil, err
	}
	p.Add(circle)

	p.Legend.Add(InsideLabel, insideScatter)
	p.Legend.Add(OutsideLabel, outsideScatter)
	p.Legend.Add(CircleLabel, circle)
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(legendSize)

	// Fixed after Add, which widens the ranges to fit the data.
	p.X.Min, p.X.Max = -style.AxisBound, style.AxisBound
	p.Y.Min, p.Y.Max = -style.AxisBound, style.AxisBound

	return &figure{plot: p, annotation: Annotation(pi, style), style: style}, nil
}

func newScatter(xys plotter.XYs, c color.Color, radius float64) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(radius)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}

func unitCircle(c color.Color) (*plotter.Line, error) {
	xys := make(plotter.XYs, circleSegments+1)
	for i := range xys {
		theta := 2 * math.Pi * float64(i) / circleSegments
		xys[i] = plotter.XY{X: detector.Radius * math.Cos(theta), Y: detector.Radius * math.Sin(theta)}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build circle: %w", err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	return line, nil
}

func (f *figure) draw(dc draw.Canvas) {
	area := draw.Crop(dc, 0, 0, vg.Points(annotationBand), 0)
	area = squareData(f.plot, area)
	f.plot.Draw(area)

	data := f.plot.DataCanvas(area)
	sty := draw.TextStyle{
		Color:   color.Black,
		Font:    font.From(gplot.DefaultFont, vg.Points(annotationSize)),
		Handler: gplot.DefaultTextHandler,
	}
	pt := vg.Point{X: data.Min.X, Y: dc.Min.Y + vg.Points(annotationBand)/4}
	dc.FillText(sty, pt, f.annotation)
}

// squareData trims the draw area so the data rectangle is square, which keeps
// the unit circle round for equal axis bounds.
func squareData(p *gplot.Plot, area draw.Canvas) draw.Canvas {
	data := p.DataCanvas(area)
	w := data.Max.X - data.Min.X
	h := data.Max.Y - data.Min.Y
	switch {
	case w > h:
		return draw.Crop(area, 0, -(w - h), 0, 0)
	case h > w:
		return draw.Crop(area, 0, 0, 0, -(h - w))
	default:
		return area
	}
}

func (f *figure) writeTo(w io.Writer, format string) error {
	size := vg.Length(f.style.Size) * vg.Inch
	var out io.WriterTo
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		c := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(f.style.DPI))
		f.draw(draw.New(c))
		switch format {
		case "png":
			out = vgimg.PngCanvas{Canvas: c}
		case "jpg", "jpeg":
			out = vgimg.JpegCanvas{Canvas: c}
		default:
			out = vgimg.TiffCanvas{Canvas: c}
		}
	case "svg":
		c := vgsvg.New(size, size)
		f.draw(draw.New(c))
		out = c
	case "pdf":
		c := vgpdf.New(size, size)
		f.draw(draw.New(c))
		out = c
	case "eps":
		c := vgeps.New(size, size)
		f.draw(draw.New(c))
		out = c
	default:
		return fmt.Errorf("unsupported plot format %q", format)
	}
	_, err := out.WriteTo(w)
	return err
}

func formatFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported plot format %q (use one of %s)", ext, strings.Join(Formats, ", "))
}
