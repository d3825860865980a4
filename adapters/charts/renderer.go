package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// Format is an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// maxTickLabels caps how many category labels an X axis shows
const maxTickLabels = 12

// ParseFormat accepts "png", "svg" or "" (png)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported image format %q", s))
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Renderer draws chart series as images of a fixed size
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer producing width x height images
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

// Bar renders a bar per label
func (r *Renderer) Bar(w io.Writer, s *analysis.BarSeries, format Format) error {
	if len(s.Labels) == 0 {
		return errors.InvalidInput("bar chart has no rows to plot")
	}

	bars := make([]chart.Value, len(s.Labels))
	values := make([]float64, len(s.Values))
	for i, label := range s.Labels {
		values[i] = float64(s.Values[i])
		bars[i] = chart.Value{Label: label, Value: values[i]}
	}
	lo, hi := valueRange(values, true)

	barWidth := (r.Width - 120) / len(bars) * 2 / 3
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 2 {
		barWidth = 2
	}

	graph := chart.BarChart{
		Title:      s.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		YAxis:      chart.YAxis{Name: s.Y, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Bars:       bars,
	}
	if err := graph.Render(format.provider(), w); err != nil {
		return errors.RenderError("bar", err)
	}
	return nil
}

// Line renders y against x in row order
func (r *Renderer) Line(w io.Writer, s *analysis.LineSeries, format Format) error {
	if len(s.YValues) == 0 {
		return errors.InvalidInput("line chart has no rows to plot")
	}

	xs := make([]float64, len(s.XValues))
	for i, v := range s.XValues {
		xs[i] = float64(v)
	}
	ys := make([]float64, len(s.YValues))
	for i, v := range s.YValues {
		ys[i] = float64(v)
	}
	// go-chart needs two X values to size the axis
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	xlo, xhi := valueRange(xs, false)
	ylo, yhi := valueRange(ys, false)
	xAxis := chart.XAxis{Name: s.X, Range: &chart.ContinuousRange{Min: xlo, Max: xhi}}
	if !s.XNumeric {
		xAxis.Ticks = labelTicks(s.Labels)
	}

	graph := chart.Chart{
		Title:      s.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: s.Y, Range: &chart.ContinuousRange{Min: ylo, Max: yhi}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: s.Y, XValues: xs, YValues: ys},
		},
	}
	if err := graph.Render(format.provider(), w); err != nil {
		return errors.RenderError("line", err)
	}
	return nil
}

// Donut renders the positive slices of a donut chart
func (r *Renderer) Donut(w io.Writer, d *analysis.DonutChart, format Format) error {
	var values []chart.Value
	for _, slice := range d.Slices {
		if slice.Value > 0 && slice.Value.Valid() {
			values = append(values, chart.Value{Label: slice.Label, Value: float64(slice.Value)})
		}
	}
	if len(values) == 0 {
		return errors.InvalidInput(fmt.Sprintf("donut chart has no positive values in %q", d.Value))
	}

	graph := chart.DonutChart{
		Title:      d.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Values:     values,
	}
	if err := graph.Render(format.provider(), w); err != nil {
		return errors.RenderError("donut", err)
	}
	return nil
}

// valueRange returns axis bounds covering values. A degenerate range is widened so the
// axis has non-zero height.
func valueRange(values []float64, fromZero bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if fromZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi <= lo {
		return lo - 1, hi + 1
	}
	return lo, hi
}

// labelTicks places category labels at their row positions, thinning them to at most
// maxTickLabels
func labelTicks(labels []string) []chart.Tick {
	step := 1
	if len(labels) > maxTickLabels {
		step = (len(labels) + maxTickLabels - 1) / maxTickLabels
	}
	ticks := make([]chart.Tick, 0, maxTickLabels+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	if len(labels) == 1 {
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}
	return ticks
}
