package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// HeatmapTitle is the heatmap's plot title
const HeatmapTitle = "Correlation Heatmap"

// pixelsPerInch matches the resolution vgimg uses for PNG output
const pixelsPerInch = 96

// nanCell fills correlations that are undefined
var nanCell = color.Gray{Y: 200}

// correlationGrid adapts a correlation matrix to plotter.GridXYZ with the first column
// drawn on the top row
type correlationGrid struct {
	m *analysis.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 {
	return float64(g.m.Values[g.row(r)][c])
}

func (g correlationGrid) X(c int) float64 { return float64(c) }

func (g correlationGrid) Y(r int) float64 { return float64(r) }

func (g correlationGrid) row(r int) int { return len(g.m.Columns) - 1 - r }

// Heatmap renders the matrix on a diverging blue-red scale from -1 to 1, each cell
// annotated with its value to two decimals
func (r *Renderer) Heatmap(w io.Writer, m *analysis.CorrelationMatrix, format Format) error {
	n := len(m.Columns)
	if n < 2 {
		return errors.PreconditionFailed(analysis.HeatmapNeedsColumns)
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)

	grid := correlationGrid{m: m}
	cells := plotter.NewHeatMap(grid, colors.Palette(255))
	cells.Min, cells.Max = -1, 1
	cells.NaN = nanCell

	annotations := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for row := 0; row < n; row++ {
		for c := 0; c < n; c++ {
			annotations.XYs = append(annotations.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			annotations.Labels = append(annotations.Labels, analysis.Number(grid.Z(c, row)).Format2())
		}
	}
	labels, err := plotter.NewLabels(annotations)
	if err != nil {
		return errors.RenderError("heatmap", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		if v := grid.Z(i%n, i/n); !math.IsNaN(v) && math.Abs(v) > 0.6 {
			labels.TextStyle[i].Color = color.White
		}
	}

	p := plot.New()
	p.Title.Text = HeatmapTitle
	xticks := make([]plot.Tick, n)
	yticks := make([]plot.Tick, n)
	for i, name := range m.Columns {
		xticks[i] = plot.Tick{Value: float64(i), Label: name}
		yticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.Add(cells, labels)

	width := vg.Length(float64(r.Width)/pixelsPerInch) * vg.Inch
	height := vg.Length(float64(r.Height)/pixelsPerInch) * vg.Inch
	wt, err := p.WriterTo(width, height, string(format))
	if err != nil {
		return errors.RenderError("heatmap", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.RenderError("heatmap", fmt.Errorf("write image: %w", err))
	}
	return nil
}
