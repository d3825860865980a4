package charts

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBarRendersPNGAndSVG(t *testing.T) {
	r := NewRenderer(640, 360)
	series := &analysis.BarSeries{
		Title:  "Bar Chart: district vs cases",
		X:      "district",
		Y:      "cases",
		Labels: []string{"Kisumu", "Siaya"},
		Values: []analysis.Number{12, 4},
	}

	var png bytes.Buffer
	require.NoError(t, r.Bar(&png, series, FormatPNG))
	assert.True(t, bytes.HasPrefix(png.Bytes(), pngSignature))

	var svg bytes.Buffer
	require.NoError(t, r.Bar(&svg, series, FormatSVG))
	assert.True(t, strings.Contains(svg.String(), "<svg"))
}

func TestBarWithEqualValues(t *testing.T) {
	r := NewRenderer(640, 360)
	series := &analysis.BarSeries{Labels: []string{"a"}, Values: []analysis.Number{0}}

	var buf bytes.Buffer
	assert.NoError(t, r.Bar(&buf, series, FormatPNG))
}

func TestBarWithoutRows(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(640, 360).Bar(&buf, &analysis.BarSeries{}, FormatPNG)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLineRenders(t *testing.T) {
	r := NewRenderer(640, 360)
	cases := map[string]*analysis.LineSeries{
		"numeric x": {
			XNumeric: true,
			XValues:  []analysis.Number{3, 1, 2},
			YValues:  []analysis.Number{5, 6, 7},
		},
		"labelled x": {
			XValues: []analysis.Number{0, 1},
			Labels:  []string{"Jan", "Feb"},
			YValues: []analysis.Number{2, 2},
		},
		"single point": {
			XValues: []analysis.Number{0},
			Labels:  []string{"Jan"},
			YValues: []analysis.Number{9},
		},
	}
	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Line(&buf, series, FormatPNG))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
		})
	}
}

func TestDonutSkipsNonPositiveSlices(t *testing.T) {
	r := NewRenderer(480, 480)
	donut := &analysis.DonutChart{
		Title: "Donut Chart: C",
		Slices: []analysis.DonutSlice{
			{Label: "X", Value: 1},
			{Label: "Y", Value: 2},
			{Label: "Z", Value: 0},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Donut(&buf, donut, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	empty := &analysis.DonutChart{Slices: []analysis.DonutSlice{{Label: "Z", Value: -1}}}
	err := r.Donut(&buf, empty, FormatPNG)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestHeatmapRendersPNG(t *testing.T) {
	m := &analysis.CorrelationMatrix{
		Columns: []string{"a", "b", "flat"},
		Values: [][]analysis.Number{
			{1, 0.5, analysis.Number(math.NaN())},
			{0.5, 1, analysis.Number(math.NaN())},
			{analysis.Number(math.NaN()), analysis.Number(math.NaN()), analysis.Number(math.NaN())},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(640, 480).Heatmap(&buf, m, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestHeatmapNeedsTwoColumns(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(640, 480).Heatmap(&buf, &analysis.CorrelationMatrix{Columns: []string{"a"}}, FormatPNG)
	assert.Equal(t, errors.CodePreconditionFailed, errors.GetCode(err))
}

func TestCorrelationGridPutsFirstColumnOnTop(t *testing.T) {
	grid := correlationGrid{m: &analysis.CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]analysis.Number{{1, 0.25}, {0.25, 1}},
	}}

	c, r := grid.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 0.25, grid.Z(1, 1), "top row holds the first column")
	assert.Equal(t, 1.0, grid.Z(1, 0))
}

func TestLabelTicksThinsLongAxes(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = string(rune('a' + i%26))
	}
	ticks := labelTicks(labels)
	assert.LessOrEqual(t, len(ticks), maxTickLabels)
	assert.Equal(t, "a", ticks[0].Label)
}
