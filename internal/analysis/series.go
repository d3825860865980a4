package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// DonutUnavailable is the warning shown when the dataset cannot feed a donut chart
const DonutUnavailable = "No categorical or numerical columns available for donut chart."

// BarSeries is Y summed per distinct X label, labels in first-appearance order
type BarSeries struct {
	Title  string   `json:"title"`
	X      string   `json:"x"`
	Y      string   `json:"y"`
	Labels []string `json:"labels"`
	Values []Number `json:"values"`
}

// LineSeries keeps row order. When X is not numeric, XValues are row positions and
// Labels carry the X texts.
type LineSeries struct {
	Title    string   `json:"title"`
	X        string   `json:"x"`
	Y        string   `json:"y"`
	XNumeric bool     `json:"x_numeric"`
	XValues  []Number `json:"x_values"`
	Labels   []string `json:"labels,omitempty"`
	YValues  []Number `json:"y_values"`
}

// DonutSlice is one category's total and its share of the positive total
type DonutSlice struct {
	Label string `json:"label"`
	Value Number `json:"value"`
	Share Number `json:"share"`
}

// DonutChart is a category column summed over a value column
type DonutChart struct {
	Title    string       `json:"title"`
	Category string       `json:"category"`
	Value    string       `json:"value"`
	Total    Number       `json:"total"`
	Slices   []DonutSlice `json:"slices"`
}

// Bar builds the bar chart series for x and y
func Bar(ds *dataset.Dataset, x, y string) (*BarSeries, error) {
	xcol, ycol, err := axes(ds, x, y)
	if err != nil {
		return nil, err
	}
	yvals, err := coerceStrict(ycol)
	if err != nil {
		return nil, err
	}

	series := &BarSeries{Title: fmt.Sprintf("Bar Chart: %s vs %s", x, y), X: x, Y: y}
	index := make(map[string]int)
	for i := 0; i < xcol.Len(); i++ {
		label := xcol.Text(i)
		j, ok := index[label]
		if !ok {
			j = len(series.Labels)
			index[label] = j
			series.Labels = append(series.Labels, label)
			series.Values = append(series.Values, 0)
		}
		series.Values[j] += Number(yvals[i])
	}
	return series, nil
}

// Line builds the line chart series for x and y
func Line(ds *dataset.Dataset, x, y string) (*LineSeries, error) {
	xcol, ycol, err := axes(ds, x, y)
	if err != nil {
		return nil, err
	}
	yvals, err := coerceStrict(ycol)
	if err != nil {
		return nil, err
	}

	series := &LineSeries{
		Title:   fmt.Sprintf("Line Chart: %s vs %s", x, y),
		X:       x,
		Y:       y,
		YValues: numbersOf(yvals),
	}
	if xvals, ok := xcol.Numbers(); ok {
		series.XNumeric = true
		series.XValues = numbersOf(xvals)
		return series, nil
	}
	series.XValues = make([]Number, xcol.Len())
	for i := range series.XValues {
		series.XValues[i] = Number(i)
	}
	series.Labels = xcol.Texts()
	return series, nil
}

// Donut sums value per category. The value column is coerced to numbers with invalid
// cells counted as 0.
func Donut(ds *dataset.Dataset, category, value string) (*DonutChart, error) {
	if len(ds.CategoricalColumns()) == 0 || len(ds.NumericColumns()) == 0 {
		return nil, errors.PreconditionFailed(DonutUnavailable)
	}
	catcol, err := ds.Column(category)
	if err != nil {
		return nil, err
	}
	if catcol.Kind != dataset.KindCategorical {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q is not categorical", category))
	}
	valcol, err := ds.Column(value)
	if err != nil {
		return nil, err
	}

	chart := &DonutChart{Title: "Donut Chart: " + category, Category: category, Value: value}
	index := make(map[string]int)
	for i := 0; i < catcol.Len(); i++ {
		v, ok := valcol.Float(i)
		if !ok {
			v = 0
		}
		label := catcol.Text(i)
		j, seen := index[label]
		if !seen {
			j = len(chart.Slices)
			index[label] = j
			chart.Slices = append(chart.Slices, DonutSlice{Label: label})
		}
		chart.Slices[j].Value += Number(v)
	}

	for _, s := range chart.Slices {
		if s.Value > 0 {
			chart.Total += s.Value
		}
	}
	for i := range chart.Slices {
		if chart.Slices[i].Value > 0 && chart.Total > 0 {
			chart.Slices[i].Share = chart.Slices[i].Value / chart.Total
		}
	}
	return chart, nil
}

func axes(ds *dataset.Dataset, x, y string) (*dataset.Column, *dataset.Column, error) {
	xcol, err := ds.Column(x)
	if err != nil {
		return nil, nil, err
	}
	ycol, err := ds.Column(y)
	if err != nil {
		return nil, nil, err
	}
	return xcol, ycol, nil
}

// coerceStrict converts every cell of col to a number, failing on the first cell that
// is not numeric
func coerceStrict(col *dataset.Column) ([]float64, error) {
	if values, ok := col.Numbers(); ok {
		return values, nil
	}
	out := make([]float64, col.Len())
	for i := range out {
		v, ok := col.Float(i)
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"column %q cannot be plotted as a value axis: %q at row %d is not numeric",
				col.Name, col.Text(i), i))
		}
		out[i] = v
	}
	return out, nil
}

func parseNumber(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return v, err == nil
}
