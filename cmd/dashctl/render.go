package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...)
}

func printSummary(w io.Writer, s *analysis.ColumnSummary) {
	fmt.Fprintln(w, titleStyle.Render("Summary of "+s.Column))

	facts := [][2]string{
		{"Unique Values", strconv.Itoa(s.Unique)},
		{"Most Common Value", s.Mode},
		{"Missing Values", strconv.Itoa(s.Missing)},
		{"Filled At Load", strconv.Itoa(s.FilledAtLoad)},
		{"Data Type", s.DType},
	}
	if s.Kind != dataset.KindCategorical {
		facts = append(facts,
			[2]string{"Mean", s.Mean.Format2()},
			[2]string{"Median", s.Median.Format2()},
			[2]string{"Standard Deviation", s.StdDev.Format2()},
		)
	}
	for _, f := range facts {
		fmt.Fprintf(w, "- %s %s\n", labelStyle.Render(f[0]+":"), f[1])
	}

	if s.Kind == dataset.KindCategorical {
		fmt.Fprintln(w, labelStyle.Render("Frequent Values:"))
		t := newTable(s.Column, "count")
		for _, vc := range s.Frequencies {
			t.Row(vc.Value, strconv.Itoa(vc.Count))
		}
		fmt.Fprintln(w, t.Render())
	}
}

func printDescribe(w io.Writer, d *analysis.DescribeTable) {
	t := newTable(append([]string{""}, d.Stats...)...)
	for _, row := range d.Rows {
		t.Row(append([]string{row.Column}, row.Cells()...)...)
	}
	fmt.Fprintln(w, titleStyle.Render("Data Summary Statistics"))
	fmt.Fprintln(w, t.Render())
}

func printCorrelation(w io.Writer, m *analysis.CorrelationMatrix) {
	t := newTable(append([]string{""}, m.Columns...)...)
	for i, name := range m.Columns {
		cells := []string{name}
		for _, v := range m.Values[i] {
			cells = append(cells, v.Format2())
		}
		t.Row(cells...)
	}
	fmt.Fprintln(w, titleStyle.Render("Correlation Matrix"))
	fmt.Fprintln(w, t.Render())
}
