package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// ColumnSummary describes one column. Categorical columns carry Frequencies; numeric
// and boolean columns carry Mean, Median and StdDev.
type ColumnSummary struct {
	Column       string             `json:"column"`
	Kind         dataset.ColumnKind `json:"kind"`
	DType        string             `json:"dtype"`
	Unique       int                `json:"unique"`
	Mode         string             `json:"mode"`
	Missing      int                `json:"missing"`
	FilledAtLoad int                `json:"filled_at_load"`
	Frequencies  []ValueCount       `json:"frequencies,omitempty"`
	Mean         *Number            `json:"mean,omitempty"`
	Median       *Number            `json:"median,omitempty"`
	StdDev       *Number            `json:"std,omitempty"`
}

// Summarize builds the summary panel for the named column
func Summarize(ds *dataset.Dataset, column string) (*ColumnSummary, error) {
	col, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	counts := ValueCounts(col)
	mode, _ := Mode(col)
	summary := &ColumnSummary{
		Column:       col.Name,
		Kind:         col.Kind,
		DType:        col.DType,
		Unique:       len(counts),
		Mode:         mode,
		Missing:      col.MissingCount(),
		FilledAtLoad: col.FilledAtLoad,
	}

	switch col.Kind {
	case dataset.KindCategorical:
		summary.Frequencies = counts
	default:
		values, _ := col.Numbers()
		mean, median, std := centralTendency(values)
		summary.Mean, summary.Median, summary.StdDev = &mean, &median, &std
	}
	return summary, nil
}

// centralTendency returns mean, median and sample standard deviation; undefined
// statistics come back as NaN
func centralTendency(values []float64) (Number, Number, Number) {
	nan := Number(math.NaN())
	if len(values) == 0 {
		return nan, nan, nan
	}
	data := stats.Float64Data(values)

	mean, err := stats.Mean(data)
	if err != nil {
		mean = math.NaN()
	}
	median, err := stats.Median(data)
	if err != nil {
		median = math.NaN()
	}
	std := math.NaN()
	if len(values) > 1 {
		if s, err := stats.StandardDeviationSample(data); err == nil {
			std = s
		}
	}
	return Number(mean), Number(median), Number(std)
}

// Markdown renders the summary as the dashboard's bullet list
func (s *ColumnSummary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Summary of %s\n\n", escapeMarkdown(s.Column))
	fmt.Fprintf(&b, "- **Unique Values:** %d\n", s.Unique)
	fmt.Fprintf(&b, "- **Most Common Value:** %s\n", escapeMarkdown(s.Mode))
	fmt.Fprintf(&b, "- **Missing Values:** %d\n", s.Missing)
	fmt.Fprintf(&b, "- **Filled At Load:** %d\n", s.FilledAtLoad)
	fmt.Fprintf(&b, "- **Data Type:** %s\n", s.DType)

	if s.Kind == dataset.KindCategorical {
		b.WriteString("- **Frequent Values:**\n\n")
		fmt.Fprintf(&b, "| %s | count |\n|---|---:|\n", escapeMarkdown(s.Column))
		for _, vc := range s.Frequencies {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeMarkdown(vc.Value), vc.Count)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "- **Mean:** %s\n", s.Mean.Format2())
	fmt.Fprintf(&b, "- **Median:** %s\n", s.Median.Format2())
	fmt.Fprintf(&b, "- **Standard Deviation:** %s\n", s.StdDev.Format2())
	return b.String()
}

// HTML converts the markdown summary to an HTML fragment. Raw HTML in cell values is
// dropped by the renderer.
func (s *ColumnSummary) HTML() string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return string(markdown.ToHTML([]byte(s.Markdown()), p, renderer))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`|`, `\|`, `<`, `\<`, `>`, `\>`, `#`, `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
