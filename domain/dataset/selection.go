package dataset

// Selection is the set of user choices active for one request. It is rebuilt from
// request parameters every time and never stored.
type Selection struct {
	PreviewColumns []string `json:"columns,omitempty"`
	SummaryColumn  string   `json:"summary,omitempty"`
	BarX           string   `json:"bar_x,omitempty"`
	BarY           string   `json:"bar_y,omitempty"`
	LineX          string   `json:"line_x,omitempty"`
	LineY          string   `json:"line_y,omitempty"`
	DonutCategory  string   `json:"donut_x,omitempty"`
	DonutValue     string   `json:"donut_y,omitempty"`
	HeatmapColumns []string `json:"heatmap,omitempty"`

	// PreviewChosen and HeatmapChosen mark a submitted multi-select, so an empty
	// choice stays empty instead of falling back to the defaults.
	PreviewChosen bool `json:"-"`
	HeatmapChosen bool `json:"-"`
}

// Defaults controls how many columns the multi-selects start with
type Defaults struct {
	PreviewColumns int
	HeatmapColumns int
}

// DefaultDefaults mirrors the first-five behaviour of both multi-selects
func DefaultDefaults() Defaults {
	return Defaults{PreviewColumns: 5, HeatmapColumns: 5}
}

// Resolve fills every unset choice with its default for ds: the first column for
// single selects, the first N columns for the preview, the first categorical/numeric
// column for the donut and the first N numeric columns for the heatmap. A chosen
// multi-select is never defaulted, even when empty.
func (s Selection) Resolve(ds *Dataset, d Defaults) Selection {
	names := ds.ColumnNames()
	first := ""
	if len(names) > 0 {
		first = names[0]
	}

	out := s
	if len(out.PreviewColumns) == 0 && !out.PreviewChosen {
		out.PreviewColumns = head(names, d.PreviewColumns)
	}
	if out.SummaryColumn == "" {
		out.SummaryColumn = first
	}
	if out.BarX == "" {
		out.BarX = first
	}
	if out.BarY == "" {
		out.BarY = first
	}
	if out.LineX == "" {
		out.LineX = first
	}
	if out.LineY == "" {
		out.LineY = first
	}
	if out.DonutCategory == "" {
		if cats := ds.CategoricalColumns(); len(cats) > 0 {
			out.DonutCategory = cats[0]
		}
	}
	if out.DonutValue == "" {
		if nums := ds.NumericColumns(); len(nums) > 0 {
			out.DonutValue = nums[0]
		}
	}
	if len(out.HeatmapColumns) == 0 && !out.HeatmapChosen {
		out.HeatmapColumns = head(ds.NumericColumns(), d.HeatmapColumns)
	}
	return out
}

func head(names []string, n int) []string {
	if n > len(names) {
		n = len(names)
	}
	out := make([]string, n)
	copy(out, names[:n])
	return out
}
