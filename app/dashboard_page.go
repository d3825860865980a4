package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// ChartPanel is one chart section of the page. A panel with a Warning or Error has no
// image.
type ChartPanel struct {
	Kind    ChartKind   `json:"kind"`
	Title   string      `json:"title"`
	Warning string      `json:"warning,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Drawable reports whether the panel should show its image
func (p ChartPanel) Drawable() bool {
	return p.Warning == "" && p.Error == ""
}

// Page is every panel of the dashboard for one selection
type Page struct {
	Info      *DatasetInfo            `json:"dataset"`
	Columns   []dataset.ColumnMeta    `json:"columns"`
	Selection dataset.Selection       `json:"selection"`
	Summary   *analysis.ColumnSummary `json:"summary,omitempty"`
	Preview   *analysis.Table         `json:"preview"`
	Describe  *analysis.DescribeTable `json:"describe"`
	Charts    []*ChartPanel           `json:"charts"`
}

// Page computes all panels concurrently against one pinned dataset. Chart
// preconditions become panel warnings and chart input errors become panel errors;
// any other panel error fails the page.
func (s *DashboardService) Page(ctx context.Context, sel dataset.Selection) (*Page, error) {
	ds, checksum, err := s.pinned()
	if err != nil {
		return nil, err
	}
	sel = sel.Resolve(ds, s.config.Defaults)

	page := &Page{
		Info:      infoOf(ds, checksum),
		Columns:   ds.Describe(),
		Selection: sel,
		Charts: []*ChartPanel{
			{Kind: ChartBar, Title: "Bar Chart"},
			{Kind: ChartLine, Title: "Line Chart"},
			{Kind: ChartDonut, Title: "Donut Chart"},
			{Kind: ChartHeatmap, Title: "Heatmap"},
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	if sel.SummaryColumn != "" {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary, err := analysis.Summarize(ds, sel.SummaryColumn)
			if err != nil {
				return err
			}
			page.Summary = summary
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		preview, err := analysis.Preview(ds, sel.PreviewColumns, s.config.PreviewRowLimit)
		if err != nil {
			return err
		}
		page.Preview = preview
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		page.Describe = analysis.Describe(ds)
		return nil
	})

	for _, panel := range page.Charts {
		panel := panel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := chartData(ds, panel.Kind, sel)
			switch {
			case err == nil:
				panel.Data = data
			case errors.HasCode(err, errors.CodePreconditionFailed):
				panel.Warning = errors.Message(err)
			case errors.HasCode(err, errors.CodeInvalidInput):
				panel.Error = errors.Message(err)
			default:
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("[Dashboard] Page failed: %v", err)
		return nil, err
	}
	return page, nil
}
