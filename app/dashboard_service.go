package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/charts"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/tabular"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ports"
)

// ChartKind names one of the chart panels
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartDonut   ChartKind = "donut"
	ChartHeatmap ChartKind = "heatmap"
)

// ParseChartKind validates a chart name taken from a URL
func ParseChartKind(name string) (ChartKind, error) {
	switch kind := ChartKind(name); kind {
	case ChartBar, ChartLine, ChartDonut, ChartHeatmap:
		return kind, nil
	default:
		return "", errors.NotFound(fmt.Sprintf("chart %q", name))
	}
}

// ExportFormat is a download file type
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// DatasetInfo is the dataset overview shown at the top of the dashboard
type DatasetInfo struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	FilledCells int       `json:"filled_cells"`
	Numeric     []string  `json:"numeric_columns"`
	Categorical []string  `json:"categorical_columns"`
	LoadedAt    time.Time `json:"loaded_at"`
	Checksum    core.Hash `json:"checksum,omitempty"`
}

// DashboardConfig holds the service's tunables
type DashboardConfig struct {
	Defaults        dataset.Defaults
	PreviewRowLimit int
}

// DashboardService owns the current dataset and answers every panel request from it
type DashboardService struct {
	source    ports.DatasetSource
	snapshots ports.SnapshotRepository
	renderer  *charts.Renderer
	config    DashboardConfig
	logger    *internal.Logger

	mu       sync.RWMutex
	current  *dataset.Dataset
	checksum core.Hash
}

// NewDashboardService creates the dashboard service. snapshots may be nil when no
// database is configured.
func NewDashboardService(source ports.DatasetSource, snapshots ports.SnapshotRepository, renderer *charts.Renderer, config DashboardConfig, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		source:    source,
		snapshots: snapshots,
		renderer:  renderer,
		config:    config,
		logger:    logger,
	}
}

// Load reads the dataset from the source and makes it current. On failure the
// previous dataset, if any, stays in place.
func (s *DashboardService) Load(ctx context.Context) (*dataset.Dataset, error) {
	startTime := time.Now()
	s.logger.Info("[Dashboard] Loading dataset from %s", s.source)

	ds, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("[Dashboard] Failed to load dataset from %s: %v", s.source, err)
		return nil, err
	}

	checksum, err := tabular.Checksum(ds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to checksum dataset")
	}

	s.mu.Lock()
	s.current = ds
	s.checksum = checksum
	s.mu.Unlock()

	s.logger.Info("[Dashboard] Loaded %s: %d rows, %d columns, %d cells filled (%s) in %v",
		ds.Name, ds.RowCount(), ds.ColumnCount(), ds.FilledCells(), checksum.Short(), time.Since(startTime))

	s.saveSnapshot(ctx, ds, checksum)
	return ds, nil
}

// Reload re-reads the source; an alias of Load for the reload endpoint
func (s *DashboardService) Reload(ctx context.Context) (*DatasetInfo, error) {
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.Info()
}

// saveSnapshot records the load. Failures are logged and never reach the caller.
func (s *DashboardService) saveSnapshot(ctx context.Context, ds *dataset.Dataset, checksum core.Hash) {
	if s.snapshots == nil {
		return
	}

	if latest, err := s.snapshots.Latest(ctx); err == nil && latest.Checksum == checksum {
		s.logger.Debug("[Dashboard] Dataset unchanged since snapshot %s, not saving", latest.ID)
		return
	}

	snap := dataset.NewSnapshot(ds, checksum)
	if err := s.snapshots.Save(ctx, snap, ds); err != nil {
		s.logger.Warn("[Dashboard] Failed to save snapshot: %v", err)
		return
	}
	s.logger.Info("[Dashboard] Saved snapshot %s", snap.ID)
}

// Dataset returns the current dataset
func (s *DashboardService) Dataset() (*dataset.Dataset, error) {
	ds, _, err := s.pinned()
	return ds, err
}

// pinned returns the current dataset and its checksum as one consistent pair
func (s *DashboardService) pinned() (*dataset.Dataset, core.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, "", errors.InternalError("dataset not loaded")
	}
	return s.current, s.checksum, nil
}

// Info describes the current dataset
func (s *DashboardService) Info() (*DatasetInfo, error) {
	ds, checksum, err := s.pinned()
	if err != nil {
		return nil, err
	}
	return infoOf(ds, checksum), nil
}

func infoOf(ds *dataset.Dataset, checksum core.Hash) *DatasetInfo {
	return &DatasetInfo{
		Name:        ds.Name,
		Source:      ds.Source,
		Rows:        ds.RowCount(),
		Columns:     ds.ColumnCount(),
		FilledCells: ds.FilledCells(),
		Numeric:     ds.NumericColumns(),
		Categorical: ds.CategoricalColumns(),
		LoadedAt:    ds.LoadedAt,
		Checksum:    checksum,
	}
}

// Columns lists every column with its kind and dtype
func (s *DashboardService) Columns() ([]dataset.ColumnMeta, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Describe(), nil
}

// resolve pins the current dataset and fills the selection's defaults against it
func (s *DashboardService) resolve(sel dataset.Selection) (*dataset.Dataset, dataset.Selection, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, sel, err
	}
	return ds, sel.Resolve(ds, s.config.Defaults), nil
}

// Summary computes the column summary panel
func (s *DashboardService) Summary(sel dataset.Selection) (*analysis.ColumnSummary, error) {
	ds, sel, err := s.resolve(sel)
	if err != nil {
		return nil, err
	}
	return analysis.Summarize(ds, sel.SummaryColumn)
}

// Preview computes the preview table; limit <= 0 returns every row
func (s *DashboardService) Preview(sel dataset.Selection, limit int) (*analysis.Table, error) {
	ds, sel, err := s.resolve(sel)
	if err != nil {
		return nil, err
	}
	return analysis.Preview(ds, sel.PreviewColumns, limit)
}

// Describe computes the descriptive statistics table
func (s *DashboardService) Describe() (*analysis.DescribeTable, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return analysis.Describe(ds), nil
}

// ChartData computes the chart-ready data for one chart kind
func (s *DashboardService) ChartData(kind ChartKind, sel dataset.Selection) (interface{}, error) {
	ds, sel, err := s.resolve(sel)
	if err != nil {
		return nil, err
	}
	return chartData(ds, kind, sel)
}

func chartData(ds *dataset.Dataset, kind ChartKind, sel dataset.Selection) (interface{}, error) {
	switch kind {
	case ChartBar:
		return analysis.Bar(ds, sel.BarX, sel.BarY)
	case ChartLine:
		return analysis.Line(ds, sel.LineX, sel.LineY)
	case ChartDonut:
		return analysis.Donut(ds, sel.DonutCategory, sel.DonutValue)
	case ChartHeatmap:
		return analysis.Correlate(ds, sel.HeatmapColumns)
	default:
		return nil, errors.NotFound(fmt.Sprintf("chart %q", kind))
	}
}

// RenderChart draws one chart as an image into w
func (s *DashboardService) RenderChart(w io.Writer, kind ChartKind, sel dataset.Selection, format charts.Format) error {
	data, err := s.ChartData(kind, sel)
	if err != nil {
		return err
	}

	switch d := data.(type) {
	case *analysis.BarSeries:
		return s.renderer.Bar(w, d, format)
	case *analysis.LineSeries:
		return s.renderer.Line(w, d, format)
	case *analysis.DonutChart:
		return s.renderer.Donut(w, d, format)
	case *analysis.CorrelationMatrix:
		return s.renderer.Heatmap(w, d, format)
	default:
		return errors.InternalError(fmt.Sprintf("no renderer for %T", data))
	}
}

// Export writes the whole cleaned dataset, ignoring any selection
func (s *DashboardService) Export(w io.Writer, format ExportFormat) error {
	ds, err := s.Dataset()
	if err != nil {
		return err
	}
	switch format {
	case ExportCSV:
		return tabular.WriteCSV(w, ds)
	case ExportXLSX:
		return tabular.WriteXLSX(w, ds)
	default:
		return errors.NotFound(fmt.Sprintf("export format %q", format))
	}
}

// Snapshots lists stored load snapshots, newest first
func (s *DashboardService) Snapshots(ctx context.Context, limit int) ([]*dataset.Snapshot, error) {
	if s.snapshots == nil {
		return nil, errors.NotFound("snapshot store")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.snapshots.List(ctx, limit)
}

// PreviewRowLimit is the configured HTML preview cap
func (s *DashboardService) PreviewRowLimit() int {
	return s.config.PreviewRowLimit
}
