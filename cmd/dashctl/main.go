package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/charts"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/tabular"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/analysis"
)

// options are the root flags shared by every subcommand
type options struct {
	file     string
	logLevel string
	width    int
	height   int
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect the malaria dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", envOr("DATA_FILE", "malaria_hf_dqa.csv"), "CSV or xlsx dataset")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "WARN"), "ERROR|WARN|INFO|DEBUG|TRACE")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 800, "Chart width in pixels")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", 450, "Chart height in pixels")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newDescribeCmd(opts),
		newCorrelateCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
	)
	return rootCmd
}

// load reads the dataset into a dashboard service so the CLI answers exactly as the web UI does
func (o *options) load(ctx context.Context) (*app.DashboardService, error) {
	logger := internal.NewLogger(internal.ParseLogLevel(o.logLevel))
	service := app.NewDashboardService(
		tabular.NewDataReader(o.file),
		nil,
		charts.NewRenderer(o.width, o.height),
		app.DashboardConfig{Defaults: dataset.DefaultDefaults()},
		logger,
	)
	if _, err := service.Load(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [column]",
		Short: "Summarize one column (defaults to the first)",
		Long: `Print the column summary panel: unique values, most common value, missing values,
data type and either the frequent values or mean, median and standard deviation.

Example: dashctl summary district -f malaria_hf_dqa.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			sel := dataset.Selection{}
			if len(args) == 1 {
				sel.SummaryColumn = args[0]
			}
			summary, err := service.Summary(sel)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newDescribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print descriptive statistics for every numeric column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			table, err := service.Describe()
			if err != nil {
				return err
			}
			printDescribe(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newCorrelateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate [column...]",
		Short: "Print the Pearson correlation matrix of numeric columns",
		Long: `Print the correlation matrix the heatmap draws. Without arguments the first five
numeric columns are used.

Example: dashctl correlate cases tested positive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			data, err := service.ChartData(app.ChartHeatmap, dataset.Selection{HeatmapColumns: args})
			if err != nil {
				return err
			}
			printCorrelation(cmd.OutOrStdout(), data.(*analysis.CorrelationMatrix))
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cleaned dataset as CSV or xlsx",
		Long: `Write the whole cleaned dataset, missing cells already filled, exactly as the
dashboard's download button does.

Example: dashctl export --format xlsx --out filtered_data.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat := app.ExportFormat(strings.ToLower(format))
			if exportFormat != app.ExportCSV && exportFormat != app.ExportXLSX {
				return fmt.Errorf("unsupported export format %q (use csv or xlsx)", format)
			}

			service, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return service.Export(w, exportFormat)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv|xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newChartCmd(opts *options) *cobra.Command {
	var (
		x, y, out, format string
		columns           []string
	)

	cmd := &cobra.Command{
		Use:   "chart [bar|line|donut|heatmap]",
		Short: "Render one dashboard chart to an image file",
		Long: `Render a chart with the same rules as the dashboard. --x and --y pick the axes for
bar and line, the category and value for donut; --columns picks the heatmap columns.

Example: dashctl chart bar --x district --y confirmed_cases --out bar.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := app.ParseChartKind(args[0])
			if err != nil {
				return err
			}
			imageFormat, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s.%s", kind, imageFormat)
			}

			service, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			sel := chartSelection(kind, x, y, columns)
			if err := writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return service.RenderChart(w, kind, sel, imageFormat)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "X axis, or donut category")
	cmd.Flags().StringVar(&y, "y", "", "Y axis, or donut values")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Heatmap columns")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default <kind>.<format>)")
	cmd.Flags().StringVar(&format, "format", "png", "Image format: png|svg")
	return cmd
}

// chartSelection maps the generic --x/--y flags onto the chart's own selection fields
func chartSelection(kind app.ChartKind, x, y string, columns []string) dataset.Selection {
	sel := dataset.Selection{HeatmapColumns: columns}
	switch kind {
	case app.ChartBar:
		sel.BarX, sel.BarY = x, y
	case app.ChartLine:
		sel.LineX, sel.LineY = x, y
	case app.ChartDonut:
		sel.DonutCategory, sel.DonutValue = x, y
	}
	return sel
}

// writeOutput runs write against the named file, or stdout when path is empty or "-".
// A failed write removes the partial file.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
