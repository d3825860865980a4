package ui

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

// Query keys shared by the page form, the chart image URLs and the JSON API
const (
	keyColumns = "columns"
	keySummary = "summary"
	keyBarX    = "bar_x"
	keyBarY    = "bar_y"
	keyLineX   = "line_x"
	keyLineY   = "line_y"
	keyDonutX  = "donut_x"
	keyDonutY  = "donut_y"
	keyHeatmap = "heatmap"

	// sent by the page form alongside each multi-select
	keyColumnsChosen = "columns_set"
	keyHeatmapChosen = "heatmap_set"
)

// selectionFromQuery rebuilds the user's choices from the request. Multi-selects
// repeat their key once per chosen column; blank values are dropped. A multi-select
// counts as chosen when its marker key is present, even with no columns.
func selectionFromQuery(c *gin.Context) dataset.Selection {
	return dataset.Selection{
		PreviewColumns: multiQuery(c, keyColumns),
		SummaryColumn:  singleQuery(c, keySummary),
		BarX:           singleQuery(c, keyBarX),
		BarY:           singleQuery(c, keyBarY),
		LineX:          singleQuery(c, keyLineX),
		LineY:          singleQuery(c, keyLineY),
		DonutCategory:  singleQuery(c, keyDonutX),
		DonutValue:     singleQuery(c, keyDonutY),
		HeatmapColumns: multiQuery(c, keyHeatmap),
		PreviewChosen:  hasQuery(c, keyColumnsChosen),
		HeatmapChosen:  hasQuery(c, keyHeatmapChosen),
	}
}

func hasQuery(c *gin.Context, key string) bool {
	_, ok := c.GetQuery(key)
	return ok
}

func singleQuery(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

func multiQuery(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
