package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// dashboardView is the data handed to dashboard.html
type dashboardView struct {
	*app.Page
	SummaryHTML template.HTML
	Query       string
	Charts      []chartView
}

// chartView pairs a chart panel with the URL of its image
type chartView struct {
	*app.ChartPanel
	ImageURL string
}

// axisView feeds the X/Y select pair shared by the bar and line panels
type axisView struct {
	Label   string
	Prefix  string
	Columns []dataset.ColumnMeta
	X       string
	Y       string
}

func axisArgs(label, prefix string, columns []dataset.ColumnMeta, x, y string) axisView {
	return axisView{Label: label, Prefix: prefix, Columns: columns, X: x, Y: y}
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// errorView is the data handed to error.html
type errorView struct {
	Status  int
	Message string
}

func newDashboardView(page *app.Page) *dashboardView {
	query := selectionQuery(page.Selection).Encode()
	view := &dashboardView{Page: page, Query: query}
	if page.Summary != nil {
		view.SummaryHTML = template.HTML(page.Summary.HTML())
	}
	for _, panel := range page.Charts {
		view.Charts = append(view.Charts, chartView{
			ChartPanel: panel,
			ImageURL:   "/charts/" + string(panel.Kind) + ".png?" + query,
		})
	}
	return view
}

// selectionQuery encodes a resolved selection so chart images redraw the same choices
func selectionQuery(sel dataset.Selection) url.Values {
	q := url.Values{}
	for _, c := range sel.PreviewColumns {
		q.Add(keyColumns, c)
	}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set(keySummary, sel.SummaryColumn)
	set(keyBarX, sel.BarX)
	set(keyBarY, sel.BarY)
	set(keyLineX, sel.LineX)
	set(keyLineY, sel.LineY)
	set(keyDonutX, sel.DonutCategory)
	set(keyDonutY, sel.DonutValue)
	for _, c := range sel.HeatmapColumns {
		q.Add(keyHeatmap, c)
	}
	if sel.PreviewChosen {
		q.Set(keyColumnsChosen, "1")
	}
	if sel.HeatmapChosen {
		q.Set(keyHeatmapChosen, "1")
	}
	return q
}

// renderTemplate executes into a buffer so a template error never sends a partial page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[renderTemplate] Failed to render %s: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to render template",
			"code":  errors.CodeRenderError,
		})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
