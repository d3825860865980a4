package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/charts"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

// WarningHeader carries a chart precondition message on an empty image response
const WarningHeader = "X-Dashboard-Warning"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleIndex serves the dashboard page for the query's selection
func (s *Server) handleIndex(c *gin.Context) {
	page, err := s.service.Page(c.Request.Context(), selectionFromQuery(c))
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("[Dashboard] Page failed: %v", err)
		}
		s.renderTemplate(c, status, "error.html", errorView{Status: status, Message: errors.Message(err)})
		return
	}
	s.renderTemplate(c, http.StatusOK, "dashboard.html", newDashboardView(page))
}

func (s *Server) handleHealth(c *gin.Context) {
	info, err := s.service.Info()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": errors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"dataset": info.Name,
		"rows":    info.Rows,
	})
}

func (s *Server) handlePage(c *gin.Context) {
	page, err := s.service.Page(c.Request.Context(), selectionFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleDatasetInfo(c *gin.Context) {
	info, err := s.service.Info()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleReload(c *gin.Context) {
	info, err := s.service.Reload(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleColumns(c *gin.Context) {
	columns, err := s.service.Columns()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"count":   len(columns),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.service.Summary(selectionFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  summary,
		"markdown": summary.Markdown(),
	})
}

// handlePreview returns the preview table; limit defaults to the configured row cap and
// 0 returns every row
func (s *Server) handlePreview(c *gin.Context) {
	limit := s.service.PreviewRowLimit()
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf("limit must be a non-negative integer, got %q", limitStr)))
			return
		}
		limit = n
	}

	table, err := s.service.Preview(selectionFromQuery(c), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleDescribe(c *gin.Context) {
	table, err := s.service.Describe()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleChartData(c *gin.Context) {
	kind, err := app.ParseChartKind(c.Param("kind"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	data, err := s.service.ChartData(kind, selectionFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// handleChartImage renders /charts/<kind>.<png|svg>
func (s *Server) handleChartImage(c *gin.Context) {
	file := c.Param("file")
	ext := path.Ext(file)

	kind, err := app.ParseChartKind(strings.TrimSuffix(file, ext))
	if err != nil {
		s.respondError(c, err)
		return
	}
	format, err := charts.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.service.RenderChart(&buf, kind, selectionFromQuery(c), format); err != nil {
		if errors.HasCode(err, errors.CodePreconditionFailed) {
			c.Header(WarningHeader, errors.Message(err))
			c.Status(http.StatusNoContent)
			return
		}
		s.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// exportName is the base name of every download
const exportName = "filtered_data"

// handleDownload serves the whole cleaned dataset as filtered_data.csv or .xlsx
func (s *Server) handleDownload(c *gin.Context) {
	file := c.Param("file")

	var (
		format      app.ExportFormat
		contentType string
	)
	switch file {
	case exportName + ".csv":
		format, contentType = app.ExportCSV, "text/csv; charset=utf-8"
	case exportName + ".xlsx":
		format, contentType = app.ExportXLSX, xlsxContentType
	default:
		s.respondError(c, errors.NotFound(fmt.Sprintf("download %q", file)))
		return
	}

	var buf bytes.Buffer
	if err := s.service.Export(&buf, format); err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleSnapshots(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	snapshots, err := s.service.Snapshots(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// respondError maps an error's code to a status. Precondition failures are warnings,
// not errors, and come back as 200.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodePreconditionFailed {
		c.JSON(http.StatusOK, gin.H{"warning": errors.Message(err)})
		return
	}

	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": errors.Message(err),
		"code":  code,
	})
}

func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case errors.CodePreconditionFailed:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
