package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal"
)

// Server represents the web server for the dashboard
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	templates *template.Template
	files     fs.FS
	logger    *internal.Logger
}

// NewServer creates the web server. files must contain ui/templates and ui/static.
func NewServer(files fs.FS, service *app.DashboardService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		files:   files,
		logger:  logger,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// loadTemplates parses every page template from the embedded filesystem
func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"axisArgs": axisArgs,
		"contains": contains,
		"join":     strings.Join,
	}

	templateFS, err := fs.Sub(s.files, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to open templates: %w", err)
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	// Chart images for the dashboard's <img> tags
	s.router.GET("/charts/:file", s.handleChartImage)
	s.router.GET("/download/:file", s.handleDownload)

	api := s.router.Group("/api")
	{
		api.GET("/dataset", s.handleDatasetInfo)
		api.POST("/dataset/reload", s.handleReload)
		api.GET("/columns", s.handleColumns)
		api.GET("/summary", s.handleSummary)
		api.GET("/preview", s.handlePreview)
		api.GET("/describe", s.handleDescribe)
		api.GET("/charts/:kind", s.handleChartData)
		api.GET("/page", s.handlePage)
		api.GET("/snapshots", s.handleSnapshots)
	}
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}
