package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/charts"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/postgres"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/adapters/tabular"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/app"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/config"
	apperrors "github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/migration"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ports"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/ui"
)

//go:embed ui/templates/*.html ui/static/*
var embeddedFiles embed.FS

// initDatabase connects to PostgreSQL and brings the snapshot schema up to date
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to database")
	}
	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if appConfig.Database.ResetOnBoot {
		if err := migrator.Reset(ctx, db); err != nil {
			db.Close()
			return nil, apperrors.Wrap(err, "database reset failed")
		}
	}
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "database migration failed")
	}

	log.Printf("Database ready (schema %s)", migrator.Version())
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	internal.DefaultLogger.SetLevel(logger.GetLevel())
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snapshots ports.SnapshotRepository
	if appConfig.Database.Enabled() {
		db, err := initDatabase(ctx, appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		snapshots = postgres.NewSnapshotRepository(db)
	} else {
		log.Println("DATABASE_URL not set, load snapshots disabled")
	}

	var source ports.DatasetSource
	switch appConfig.Data.Source {
	case config.SourcePostgres:
		source = postgres.NewSnapshotSource(snapshots)
	default:
		source = tabular.NewDataReader(appConfig.Data.File)
	}

	service := app.NewDashboardService(
		source,
		snapshots,
		charts.NewRenderer(appConfig.Render.ChartWidth, appConfig.Render.ChartHeight),
		app.DashboardConfig{
			Defaults: dataset.Defaults{
				PreviewColumns: appConfig.Data.PreviewDefaultColumns,
				HeatmapColumns: appConfig.Data.HeatmapDefaultColumns,
			},
			PreviewRowLimit: appConfig.Data.PreviewRowLimit,
		},
		logger,
	)

	if _, err := service.Load(ctx); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	server, err := ui.NewServer(embeddedFiles, service, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Starting dashboard on http://localhost:%s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down dashboard")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
