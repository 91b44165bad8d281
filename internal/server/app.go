// Package server wires the media server: object-store backend, upload
// ledger, Prometheus metrics endpoint and the gRPC media service, and
// stops them together on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/logging"
	"github.com/dmitrijs2005/csomedia/internal/server/config"
	"github.com/dmitrijs2005/csomedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/csomedia/internal/server/services"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gs "github.com/dmitrijs2005/csomedia/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	media    *services.MediaService
}

// newStore builds the object-store backend selected in c.
func newStore(ctx context.Context, c *config.Config) (objectstore.Store, error) {
	switch c.StorageBackend {
	case config.BackendS3:
		return objectstore.NewS3Store(ctx, objectstore.S3Config{
			Region:        c.S3Region,
			Endpoint:      c.S3BaseEndpoint,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			PublicBaseURL: c.PublicBaseURL,
		})
	case config.BackendGCS:
		return objectstore.NewGCSStore(ctx, objectstore.GCSConfig{
			CredentialsFile:   c.GCSCredentialsFile,
			Endpoint:          c.GCSEndpoint,
			SigningEmail:      c.GCSSigningEmail,
			SigningPrivateKey: c.GCSSigningKey,
			PublicBaseURL:     c.PublicBaseURL,
		})
	case config.BackendMemory:
		base := c.PublicBaseURL
		if base == "" {
			base = "http://localhost/storage/v1/object/public"
		}
		return objectstore.NewMemoryStore(base), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, "json", c.LogLevel)

	store, err := newStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	observer, err := storage.NewPrometheusObserver("", registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	client := storage.NewClient(store, logger, storage.WithObserver(observer))

	var db *sql.DB
	var rm repomanager.RepositoryManager
	if c.DatabaseDSN != "" {
		db, err = repomanager.OpenDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migrations error: %w", err)
		}
	} else {
		logger.Warn(ctx, "database DSN not set, upload ledger disabled")
	}

	media := services.NewMediaService(client, db, rm, c, logger)

	return &App{config: c, logger: logger, db: db, registry: registry, media: media}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.media, app.config.SecretKey, app.config.MaxMessageBytes)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}
}
