// Package wire provides dependency injection for the escrituras application.
// It creates singleton collaborators with lazy initialization.
package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	cliadapter "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/cli"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/filesystem"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/httpapi"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/rest"
	s3store "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/s3"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/session"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/adapters/sqlite"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/app"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/config"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/db"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// collaborators are the secondary adapters selected by the configuration.
type collaborators struct {
	tramites  secondary.TramiteRepository
	catalog   secondary.CatalogRepository
	documents secondary.DocumentStore
	session   secondary.SessionProvider
}

var (
	configPath string

	cfg     *config.Config
	logger  *slog.Logger
	collabs *collaborators
	initErr error
	once    sync.Once
)

// SetConfigPath selects the config file. Must be called before any accessor.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	once.Do(initCollaborators)
	return cfg, initErr
}

// Logger returns the application logger, or a discarding one when
// initialization failed.
func Logger() *slog.Logger {
	once.Do(initCollaborators)
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// initCollaborators loads the configuration and builds the secondary adapters.
// This is called once via sync.Once.
func initCollaborators() {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			initErr = err
			return
		}
		path = p
	}

	cfg, initErr = config.Load(path)
	if initErr != nil {
		return
	}
	logger = NewLogger(os.Stderr, cfg.Log)

	collabs, initErr = buildCollaborators(context.Background(), cfg, logger)
	if initErr == nil {
		logger.Debug("collaborators ready", "backend", cfg.Backend, "pdf_store", cfg.PDF.Store)
	}
}

// NewLogger builds the slog logger described by lc.
func NewLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func buildCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*collaborators, error) {
	c := &collaborators{}

	switch cfg.Backend {
	case config.BackendREST:
		client, err := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout, rest.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		provider, err := session.NewFileProvider(cfg.Session.Path)
		if err != nil {
			return nil, err
		}
		c.tramites = rest.NewTramiteRepository(client)
		c.catalog = rest.NewCatalogRepository(client)
		c.documents = rest.NewPDFStore(client)
		c.session = provider
		return c, nil

	case config.BackendSQLite:
		if cfg.DB.Path != "" {
			db.SetPath(cfg.DB.Path)
		}
		database, err := db.GetDB()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.tramites = sqlite.NewTramiteRepository(database)
		c.catalog = sqlite.NewCatalogRepository(database)
		c.session = session.NewOfflineProvider(cfg.Session.OfflineRole)

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	switch cfg.PDF.Store {
	case config.StoreS3:
		store, err := s3store.NewPDFStore(ctx, s3store.Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			URLExpiry:       cfg.S3.URLExpiry,
		})
		if err != nil {
			return nil, err
		}
		c.documents = store
	default:
		store, err := filesystem.NewPDFStore(cfg.PDF.Dir)
		if err != nil {
			return nil, err
		}
		c.documents = store
	}
	return c, nil
}

// Services bundles the primary ports built over the configured collaborators.
type Services struct {
	Tramites  *app.TramiteServiceImpl
	Documents *app.DocumentServiceImpl
	Catalog   *app.CatalogServiceImpl
	Session   *app.SessionServiceImpl
}

// NewServices builds the services with the given confirmer. Each call creates
// new services over the shared collaborators.
func NewServices(confirmer secondary.Confirmer) (*Services, error) {
	once.Do(initCollaborators)
	if initErr != nil {
		return nil, initErr
	}
	opt := app.WithLogger(logger)
	return &Services{
		Tramites:  app.NewTramiteService(collabs.tramites, collabs.catalog, collabs.session, confirmer, opt),
		Documents: app.NewDocumentService(collabs.tramites, collabs.documents, collabs.session, confirmer, opt),
		Catalog:   app.NewCatalogService(collabs.catalog, collabs.session, opt),
		Session:   app.NewSessionService(collabs.session, opt),
	}, nil
}

// Adapters bundles the CLI output adapters.
type Adapters struct {
	Tramite  *cliadapter.TramiteAdapter
	Document *cliadapter.DocumentAdapter
	Catalog  *cliadapter.CatalogAdapter
	Session  *cliadapter.SessionAdapter
}

// CLIAdapters returns adapters writing to out and prompting on in.
func CLIAdapters(in io.Reader, out io.Writer) (*Adapters, error) {
	svc, err := NewServices(cliadapter.NewPromptConfirmer(in, out))
	if err != nil {
		return nil, err
	}
	return &Adapters{
		Tramite:  cliadapter.NewTramiteAdapter(svc.Tramites, out),
		Document: cliadapter.NewDocumentAdapter(svc.Documents, out),
		Catalog:  cliadapter.NewCatalogAdapter(svc.Catalog, out),
		Session:  cliadapter.NewSessionAdapter(svc.Session, out),
	}, nil
}

// APIHandler returns the JSON API handler with metrics registered on reg.
// Destructive calls over the API are confirmed by the caller's request itself.
func APIHandler(reg *prometheus.Registry) (*httpapi.Handler, error) {
	svc, err := NewServices(cliadapter.AutoConfirmer{Answer: true})
	if err != nil {
		return nil, err
	}
	return httpapi.New(svc.Tramites, svc.Documents, svc.Catalog, Logger(), httpapi.NewMetrics(reg)), nil
}
