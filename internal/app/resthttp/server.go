package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sir_venger/ufs_lite/internal/app/ufshttp"
	"github.com/sir_venger/ufs_lite/internal/config"
	"github.com/sir_venger/ufs_lite/internal/repo"
	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
	adapters "github.com/sir_venger/ufs_lite/internal/usecase/filesvc/adapters/storage"
	"go.uber.org/zap"
)

type Server struct {
	FilesService filesvc.Service
	Registry     *filesvc.Registry
	Meta         repo.Store
	Health       *filesvc.HealthAdapter
	Metrics      *ufshttp.Metrics
	Cfg          *config.Config
	Logger       *zap.Logger
}

// NewServer собирает метаданные, реестр стораджей и HTTP-маршруты.
// В роли server перед роутером стоит файловый middleware /ufs/...
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (http.Handler, *Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	metaStore, err := repo.Open(ctx, cfg.MetaDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open meta: %w", err)
	}

	registry, err := buildRegistry(ctx, cfg, metaStore, logger)
	if err != nil {
		_ = metaStore.Close()
		return nil, nil, err
	}

	srv := &Server{
		FilesService: filesvc.New(filesvc.Deps{
			MetaStorage: metaStore,
			Registry:    registry,
			Logger:      logger,
		}),
		Registry: registry,
		Meta:     metaStore,
		Health:   filesvc.NewHealthAdapter(0),
		Metrics:  ufshttp.NewMetrics(),
		Cfg:      cfg,
		Logger:   logger,
	}

	return srv.routes(), srv, nil
}

func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.Recoverer)

	rtr.Route("/api/stores/{store}/files", func(fr chi.Router) {
		fr.Post("/", s.postFiles)
		fr.Post("/delete", s.deleteFiles)
		fr.Get("/{id}/url", s.getFileURL)
		fr.Delete("/{id}", s.deleteFile)
	})
	rtr.Get("/health", s.health)
	rtr.Handle("/metrics", s.Metrics.Handler())
	rtr.Get("/admin/config", s.adminConfig)
	if s.Cfg.Role == config.RoleServer {
		rtr.Post("/admin/gc", s.gcOnce)
	}

	var h http.Handler = rtr
	if s.Cfg.Role == config.RoleServer {
		h = ufshttp.New(s.Registry, s.Logger, s.Metrics).Middleware(rtr)
	}

	return requestLog(s.Logger)(h)
}

func (s *Server) adminConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Cfg)
}

// Close освобождает подключения к метаданным.
func (s *Server) Close() error {
	return s.Meta.Close()
}

// buildRegistry создаёт стораджи из конфига. Каталоги создаются только в роли server.
func buildRegistry(ctx context.Context, cfg *config.Config, meta adapters.MetaLookup, logger *zap.Logger) (*filesvc.Registry, error) {
	registry, _ := filesvc.NewRegistry()
	bootstrap := cfg.Role == config.RoleServer

	for _, sc := range cfg.Stores {
		var (
			st  filesvc.Store
			err error
		)
		switch sc.Kind {
		case config.KindS3:
			st, err = adapters.NewS3Store(ctx, adapters.S3Config{
				Name:     sc.Name,
				Bucket:   sc.Bucket,
				Prefix:   sc.Prefix,
				Region:   sc.Region,
				Endpoint: sc.Endpoint,
				BaseURL:  cfg.BaseURL,
			}, meta, logger)
		default:
			st, err = adapters.NewLocalStore(adapters.LocalConfig{
				Name:      sc.Name,
				Path:      sc.Path,
				BaseURL:   cfg.BaseURL,
				Bootstrap: bootstrap,
			}, meta, logger)
		}
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", sc.Name, err)
		}
		if err = registry.Register(st); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
