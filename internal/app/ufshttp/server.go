package ufshttp

import (
	"net/http"

	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
	"go.uber.org/zap"
)

// Server отдаёт файлы из стораджей реестра.
type Server struct {
	registry *filesvc.Registry
	logger   *zap.Logger
	metrics  *Metrics
}

// New создаёт файловый сервер поверх реестра стораджей. metrics может быть nil.
func New(registry *filesvc.Registry, logger *zap.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// Middleware перехватывает /ufs/{store}/{file}, всё остальное передаёт в next без изменений.
func (a *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := parseFileRequest(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		a.fetchFile(w, r, req)
	})
}

// Handler: самостоятельный обработчик: всё, что не /ufs/..., получает 404.
func (a *Server) Handler() http.Handler {
	return a.Middleware(http.NotFoundHandler())
}
