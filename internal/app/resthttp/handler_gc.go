package resthttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
)

const manualGCTTL = 24 * time.Hour

// gcOnce вручную запускает удаление файлов без метаданных.
func (s *Server) gcOnce(w http.ResponseWriter, r *http.Request) {
	ttl := s.Cfg.GC.TTL
	if ttl <= 0 {
		ttl = manualGCTTL
	}
	if v := r.URL.Query().Get("ttl"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			http.Error(w, "invalid ttl", http.StatusBadRequest)
			return
		}
		ttl = d
	}

	removed := filesvc.SweepOnce(r.Context(), s.Registry, ttl, s.Logger)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"removed": removed})
}
