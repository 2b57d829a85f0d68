package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
)

// healthResp: payload ответа /health.
type healthResp struct {
	OK     bool                  `json:"ok"`
	Role   string                `json:"role"`
	Stores []filesvc.StoreHealth `json:"stores"`
}

// health проверяет доступность всех стораджей.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stores := s.Health.Check(r.Context(), s.Registry)

	resp := healthResp{OK: true, Role: s.Cfg.Role, Stores: stores}
	for _, st := range stores {
		if !st.OK {
			resp.OK = false
		}
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
