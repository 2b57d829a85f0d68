package resthttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/ufs_lite/pkg/httperrors"
	"github.com/sir_venger/ufs_lite/pkg/ufsproto"
)

// postFiles принимает поток данных и полностью делегирует загрузку сервису файлов.
func (s *Server) postFiles(w http.ResponseWriter, r *http.Request) {
	store := chi.URLParam(r, "store")
	filename := extractFileName(r)

	res, err := s.FilesService.Upload(r.Context(), store, r.Body, filename, r.Header.Get("Content-Type"))
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}

// extractFileName пытается вытащить имя файла из заголовков или query-параметра.
func extractFileName(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(ufsproto.HeaderFileName)); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Filename")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("filename")); v != "" {
		return v
	}
	return ""
}
