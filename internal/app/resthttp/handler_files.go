package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/pkg/httperrors"
)

type fileURLResp struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

type deleteFilesRequest struct {
	FileIDs []string `json:"file_ids"`
}

// getFileURL отдаёт абсолютную ссылку на файл.
func (s *Server) getFileURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.ValidID(id) {
		httperrors.Write(w, models.ErrInvalidFileID)
		return
	}

	url, err := s.FilesService.FileURL(r.Context(), chi.URLParam(r, "store"), id)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(fileURLResp{FileID: id, URL: url})
}

// deleteFile удаляет байты файла и его запись.
func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.ValidID(id) {
		httperrors.Write(w, models.ErrInvalidFileID)
		return
	}

	if err := s.FilesService.Delete(r.Context(), chi.URLParam(r, "store"), id); err != nil {
		httperrors.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteFiles удаляет пачку файлов одного стоража.
func (s *Server) deleteFiles(w http.ResponseWriter, r *http.Request) {
	var payload deleteFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(payload.FileIDs) == 0 {
		http.Error(w, "file_ids list is empty", http.StatusBadRequest)
		return
	}
	for _, id := range payload.FileIDs {
		if !models.ValidID(id) {
			httperrors.Write(w, models.ErrInvalidFileID)
			return
		}
	}

	if err := s.FilesService.DeleteMany(r.Context(), chi.URLParam(r, "store"), payload.FileIDs); err != nil {
		httperrors.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
