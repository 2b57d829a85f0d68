package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/ufs_lite/internal/models"
)

// Status сопоставляет ошибку сервиса с HTTP-статусом.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStoreExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidFileID), errors.Is(err, models.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Write пишет ошибку в ответ с подходящим статусом.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}
