package ufshttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
	"go.uber.org/zap"
)

const (
	fallbackContentType = "application/octet-stream"
	unknownStoreLabel   = "unknown"
)

// fetchFile проводит запрос по цепочке: сторадж → запись → поток → кодирование → ответ.
func (a *Server) fetchFile(w http.ResponseWriter, r *http.Request, req *fileRequest) {
	ctx := r.Context()
	logger := a.logger.With(zap.String("store", req.storeName), zap.String("file_id", req.fileID))

	store, ok := a.registry.Get(req.storeName)
	if !ok {
		a.fail(w, unknownStoreLabel, http.StatusNotFound)
		return
	}

	file, err := store.Record(ctx, req.fileID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			a.fail(w, req.storeName, http.StatusNotFound)
			return
		}
		logger.Error("cannot load file record", zap.Error(err))
		a.fail(w, req.storeName, http.StatusInternalServerError)
		return
	}

	rs, err := store.GetReadStream(ctx, req.fileID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.Warn("file record exists but bytes are missing")
			a.fail(w, req.storeName, http.StatusNotFound)
			return
		}
		logger.Error("cannot read file", zap.Error(err))
		a.fail(w, req.storeName, http.StatusInternalServerError)
		return
	}
	defer rs.Close()

	encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
	contentType := file.Type
	if contentType == "" {
		contentType = fallbackContentType
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	if encoding != encodingIdentity {
		h.Set("Content-Encoding", encoding)
	}
	w.WriteHeader(http.StatusOK)

	n, err := a.stream(w, r, rs, encoding)
	a.metrics.observe(req.storeName, encoding, http.StatusOK, n)
	if err != nil {
		// заголовки уже ушли, остаётся только оборвать тело
		logger.Warn("stream aborted", zap.Int64("bytes", n), zap.Error(err))
	}
}

// stream копирует файл в ответ, при необходимости через компрессор.
// Медленный клиент блокирует Write, а значит и чтение из стоража.
func (a *Server) stream(w http.ResponseWriter, r *http.Request, rs io.Reader, encoding string) (int64, error) {
	src := filesvc.NewContextReader(r.Context(), rs)

	enc := newEncoder(w, encoding)
	if enc == nil {
		return io.Copy(w, src)
	}

	n, err := io.Copy(enc, src)
	closeErr := enc.Close()
	if err != nil {
		return n, err
	}
	return n, closeErr
}

// fail отвечает пустым телом. storeLabel уже проверен по реестру,
// чтобы произвольные имена из URL не раздували метки метрик.
func (a *Server) fail(w http.ResponseWriter, storeLabel string, status int) {
	a.metrics.observe(storeLabel, encodingIdentity, status, 0)
	w.WriteHeader(status)
}
