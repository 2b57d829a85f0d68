package ufsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/pkg/ufsproto"
)

type UploadRequest struct {
	FileName    string
	ContentType string
	Reader      io.Reader
	// Size используется только для прогресс-бара; 0, если неизвестен.
	Size int64
}

type Client interface {
	// Upload Положить файл в сторадж
	Upload(ctx context.Context, baseURL, store string, req UploadRequest) (models.UploadResult, error)
	// Download Скачать файл по ссылке; тело уже распаковано
	Download(ctx context.Context, fileURL string) (io.ReadCloser, error)
	// Delete Удалить файл и его метаданные
	Delete(ctx context.Context, baseURL, store, fileID string) error
}

type Option func(*httpClient)

// WithProgress включает ASCII-прогресс в out.
func WithProgress(out io.Writer) Option {
	return func(h *httpClient) { h.progress = out }
}

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

type httpClient struct {
	c        *http.Client
	progress io.Writer
}

// New создаёт HTTP-клиент по умолчанию.
func New(opts ...Option) Client {
	h := &httpClient{c: &http.Client{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Upload отправляет файл одним запросом.
func (h *httpClient) Upload(ctx context.Context, baseURL, store string, req UploadRequest) (models.UploadResult, error) {
	u := fmt.Sprintf(ufsproto.UploadPathFormat, strings.TrimRight(baseURL, "/"), store)

	bar := newProgressBar(h.progress, fmt.Sprintf("Uploading %s", req.FileName), req.Size)
	body := req.Reader
	if bar != nil && body != nil {
		body = io.TeeReader(req.Reader, progressWriter{bar: bar})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		bar.Fail(err)
		return models.UploadResult{}, err
	}
	if req.Size > 0 {
		httpReq.ContentLength = req.Size
	}
	httpReq.Header.Set(ufsproto.HeaderFileName, req.FileName)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		bar.Fail(err)
		return models.UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("upload failed: %s", resp.Status)
		bar.Fail(err)
		return models.UploadResult{}, err
	}

	var out models.UploadResult
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		bar.Fail(err)
		return models.UploadResult{}, err
	}

	bar.Finish()
	return out, nil
}

// Download скачивает файл, сам договаривается о сжатии и распаковывает тело.
func (h *httpClient) Download(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}

	bar := newProgressBar(h.progress, "Downloading "+fileURL, resp.ContentLength)
	bar.render(true, "")
	raw := newProgressReadCloser(resp.Body, bar)

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			raw.Close()
			return nil, err
		}
		return &decodedBody{Reader: zr, dec: zr, raw: raw}, nil
	case "deflate":
		zr, err := zlib.NewReader(raw)
		if err != nil {
			raw.Close()
			return nil, err
		}
		return &decodedBody{Reader: zr, dec: zr, raw: raw}, nil
	default:
		return raw, nil
	}
}

// Delete удаляет файл.
func (h *httpClient) Delete(ctx context.Context, baseURL, store, fileID string) error {
	u := fmt.Sprintf(ufsproto.FilePathFormat, strings.TrimRight(baseURL, "/"), store, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return models.ErrNotFound
	default:
		return fmt.Errorf("delete failed: %s", resp.Status)
	}
}

// decodedBody закрывает и декомпрессор, и исходное тело ответа.
type decodedBody struct {
	io.Reader
	dec io.Closer
	raw io.Closer
}

func (d *decodedBody) Close() error {
	decErr := d.dec.Close()
	if err := d.raw.Close(); err != nil {
		return err
	}
	return decErr
}
