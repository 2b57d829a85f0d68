package ufshttp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/internal/repo"
	"github.com/sir_venger/ufs_lite/internal/usecase/filesvc"
	adapters "github.com/sir_venger/ufs_lite/internal/usecase/filesvc/adapters/storage"
)

const payload = "hello, ufs! hello, ufs! hello, ufs!"

type testEnv struct {
	meta     *repo.MemoryStore
	registry *filesvc.Registry
	store   *adapters.LocalStore
	metrics *Metrics
	srv     *httptest.Server
	root    string
}

// newTestEnv поднимает сервер с одним стораджем photos и файлом abc.txt.
func newTestEnv(t *testing.T, extra ...filesvc.Store) *testEnv {
	t.Helper()

	root := t.TempDir()
	meta := repo.NewMemoryStore()
	store, err := adapters.NewLocalStore(adapters.LocalConfig{Name: "photos", Path: root}, meta, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err = meta.Save(ctx, models.File{ID: "abc", Extension: "txt", Type: "text/plain"}); err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(filepath.Join(root, "abc.txt"), []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	registry, err := filesvc.NewRegistry(append([]filesvc.Store{store}, extra...)...)
	if err != nil {
		t.Fatal(err)
	}

	metrics := NewMetrics()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "next:"+r.URL.Path)
	})
	srv := httptest.NewServer(New(registry, nil, metrics).Middleware(next))
	t.Cleanup(srv.Close)

	return &testEnv{meta: meta, registry: registry, store: store, metrics: metrics, srv: srv, root: root}
}

// get выполняет запрос без прозрачной распаковки, чтобы видеть сырое тело.
func (e *testEnv) get(t *testing.T, path, acceptEncoding string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Accept-Encoding", acceptEncoding)

	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestMiddleware_PassThrough(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/health", "/ufs/photos", "/ufs/photos/a/b.txt", "/api/stores/photos/files"} {
		resp, body := env.get(t, path, "")
		if resp.StatusCode != http.StatusTeapot {
			t.Fatalf("%s: status %d, want next handler", path, resp.StatusCode)
		}
		if string(body) != "next:"+path {
			t.Fatalf("%s: body %q", path, body)
		}
	}
}

func TestFetch_UnknownStore(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/ufs/bogus/abc.txt", "gzip")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Fatalf("404 must have empty body, got %q", body)
	}
	if got := testutil.ToFloat64(env.metrics.Requests.WithLabelValues("unknown", "identity", "404")); got != 1 {
		t.Fatalf("unknown store counter = %v", got)
	}
}

func TestFetch_UnknownFile(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/ufs/photos/missing.txt", "")
	if resp.StatusCode != http.StatusNotFound || len(body) != 0 {
		t.Fatalf("got %d %q, want empty 404", resp.StatusCode, body)
	}
	if got := testutil.ToFloat64(env.metrics.Requests.WithLabelValues("photos", "identity", "404")); got != 1 {
		t.Fatalf("known store counter = %v", got)
	}
}

func TestFetch_MissingBytes(t *testing.T) {
	env := newTestEnv(t)
	if err := env.meta.Save(context.Background(), models.File{ID: "ghost", Extension: "txt"}); err != nil {
		t.Fatal(err)
	}

	resp, body := env.get(t, "/ufs/photos/ghost.txt", "")
	if resp.StatusCode != http.StatusNotFound || len(body) != 0 {
		t.Fatalf("got %d %q, want empty 404", resp.StatusCode, body)
	}
}

func TestFetch_Identity(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/ufs/photos/abc.txt", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ce := resp.Header.Get("Content-Encoding"); ce != "" {
		t.Fatalf("unexpected Content-Encoding %q", ce)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if string(body) != payload {
		t.Fatalf("body %q", body)
	}
}

func TestFetch_ExtensionInURLIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	// расширение берётся из записи, в URL оно только отбрасывается
	resp, body := env.get(t, "/ufs/photos/abc.jpg", "")
	if resp.StatusCode != http.StatusOK || string(body) != payload {
		t.Fatalf("got %d %q", resp.StatusCode, body)
	}
}

func TestFetch_Gzip(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/ufs/photos/abc.txt", "gzip")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ce := resp.Header.Get("Content-Encoding"); ce != "gzip" {
		t.Fatalf("Content-Encoding = %q", ce)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("Content-Type = %q", ct)
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("decoded %q", got)
	}
}

func TestFetch_DeflateWins(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/ufs/photos/abc.txt", "gzip, deflate")
	if ce := resp.Header.Get("Content-Encoding"); ce != "deflate" {
		t.Fatalf("Content-Encoding = %q", ce)
	}

	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("decoded %q", got)
	}

	if n := testutil.ToFloat64(env.metrics.BytesServed.WithLabelValues("photos")); n != float64(len(payload)) {
		t.Fatalf("bytes served = %v", n)
	}
}

func TestFetch_DefaultContentType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.meta.Save(ctx, models.File{ID: "raw", Extension: "dat"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.root, "raw.dat"), []byte("<html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, _ := env.get(t, "/ufs/photos/raw.dat", "")
	if ct := resp.Header.Get("Content-Type"); ct != fallbackContentType {
		t.Fatalf("Content-Type = %q, want %q", ct, fallbackContentType)
	}
}

func TestFetch_Concurrent(t *testing.T) {
	env := newTestEnv(t)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(env.srv.URL + "/ufs/photos/abc.txt")
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				errs <- err
				return
			}
			if string(body) != payload {
				errs <- errors.New("unexpected body: " + string(body))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// brokenStore знает о файле, но не может открыть его на чтение.
type brokenStore struct {
	filesvc.Store
}

func (brokenStore) Name() string { return "broken" }

func (brokenStore) Record(_ context.Context, id string) (models.File, error) {
	return models.File{ID: id, Extension: "bin"}, nil
}

func (brokenStore) GetReadStream(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func TestFetch_StreamSetupError(t *testing.T) {
	env := newTestEnv(t, brokenStore{})

	resp, body := env.get(t, "/ufs/broken/any.bin", "gzip")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Fatalf("500 must have empty body, got %q", body)
	}
	if ce := resp.Header.Get("Content-Encoding"); ce != "" {
		t.Fatalf("Content-Encoding on error: %q", ce)
	}
}

func TestHandler_Standalone(t *testing.T) {
	registry, err := filesvc.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	New(registry, nil, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404") {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestFetch_StoresAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	otherRoot := t.TempDir()
	other, err := adapters.NewLocalStore(adapters.LocalConfig{Name: "other", Path: otherRoot}, env.meta, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = env.registry.Register(other); err != nil {
		t.Fatal(err)
	}

	if err = env.meta.Save(ctx, models.File{ID: "owned", Store: "photos", Extension: "txt", Type: "text/plain"}); err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(filepath.Join(env.root, "owned.txt"), []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	// байты под тем же именем в чужом каталоге не должны отдаваться
	if err = os.WriteFile(filepath.Join(otherRoot, "owned.txt"), []byte("foreign"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, body := env.get(t, "/ufs/other/owned.txt", "")
	if resp.StatusCode != http.StatusNotFound || len(body) != 0 {
		t.Fatalf("other store: got %d %q, want empty 404", resp.StatusCode, body)
	}

	resp, body = env.get(t, "/ufs/photos/owned.txt", "")
	if resp.StatusCode != http.StatusOK || string(body) != payload {
		t.Fatalf("owner store: got %d %q", resp.StatusCode, body)
	}
}

// endlessStore отдаёт бесконечный поток, чтобы запрос можно было оборвать посреди тела.
type endlessStore struct {
	filesvc.Store
	stream *spyStream
}

func (endlessStore) Name() string { return "endless" }

func (endlessStore) Record(_ context.Context, id string) (models.File, error) {
	return models.File{ID: id, Extension: "bin"}, nil
}

func (s endlessStore) GetReadStream(context.Context, string) (io.ReadCloser, error) {
	return s.stream, nil
}

type spyStream struct {
	once   sync.Once
	closed chan struct{}
}

func newSpyStream() *spyStream { return &spyStream{closed: make(chan struct{})} }

func (*spyStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte('a' + i%26)
	}
	return len(p), nil
}

func (s *spyStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestFetch_ClientDisconnectClosesStream(t *testing.T) {
	for _, accept := range []string{"", "gzip", "deflate"} {
		t.Run("accept="+accept, func(t *testing.T) {
			stream := newSpyStream()
			registry, err := filesvc.NewRegistry(endlessStore{stream: stream})
			if err != nil {
				t.Fatal(err)
			}

			returned := make(chan struct{})
			files := New(registry, nil, nil).Handler()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer close(returned)
				files.ServeHTTP(w, r)
			}))
			defer srv.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/ufs/endless/x.bin", nil)
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Accept-Encoding", accept)

			client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
			resp, err := client.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d", resp.StatusCode)
			}
			if _, err = io.ReadFull(resp.Body, make([]byte, 1024)); err != nil {
				t.Fatalf("read first bytes: %v", err)
			}

			cancel()
			_ = resp.Body.Close()

			select {
			case <-stream.closed:
			case <-time.After(5 * time.Second):
				t.Fatal("read stream was not closed after client disconnect")
			}
			select {
			case <-returned:
			case <-time.After(5 * time.Second):
				t.Fatal("handler did not return after client disconnect")
			}
		})
	}
}
