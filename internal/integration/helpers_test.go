package integration

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sir_venger/ufs_lite/internal/app/resthttp"
	"github.com/sir_venger/ufs_lite/internal/config"
)

// startUFS поднимает полный сервис с одним локальным стораджем docs.
func startUFS(t *testing.T, metaDSN string) (*httptest.Server, *resthttp.Server, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "uploads")
	ts := httptest.NewUnstartedServer(nil)

	cfg := config.Default()
	cfg.BaseURL = "http://" + ts.Listener.Addr().String()
	cfg.MetaDSN = metaDSN
	cfg.GC = config.GCConfig{TTL: time.Hour, Every: time.Hour}
	cfg.Stores = []config.StoreConfig{{Name: "docs", Kind: config.KindLocal, Path: root}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	h, srv, err := resthttp.NewServer(context.Background(), cfg, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("new server: %v", err)
	}
	ts.Config.Handler = h
	ts.Start()
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})

	return ts, srv, root
}
