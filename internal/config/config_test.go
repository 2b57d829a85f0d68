package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sir_venger/ufs_lite/internal/models"
	adapters "github.com/sir_venger/ufs_lite/internal/usecase/filesvc/adapters/storage"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Role != RoleServer || c.ListenAddr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if len(c.Stores) != 1 || c.Stores[0].Path != adapters.DefaultLocalPath || c.Stores[0].Kind != KindLocal {
		t.Fatalf("stores = %+v", c.Stores)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	writeConfig(t, `
listen_addr: ":9000"
base_url: "https://cdn.example.com"
role: client
gc:
  ttl: 1h
  every: 5m
stores:
  - name: photos
  - name: archive
    kind: s3
    bucket: my-bucket
    prefix: ufs
`)
	t.Setenv("LISTEN_ADDR", ":9100")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.ListenAddr != ":9100" || c.BaseURL != "https://cdn.example.com" || c.Role != RoleClient {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.GC.TTL != time.Hour || c.GC.Every != 5*time.Minute {
		t.Fatalf("gc = %+v", c.GC)
	}
	if c.Stores[0].Kind != KindLocal || c.Stores[0].Path != adapters.DefaultLocalPath {
		t.Fatalf("local store defaults not applied: %+v", c.Stores[0])
	}
	if c.Stores[1].Bucket != "my-bucket" {
		t.Fatalf("s3 store = %+v", c.Stores[1])
	}
}

func TestLoad_StoresEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("STORES", "photos=/srv/photos, docs")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Stores) != 2 {
		t.Fatalf("stores = %+v", c.Stores)
	}
	if c.Stores[0].Name != "photos" || c.Stores[0].Path != "/srv/photos" {
		t.Fatalf("stores[0] = %+v", c.Stores[0])
	}
	if c.Stores[1].Name != "docs" || c.Stores[1].Path != adapters.DefaultLocalPath {
		t.Fatalf("stores[1] = %+v", c.Stores[1])
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]Config{
		"unknown role":   {Role: "proxy"},
		"empty name":     {Role: RoleServer, Stores: []StoreConfig{{Kind: KindLocal, Path: "x"}}},
		"slash in name":  {Role: RoleServer, Stores: []StoreConfig{{Name: "a/b", Kind: KindLocal, Path: "x"}}},
		"duplicate name": {Role: RoleServer, Stores: []StoreConfig{{Name: "a", Path: "x"}, {Name: "a", Path: "y"}}},
		"empty path":     {Role: RoleServer, Stores: []StoreConfig{{Name: "a", Kind: KindLocal}}},
		"empty bucket":   {Role: RoleServer, Stores: []StoreConfig{{Name: "a", Kind: KindS3}}},
		"unknown kind":   {Role: RoleServer, Stores: []StoreConfig{{Name: "a", Kind: "ftp"}}},
	}

	for name, c := range cases {
		if err := c.Validate(); !errors.Is(err, models.ErrInvalidConfig) {
			t.Errorf("%s: got %v", name, err)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}

func TestLoad_BrokenYAML(t *testing.T) {
	writeConfig(t, "stores: [")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
