package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sir_venger/ufs_lite/internal/models"
	adapters "github.com/sir_venger/ufs_lite/internal/usecase/filesvc/adapters/storage"
	"gopkg.in/yaml.v3"
)

// Роли процесса: server отдаёт файлы и создаёт каталоги, client только строит ссылки.
const (
	RoleServer = "server"
	RoleClient = "client"
)

// Виды стораджей.
const (
	KindLocal = "local"
	KindS3    = "s3"
)

type Config struct {
	ListenAddr string        `yaml:"listen_addr" json:"listen_addr"`
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	Role       string        `yaml:"role" json:"role"`
	MetaDSN    string        `yaml:"meta_dsn" json:"meta_dsn"`
	LogLevel   string        `yaml:"log_level" json:"log_level"`
	GC         GCConfig      `yaml:"gc" json:"gc"`
	Stores     []StoreConfig `yaml:"stores" json:"stores"`
}

// GCConfig управляет фоновым удалением файлов без метаданных.
type GCConfig struct {
	TTL   time.Duration `yaml:"ttl" json:"ttl"`
	Every time.Duration `yaml:"every" json:"every"`
}

// StoreConfig описывает один именованный сторадж.
type StoreConfig struct {
	Name     string `yaml:"name" json:"name"`
	Kind     string `yaml:"kind" json:"kind"`
	Path     string `yaml:"path,omitempty" json:"path,omitempty"`
	Bucket   string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// Default возвращает конфигурацию с одним локальным стораджем в ufs/uploads.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		BaseURL:    "http://localhost:8080",
		Role:       RoleServer,
		MetaDSN:    "memory://",
		LogLevel:   "info",
		GC:         GCConfig{TTL: 24 * time.Hour, Every: 30 * time.Minute},
		Stores:     []StoreConfig{{Name: "uploads", Kind: KindLocal, Path: adapters.DefaultLocalPath}},
	}
}

// Load читает YAML-конфигурацию, применяет ENV-переопределения и возвращает актуальную структуру.
// Если файла нет, берутся значения по умолчанию.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ROLE"); v != "" {
		c.Role = v
	}
	if v := os.Getenv("META_DSN"); v != "" {
		c.MetaDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STORES"); v != "" {
		c.Stores = parseStores(v)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Role == "" {
		c.Role = RoleServer
	}
	for i := range c.Stores {
		if c.Stores[i].Kind == "" {
			c.Stores[i].Kind = KindLocal
		}
		if c.Stores[i].Kind == KindLocal && c.Stores[i].Path == "" {
			c.Stores[i].Path = adapters.DefaultLocalPath
		}
	}
}

// Validate проверяет конфигурацию; ошибки оборачивают models.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Role != RoleServer && c.Role != RoleClient {
		return fmt.Errorf("%w: unknown role %q", models.ErrInvalidConfig, c.Role)
	}

	seen := make(map[string]struct{}, len(c.Stores))
	for _, s := range c.Stores {
		name := strings.TrimSpace(s.Name)
		if name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: invalid store name %q", models.ErrInvalidConfig, s.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate store %q", models.ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}

		switch s.Kind {
		case KindLocal, "":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("%w: store %q: path is empty", models.ErrInvalidConfig, name)
			}
		case KindS3:
			if strings.TrimSpace(s.Bucket) == "" {
				return fmt.Errorf("%w: store %q: bucket is empty", models.ErrInvalidConfig, name)
			}
		default:
			return fmt.Errorf("%w: store %q: unknown kind %q", models.ErrInvalidConfig, name, s.Kind)
		}
	}

	return nil
}

// parseStores разбирает STORES=name=path,name2=path2 в список локальных стораджей.
func parseStores(s string) []StoreConfig {
	var out []StoreConfig
	for _, p := range splitComma(s) {
		name, path, ok := strings.Cut(p, "=")
		if !ok {
			name, path = p, ""
		}
		out = append(out, StoreConfig{
			Name: strings.TrimSpace(name),
			Kind: KindLocal,
			Path: strings.TrimSpace(path),
		})
	}

	return out
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
