// Package config loads the escrituras settings from ~/.escrituras/config.yaml
// with ESCRITURAS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend constants
const (
	BackendREST   = "rest"   // remote JSON backend
	BackendSQLite = "sqlite" // local ledger
)

// PDF store constants
const (
	StoreREST       = "rest"
	StoreS3         = "s3"
	StoreFilesystem = "filesystem"
)

// Config is the full escrituras configuration.
type Config struct {
	Backend string        `yaml:"backend"`
	API     APIConfig     `yaml:"api"`
	DB      DBConfig      `yaml:"db"`
	PDF     PDFConfig     `yaml:"pdf"`
	S3      S3Config      `yaml:"s3"`
	Session SessionConfig `yaml:"session"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig points at the remote backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DBConfig locates the local ledger.
type DBConfig struct {
	Path string `yaml:"path,omitempty"` // empty means ~/.escrituras/escrituras.db
}

// PDFConfig selects the document store.
type PDFConfig struct {
	Store string `yaml:"store"`
	Dir   string `yaml:"dir,omitempty"` // filesystem store root
}

// S3Config configures the S3 document store.
type S3Config struct {
	Bucket          string        `yaml:"bucket,omitempty"`
	Prefix          string        `yaml:"prefix,omitempty"`
	Region          string        `yaml:"region,omitempty"`
	Endpoint        string        `yaml:"endpoint,omitempty"`
	UsePathStyle    bool          `yaml:"use_path_style,omitempty"`
	AccessKeyID     string        `yaml:"access_key_id,omitempty"`
	SecretAccessKey string        `yaml:"secret_access_key,omitempty"`
	URLExpiry       time.Duration `yaml:"url_expiry,omitempty"`
}

// SessionConfig locates the stored session. OfflineRole is the role the
// sqlite backend runs under, since it has no login.
type SessionConfig struct {
	Path        string `yaml:"path,omitempty"`
	OfflineRole string `yaml:"offline_role,omitempty"`
}

// ServerConfig configures `escrituras serve`.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendSQLite,
		API:     APIConfig{Timeout: 30 * time.Second},
		PDF:     PDFConfig{Store: StoreFilesystem},
		Session: SessionConfig{OfflineRole: "admin"},
		Server:  ServerConfig{ListenAddr: ":8080"},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// Dir returns ~/.escrituras.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".escrituras"), nil
}

// DefaultPath returns ~/.escrituras/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Init writes the default configuration to path unless a file already exists.
// Reports whether a file was written.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks the combination of backend and document store.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if c.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is required for backend %q", c.Backend)
		}
		if c.PDF.Store != StoreREST {
			return fmt.Errorf("backend %q requires pdf.store %q, got %q", c.Backend, StoreREST, c.PDF.Store)
		}
	case BackendSQLite:
		if c.PDF.Store == StoreREST {
			return fmt.Errorf("pdf.store %q requires backend %q", StoreREST, BackendREST)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendREST, BackendSQLite)
	}

	switch c.PDF.Store {
	case StoreREST, StoreFilesystem:
	case StoreS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for pdf.store %q", StoreS3)
		}
	default:
		return fmt.Errorf("unknown pdf.store %q (want %s, %s or %s)", c.PDF.Store, StoreREST, StoreS3, StoreFilesystem)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("ESCRITURAS_BACKEND", &c.Backend)
	str("ESCRITURAS_API_URL", &c.API.BaseURL)
	str("ESCRITURAS_DB_PATH", &c.DB.Path)
	str("ESCRITURAS_PDF_STORE", &c.PDF.Store)
	str("ESCRITURAS_PDF_DIR", &c.PDF.Dir)
	str("ESCRITURAS_S3_BUCKET", &c.S3.Bucket)
	str("ESCRITURAS_S3_REGION", &c.S3.Region)
	str("ESCRITURAS_S3_ENDPOINT", &c.S3.Endpoint)
	str("ESCRITURAS_LISTEN_ADDR", &c.Server.ListenAddr)
	str("ESCRITURAS_LOG_LEVEL", &c.Log.Level)
	str("ESCRITURAS_LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("ESCRITURAS_API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ESCRITURAS_API_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	return nil
}
