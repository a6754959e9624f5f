package config

import (
	"time"

	"github.com/dmitrijs2005/photowall/internal/backend"
)

// Config holds runtime settings for the photowall terminal page.
//
// Fields:
//   - Storage: object store backend ("local", "memory", "s3", "minio").
//   - LocalDir: root directory of the "local" object store.
//   - Bucket / Region / Endpoint / AccessKey / SecretKey / UseSSL /
//     PublicBase: remote object store settings.
//   - Database / DatabaseDSN: metadata database ("sqlite" or "postgres").
//   - RequestTimeout: deadline applied to every REPL command.
//   - WatchDir: drop folder watched from startup, if set.
//   - Theme: "auto", "light" or "dark".
//   - LogLevel: slog level for the stderr logger.
type Config struct {
	Storage    string
	LocalDir   string
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	PublicBase string

	Database    string
	DatabaseDSN string

	RequestTimeout time.Duration
	WatchDir       string
	Theme          string
	LogLevel       string
}

// LoadDefaults populates c with a self-contained local setup.
func (c *Config) LoadDefaults() {
	c.Storage = backend.StorageLocal
	c.LocalDir = "photowall-data"
	c.Bucket = "poland-photos"
	c.Region = "us-east-1"
	c.Endpoint = "http://127.0.0.1:9000"
	c.AccessKey = "admin"
	c.SecretKey = "secretpassword"
	c.Database = backend.DatabaseSQLite
	c.DatabaseDSN = "photowall.db"
	c.RequestTimeout = 30 * time.Second
	c.Theme = "auto"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Backend returns the store settings for backend.Open.
func (c *Config) Backend() backend.Config {
	return backend.Config{
		Storage:     c.Storage,
		Bucket:      c.Bucket,
		Region:      c.Region,
		Endpoint:    c.Endpoint,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		UseSSL:      c.UseSSL,
		PublicBase:  c.PublicBase,
		LocalDir:    c.LocalDir,
		Database:    c.Database,
		DatabaseDSN: c.DatabaseDSN,
	}
}
