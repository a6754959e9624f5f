package config

import "github.com/dmitrijs2005/photowall/internal/envx"

// parseEnv overlays Config with PHOTOWALL_* variables, after loading a .env
// file from the working directory if there is one. Malformed values panic.
func parseEnv(cfg *Config) {
	if err := envx.LoadDotEnv(); err != nil {
		panic(err)
	}

	envx.String(&cfg.Storage, "STORAGE")
	envx.String(&cfg.LocalDir, "LOCAL_DIR")
	envx.String(&cfg.Bucket, "BUCKET")
	envx.String(&cfg.Region, "REGION")
	envx.String(&cfg.Endpoint, "ENDPOINT")
	envx.String(&cfg.AccessKey, "ACCESS_KEY")
	envx.String(&cfg.SecretKey, "SECRET_KEY")
	envx.String(&cfg.PublicBase, "PUBLIC_BASE")
	envx.String(&cfg.Database, "DATABASE")
	envx.String(&cfg.DatabaseDSN, "DATABASE_DSN")
	envx.String(&cfg.WatchDir, "WATCH_DIR")
	envx.String(&cfg.Theme, "THEME")
	envx.String(&cfg.LogLevel, "LOG_LEVEL")

	if err := envx.Bool(&cfg.UseSSL, "USE_SSL"); err != nil {
		panic(err)
	}
	if err := envx.Duration(&cfg.RequestTimeout, "REQUEST_TIMEOUT"); err != nil {
		panic(err)
	}
}
