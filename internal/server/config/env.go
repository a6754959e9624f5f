package config

import "github.com/dmitrijs2005/photowall/internal/envx"

// parseEnv overlays Config with PHOTOWALL_* variables, loading a .env file
// from the working directory first if there is one. Malformed values panic.
func parseEnv(config *Config) {
	if err := envx.LoadDotEnv(); err != nil {
		panic(err)
	}

	envx.String(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envx.String(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envx.String(&config.Storage, "STORAGE")
	envx.String(&config.Bucket, "BUCKET")
	envx.String(&config.Region, "REGION")
	envx.String(&config.Endpoint, "ENDPOINT")
	envx.String(&config.AccessKey, "ACCESS_KEY")
	envx.String(&config.SecretKey, "SECRET_KEY")
	envx.String(&config.PublicBase, "PUBLIC_BASE")
	envx.String(&config.LocalDir, "LOCAL_DIR")
	envx.String(&config.Database, "DATABASE")
	envx.String(&config.DatabaseDSN, "DATABASE_DSN")
	envx.String(&config.AllowedOrigins, "ALLOWED_ORIGINS")
	envx.String(&config.LogFormat, "LOG_FORMAT")
	envx.String(&config.LogLevel, "LOG_LEVEL")

	if err := envx.Bool(&config.UseSSL, "USE_SSL"); err != nil {
		panic(err)
	}
	if err := envx.Duration(&config.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		panic(err)
	}
}
