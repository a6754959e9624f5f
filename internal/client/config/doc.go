// Package config loads runtime configuration for the photowall terminal
// page.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. PHOTOWALL_* environment variables, optionally from a .env file.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   object store backend (local, memory, s3, minio)
//	-o string   local object store directory
//	-d string   metadata database DSN
//	-w string   drop folder watched from startup
//	-t string   theme (auto, light, dark)
//	-l string   log level (debug, info, warn, error)
//	-r int      per-command timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "storage": "minio",
//	  "endpoint": "127.0.0.1:9000",
//	  "bucket": "poland-photos",
//	  "database": "sqlite",
//	  "database_dsn": "photowall.db",
//	  "request_timeout": "30s",
//	  "theme": "dark"
//	}
package config
