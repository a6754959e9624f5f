package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/photowall/internal/flagx"
	"github.com/dmitrijs2005/photowall/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. Durations use timex.Duration, so both "10s" and
// integer nanoseconds are accepted. Absent keys leave the current value in
// place.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	Storage          string         `json:"storage"`
	Bucket           string         `json:"bucket"`
	Region           string         `json:"region"`
	Endpoint         string         `json:"endpoint"`
	AccessKey        string         `json:"access_key"`
	SecretKey        string         `json:"secret_key"`
	UseSSL           *bool          `json:"use_ssl"`
	PublicBase       string         `json:"public_base"`
	LocalDir         string         `json:"local_dir"`
	Database         string         `json:"database"`
	DatabaseDSN      string         `json:"database_dsn"`
	AllowedOrigins   string         `json:"allowed_origins"`
	MaxUploadSize    int64          `json:"max_upload_size"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	LogFormat        string         `json:"log_format"`
	LogLevel         string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads configuration values from the JSON file given with the
// -c or -config flag. Without either flag nothing is loaded. Read or
// unmarshal errors panic.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.Storage, c.Storage)
	setString(&config.Bucket, c.Bucket)
	setString(&config.Region, c.Region)
	setString(&config.Endpoint, c.Endpoint)
	setString(&config.AccessKey, c.AccessKey)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PublicBase, c.PublicBase)
	setString(&config.LocalDir, c.LocalDir)
	setString(&config.Database, c.Database)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AllowedOrigins, c.AllowedOrigins)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.UseSSL != nil {
		config.UseSSL = *c.UseSSL
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
