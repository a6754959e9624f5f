package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/photowall/internal/flagx"
	"github.com/dmitrijs2005/photowall/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the current value in place.
type JsonConfig struct {
	Storage        string         `json:"storage"`
	LocalDir       string         `json:"local_dir"`
	Bucket         string         `json:"bucket"`
	Region         string         `json:"region"`
	Endpoint       string         `json:"endpoint"`
	AccessKey      string         `json:"access_key"`
	SecretKey      string         `json:"secret_key"`
	UseSSL         *bool          `json:"use_ssl"`
	PublicBase     string         `json:"public_base"`
	Database       string         `json:"database"`
	DatabaseDSN    string         `json:"database_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	WatchDir       string         `json:"watch_dir"`
	Theme          string         `json:"theme"`
	LogLevel       string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the JSON file given
// with -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Storage, jc.Storage)
	setString(&cfg.LocalDir, jc.LocalDir)
	setString(&cfg.Bucket, jc.Bucket)
	setString(&cfg.Region, jc.Region)
	setString(&cfg.Endpoint, jc.Endpoint)
	setString(&cfg.AccessKey, jc.AccessKey)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.PublicBase, jc.PublicBase)
	setString(&cfg.Database, jc.Database)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.WatchDir, jc.WatchDir)
	setString(&cfg.Theme, jc.Theme)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.UseSSL != nil {
		cfg.UseSSL = *jc.UseSSL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
