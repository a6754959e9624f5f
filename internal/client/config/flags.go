package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/photowall/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   object store backend
//	-o string   local object store directory
//	-d string   metadata database DSN
//	-w string   drop folder to watch
//	-t string   theme (auto, light, dark)
//	-l string   log level
//	-r int      per-command timeout (in seconds)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-o", "-d", "-w", "-t", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Storage, "b", cfg.Storage, "object store backend (local, memory, s3, minio)")
	fs.StringVar(&cfg.LocalDir, "o", cfg.LocalDir, "local object store directory")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "metadata database DSN")
	fs.StringVar(&cfg.WatchDir, "w", cfg.WatchDir, "drop folder to watch")
	fs.StringVar(&cfg.Theme, "t", cfg.Theme, "display theme (auto, light, dark)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "per-command timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
