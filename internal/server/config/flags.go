package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/photowall/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-b string   object store backend (s3, minio, local, memory)
//	-e string   object store endpoint
//	-k string   bucket name
//	-u string   object store access key
//	-p string   object store secret key
//	-d string   metadata database DSN
//	-l string   log level
//	-s int      shutdown timeout (in seconds)
//
// Notes:
//   - os.Args is filtered to the flags above using flagx.FilterArgs, so the
//     JSON config flags do not collide.
//   - The shutdown timeout is given in seconds and converted to a
//     time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-b", "-e", "-k", "-u", "-p", "-d", "-l", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.Storage, "b", config.Storage, "object store backend")
	fs.StringVar(&config.Endpoint, "e", config.Endpoint, "object store endpoint")
	fs.StringVar(&config.Bucket, "k", config.Bucket, "bucket name")
	fs.StringVar(&config.AccessKey, "u", config.AccessKey, "object store access key")
	fs.StringVar(&config.SecretKey, "p", config.SecretKey, "object store secret key")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	shutdownTimeout := fs.Int("s", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
