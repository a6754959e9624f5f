// Package envx overlays configuration values from environment variables,
// optionally seeded from a .env file.
package envx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name looked up by this package.
const Prefix = "PHOTOWALL_"

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables already set. Missing files are not an
// error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(Prefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// String sets *dst to $PHOTOWALL_<name> if it is set and non-empty.
func String(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Bool sets *dst from $PHOTOWALL_<name> using strconv.ParseBool.
func Bool(dst *bool, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
	*dst = b
	return nil
}

// Duration sets *dst from $PHOTOWALL_<name>, e.g. "15s".
func Duration(dst *time.Duration, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
	*dst = d
	return nil
}
