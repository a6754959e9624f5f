package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

// expandPaths resolves glob patterns. Arguments without glob
// metacharacters are kept as given so that a missing file is reported by
// the caller rather than silently dropped.
func expandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			out = append(out, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// parseIndex converts a 1-based position typed by the user into a 0-based
// index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a position (1, 2, ...)", s)
	}
	return n - 1, nil
}
