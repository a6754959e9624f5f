package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// termDialog prints alerts and reads confirmations from the REPL's own
// scanner, so it must only be used from the REPL goroutine.
type termDialog struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (d *termDialog) Alert(ctx context.Context, msg string) {
	fmt.Fprintln(d.out, formatError(msg))
}

func (d *termDialog) Confirm(ctx context.Context, msg string) bool {
	fmt.Fprint(d.out, msg+" [y/N] ")
	if !d.scanner.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(d.scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
