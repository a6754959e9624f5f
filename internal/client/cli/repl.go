package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a recording stub.
type execIface interface {
	Add(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	Caption(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Close(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Unwatch(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  add <path|glob>...        queue image files for upload
  pending                   show queued files
  caption <n> <text>        set the caption of queued file n
  remove <n>                drop queued file n
  cancel                    drop all queued files
  upload                    upload everything queued
  (l)ist                    show the gallery
  reload                    fetch the gallery again
  open <n|id>               show one image
  close                     close the open image
  edit [n|id] <text>        change a caption
  delete [n|id]             delete an image
  download [n|id] [dir]     save an image to disk
  watch <dir>               queue files dropped into dir
  unwatch                   stop watching
  theme [light|dark|auto]   switch the color theme
  exit | quit               leave the program`

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on scanner EOF, on "exit" or "quit", or when ctx is done.
//
// The prompt shows the current status from statusFn. Errors returned by
// handlers are printed; remote failures have already been alerted by the
// components, so handlers only return usage and local errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	commands := map[string]func(context.Context, []string) error{
		"add":      a.Add,
		"pending":  a.Pending,
		"caption":  a.Caption,
		"remove":   a.Remove,
		"cancel":   a.Cancel,
		"upload":   a.Upload,
		"list":     a.List,
		"l":        a.List,
		"reload":   a.Reload,
		"open":     a.Open,
		"close":    a.Close,
		"edit":     a.Edit,
		"delete":   a.Delete,
		"download": a.Download,
		"watch":    a.Watch,
		"unwatch":  a.Unwatch,
		"theme":    a.Theme,
	}

	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("pw> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn(formatError(err.Error()))
		}
	}
}
