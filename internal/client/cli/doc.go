// Package cli is the interactive photowall terminal page.
//
// It wires configuration, the object and metadata stores, the uploader, the
// gallery and the notification bus into a REPL. The page has three parts:
//
//   - Uploader: add/watch files, caption them, upload them
//   - Gallery: list, open, edit, delete and download stored images
//   - Header: the light/dark theme toggle
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
