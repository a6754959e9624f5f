// Package common defines sentinel errors shared by the photowall stores,
// components and front ends. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Uploader errors.
	ErrIndexOutOfRange     = errors.New("pending index out of range")
	ErrSubmissionInFlight  = errors.New("submission already in flight")
	ErrNoImages            = errors.New("no image files")
	ErrPreviewReleased     = errors.New("preview handle released")
	ErrUnsupportedSource   = errors.New("unsupported image source")
	ErrUnknownBackend      = errors.New("unknown backend")
	ErrInvalidImageRef     = errors.New("invalid image reference")
	ErrNothingSelected     = errors.New("no image is open")
	ErrEmptyStorageKey     = errors.New("empty storage key")
	ErrUnexpectedRowsCount = errors.New("unexpected rows affected")
)
