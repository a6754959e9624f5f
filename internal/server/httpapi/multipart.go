package httpapi

import (
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// partFile adapts an uploaded multipart part to localfile.File.
type partFile struct {
	header *multipart.FileHeader
}

func (p partFile) Name() string { return p.header.Filename }
func (p partFile) Size() int64  { return p.header.Size }

// ContentType trusts the part header unless it is missing or generic, in
// which case the extension decides.
func (p partFile) ContentType() string {
	ct := p.header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(p.header.Filename)))
}

func (p partFile) Open() (io.ReadCloser, error) { return p.header.Open() }
