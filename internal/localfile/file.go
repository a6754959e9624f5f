// Package localfile describes image candidates picked by the user before
// they are uploaded: files on disk or bytes received from a form.
package localfile

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a raw local file reference.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// IsImage reports whether f declares an image/* media type.
func IsImage(f File) bool {
	mt, _, err := mime.ParseMediaType(f.ContentType())
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// detectType guesses the media type the way a browser does for a picked
// file: by extension first, then by sniffing the leading bytes.
func detectType(name string, head []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(head)
}

// Disk is a file on the local filesystem.
type Disk struct {
	path        string
	size        int64
	contentType string
}

// FromPath stats path and detects its media type. Directories are rejected.
func FromPath(path string) (*Disk, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Disk{path: path, size: fi.Size(), contentType: detectType(path, head[:n])}, nil
}

func (d *Disk) Name() string                 { return filepath.Base(d.path) }
func (d *Disk) Path() string                 { return d.path }
func (d *Disk) ContentType() string          { return d.contentType }
func (d *Disk) Size() int64                  { return d.size }
func (d *Disk) Open() (io.ReadCloser, error) { return os.Open(d.path) }

// Memory is a file held in memory, e.g. a multipart form part.
type Memory struct {
	name        string
	contentType string
	data        []byte
}

// FromBytes wraps data. An empty or generic contentType is replaced by the
// detected one.
func FromBytes(name, contentType string, data []byte) *Memory {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectType(name, data)
	}
	return &Memory{name: name, contentType: contentType, data: data}
}

func (m *Memory) Name() string        { return m.name }
func (m *Memory) ContentType() string { return m.contentType }
func (m *Memory) Size() int64         { return int64(len(m.data)) }
func (m *Memory) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}
