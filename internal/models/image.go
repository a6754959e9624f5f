// Package models holds the records shared by the photowall stores and
// components.
package models

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultCaption is stored when an image is uploaded with an empty caption.
const DefaultCaption = "New uploaded image"

// ImageRecord is one row of the images table. ID is the storage object key.
type ImageRecord struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectKey returns the storage key of the backing object. Rows whose id is
// not the key (the URL does not end in it) fall back to the last path
// segment of the URL.
func (r ImageRecord) ObjectKey() string {
	seg := lastSegment(r.URL)
	if r.ID != "" && (seg == "" || seg == r.ID) {
		return r.ID
	}
	if seg != "" {
		return seg
	}
	return r.ID
}

func lastSegment(raw string) string {
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// CaptionOrDefault returns caption, or DefaultCaption when it is empty.
// Whitespace is a caption.
func CaptionOrDefault(caption string) string {
	if caption == "" {
		return DefaultCaption
	}
	return caption
}
