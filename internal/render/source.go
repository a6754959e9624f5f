// Package render tells inline previews apart from stored images and
// measures them for display.
package render

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrijs2005/photowall/internal/common"
)

type Kind int

const (
	// Inline sources carry their bytes in a data:image/... URL.
	Inline Kind = iota + 1
	// Remote sources are fetched from an http(s) or file address.
	Remote
)

func (k Kind) String() string {
	switch k {
	case Inline:
		return "inline"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

type Source struct {
	Kind      Kind
	MediaType string
	Data      []byte
	URL       string
}

// Parse classifies src. Inline sources are decoded immediately.
func Parse(src string) (Source, error) {
	if rest, ok := strings.CutPrefix(src, "data:image"); ok {
		return parseInline("image" + rest)
	}

	u, err := url.Parse(src)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", common.ErrUnsupportedSource, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "file":
		return Source{Kind: Remote, URL: src}, nil
	default:
		return Source{}, fmt.Errorf("%w: %q", common.ErrUnsupportedSource, u.Scheme)
	}
}

func parseInline(s string) (Source, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok {
		return Source{}, fmt.Errorf("%w: malformed data url", common.ErrUnsupportedSource)
	}

	mediaType, params, _ := strings.Cut(meta, ";")
	if !slices.Contains(strings.Split(params, ";"), "base64") {
		return Source{}, fmt.Errorf("%w: data url is not base64", common.ErrUnsupportedSource)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Source{}, fmt.Errorf("decode data url: %w", err)
	}
	return Source{Kind: Inline, MediaType: mediaType, Data: data}, nil
}
