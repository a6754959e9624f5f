package gallery

import (
	"path"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/photowall/internal/models"
)

// DownloadName derives a local file name for rec: the slugified caption
// with the key's extension, or the key itself when the caption has no
// usable characters.
func DownloadName(rec models.ImageRecord) string {
	key := rec.ObjectKey()
	slug := slugify(rec.Caption)
	if slug == "" {
		if key == "" {
			return "image"
		}
		return key
	}
	return slug + strings.ToLower(path.Ext(key))
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
