package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageRecord_ObjectKey(t *testing.T) {
	tests := []struct {
		name string
		rec  ImageRecord
		want string
	}{
		{
			name: "id is the key",
			rec:  ImageRecord{ID: "3f2a.jpg", URL: "http://127.0.0.1:9000/poland-photos/3f2a.jpg"},
			want: "3f2a.jpg",
		},
		{
			name: "legacy numeric id uses url",
			rec:  ImageRecord{ID: "42", URL: "https://x.supabase.co/storage/v1/object/public/poland-photos/0.123.png"},
			want: "0.123.png",
		},
		{
			name: "no url",
			rec:  ImageRecord{ID: "k.gif"},
			want: "k.gif",
		},
		{
			name: "file url",
			rec:  ImageRecord{ID: "k.png", URL: "file:///var/lib/photowall/objects/k.png"},
			want: "k.png",
		},
		{
			name: "no id",
			rec:  ImageRecord{URL: "http://h/b/z.webp?x=1"},
			want: "z.webp",
		},
		{
			name: "empty",
			rec:  ImageRecord{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.ObjectKey())
		})
	}
}

func TestCaptionOrDefault(t *testing.T) {
	assert.Equal(t, DefaultCaption, CaptionOrDefault(""))
	assert.Equal(t, "   \t", CaptionOrDefault("   \t"))
	assert.Equal(t, "Kraków at dusk", CaptionOrDefault("Kraków at dusk"))
}
