package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/models"
)

// feed prints background notices (uploads, dropped files). While the
// lightbox is open the notices are held back and printed on close.
type feed struct {
	out    io.Writer
	locked func() bool

	mu   sync.Mutex
	held []string
}

func (f *feed) post(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locked() {
		f.held = append(f.held, msg)
		return
	}
	fmt.Fprintln(f.out, msg)
}

func (f *feed) flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, msg := range f.held {
		fmt.Fprintln(f.out, msg)
	}
	f.held = nil
}

func (f *feed) onUpload(ctx context.Context, rec models.ImageRecord) {
	f.post(formatSuccess(fmt.Sprintf("New image: %s (%s)", rec.Caption, rec.ID)))
}
