// Package events is the in-process notification channel between the
// uploader and its observers (the gallery, the terminal printer and the
// websocket feed).
package events

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/models"
)

type Name string

// ImageUploaded is broadcast once per record inserted by the uploader.
const ImageUploaded Name = "newImageUploaded"

type Handler func(ctx context.Context, rec models.ImageRecord)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous broadcast channel. The zero value is not usable; use
// NewBus.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[Name][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Name][]subscription)}
}

// Subscribe registers h for name. The returned func removes it and may be
// called more than once.
func (b *Bus) Subscribe(name Name, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name Name, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Broadcast calls every handler subscribed to name, in subscription order,
// on the caller's goroutine. Handlers added or removed while a broadcast is
// running do not affect it.
func (b *Bus) Broadcast(ctx context.Context, name Name, rec models.ImageRecord) {
	b.mu.RLock()
	snapshot := append([]subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.handler(ctx, rec)
	}
}

// Subscribers reports how many handlers are registered for name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
