// Package dedupe tracks pending work keys so duplicate requests coalesce.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// Deduper records pending keys. A key stays marked from the moment it is
// first recorded until it is released, so repeated requests in between
// collapse into the one already waiting.
type Deduper interface {
	// SeenAndRecord reports whether key is already pending and marks it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord releases key so the next request for it is accepted again.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps pending keys in insertion order. When bounded and
// full, the oldest mark is dropped; the cost is one redundant job later.
type inMemoryDeduper struct {
	mu      sync.Mutex
	order   *list.List
	marks   map[string]*list.Element
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 1024,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.order = list.New()
	d.marks = make(map[string]*list.Element)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.marks[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.marks) >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.marks, oldest.Value.(string))
	}
	d.marks[key] = d.order.PushBack(key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.marks[key]; ok {
		d.order.Remove(e)
		delete(d.marks, key)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.marks))
}
