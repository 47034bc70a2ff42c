// Package bus implements the process-wide many-to-many navigation record
// hub described in §4.5: subscribe/unsubscribe/publish, with publish
// delivering synchronously to every live subscriber in insertion order.
package bus

import (
	"sync"

	"github.com/tangaroa/navhub/internal/navrecord"
)

// Handler receives a published Navigation record.
type Handler func(navrecord.Record)

// Bus is a process-wide in-process fan-out hub. The zero value is not usable;
// construct with New.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	ids       []uint64
	handlers  map[uint64]Handler
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers cb and returns a monotonically increasing id that
// Unsubscribe accepts later.
func (b *Bus) Subscribe(cb Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = cb
	b.ids = append(b.ids, id)
	return id
}

// Unsubscribe removes a subscriber by id. Unknown ids are a no-op.
func (b *Bus) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[id]; !ok {
		return
	}
	delete(b.handlers, id)
	for i, existing := range b.ids {
		if existing == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			break
		}
	}
}

// Publish delivers rec to every currently subscribed handler, synchronously,
// in subscription order, under a lock that excludes concurrent
// Subscribe/Unsubscribe calls. Handlers must not call Subscribe/Unsubscribe
// on the same Bus from within their own invocation — this is a caller
// contract, not something Publish enforces. Subscribers observe a total
// order of Publish calls consistent with the program order of whichever
// goroutine serialized through this lock; across distinct publishing
// goroutines, interleaving is arbitrary.
func (b *Bus) Publish(rec navrecord.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.ids {
		if cb, ok := b.handlers[id]; ok {
			cb(rec)
		}
	}
}

// SubscriberCount reports the number of currently live subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ids)
}
