package events

import (
	"sync"

	"github.com/andrescamacho/colonycraft-go/internal/domain/crafting"
)

// NotificationBus is a synchronous, in-process pub/sub keyed by event kind.
// Publish invokes every matching handler on the caller's stack, in
// subscription order, before returning. Handlers may publish or
// (un)subscribe re-entrantly: the subscriber list is snapshotted and no lock
// is held while handlers run.
type NotificationBus struct {
	mu          sync.RWMutex
	nextID      uint64
	subscribers map[crafting.EventKind][]subscription
}

type subscription struct {
	id      uint64
	handler crafting.EventHandler
}

// Compile-time interface check
var _ crafting.NotificationBus = (*NotificationBus)(nil)

// NewNotificationBus creates an empty bus
func NewNotificationBus() *NotificationBus {
	return &NotificationBus{
		subscribers: make(map[crafting.EventKind][]subscription),
	}
}

// Subscribe registers handler for kind. The returned func removes it and is safe to call twice.
func (b *NotificationBus) Subscribe(kind crafting.EventKind, handler crafting.EventHandler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[kind] = append(b.subscribers[kind], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(kind, id) })
	}
}

func (b *NotificationBus) unsubscribe(kind crafting.EventKind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[kind]
	for i, s := range subs {
		if s.id == id {
			// Copy rather than shift in place: an in-flight Publish may still hold the old slice
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.subscribers[kind] = next
			break
		}
	}

	if len(b.subscribers[kind]) == 0 {
		delete(b.subscribers, kind)
	}
}

// Publish delivers event to every handler subscribed to its kind
func (b *NotificationBus) Publish(event crafting.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	subs := b.subscribers[event.Kind()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// SubscriberCount returns the number of subscribers for kind.
// Useful for testing and monitoring.
func (b *NotificationBus) SubscriberCount(kind crafting.EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[kind])
}

// TotalSubscriberCount returns the total number of active subscriptions
func (b *NotificationBus) TotalSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, subs := range b.subscribers {
		total += len(subs)
	}
	return total
}
