package event

import (
	"log"
	"runtime/debug"
	"sync"
)

// Handler handles one published event.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous pub-sub dispatcher. It is safe for concurrent
// use; handlers run on the publishing goroutine in registration order,
// type-specific subscribers before wildcard ones.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription
	nextID        uint64
}

func NewBus() *Bus {
	return &Bus{subscriptions: make(map[string][]subscription)}
}

// Subscribe registers a handler for one event type and returns an ID
// usable with Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) uint64 {
	return b.Subscribe("*", handler)
}

// Unsubscribe removes a subscription by ID. It reports whether the
// subscription existed.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[eventType] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish dispatches an event to all matching handlers. Publishing is
// fire-and-forget for the caller: handler errors and panics never
// propagate back.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	specific := make([]subscription, len(b.subscriptions[event.EventType()]))
	copy(specific, b.subscriptions[event.EventType()])
	wildcard := make([]subscription, len(b.subscriptions["*"]))
	copy(wildcard, b.subscriptions["*"])
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range wildcard {
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler panicked for %s: %v\n%s", event.EventType(), r, debug.Stack())
		}
	}()
	handler(event)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}
