package arc

import (
	"reflect"
	"sync"
)

// subscriber pairs a handler with the id its Subscription removes it by.
// Ids are issued in increasing order, so slice order is registration order.
type subscriber struct {
	id uint64
	fn func(any)
}

// EventBus delivers typed events to subscribers in registration order.
//
// Delivery is synchronous on the publishing goroutine. Subscriber lists
// are replaced, never mutated in place, so a handler may cancel its own
// subscription mid-dispatch without disturbing the publish in flight.
// Ordering is guaranteed per event type only; delivery order across
// different event types is unspecified.
type EventBus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[reflect.Type][]subscriber
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[reflect.Type][]subscriber)}
}

// GlobalEvents is the process-wide default bus, for cross-cutting events
// not tied to any one Architecture.
var GlobalEvents = NewEventBus()

func (b *EventBus) subscribe(key reflect.Type, fn func(any)) *Subscription {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[key] = append(b.subs[key], subscriber{id: id, fn: fn})
	b.mu.Unlock()
	return newSubscription(func() { b.remove(key, id) })
}

func (b *EventBus) remove(key reflect.Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[key]
	for i, s := range list {
		if s.id == id {
			// Full slice expression forces a copy so snapshots taken by
			// in-flight publishes keep seeing the old list.
			b.subs[key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[key]) == 0 {
		delete(b.subs, key)
	}
}

func (b *EventBus) publish(key reflect.Type, ev any) {
	b.mu.RLock()
	list := b.subs[key]
	b.mu.RUnlock()
	for _, s := range list {
		s.fn(ev)
	}
}

// SubscriberCount reports how many subscriptions are live for the event
// type E. Primarily for tests and diagnostics.
func SubscriberCount[E any](b *EventBus) int {
	b.mu.RLock()
	n := len(b.subs[typeOf[E]()])
	b.mu.RUnlock()
	return n
}

// Publish delivers ev to every subscriber of E current at the start of
// the call, in registration order. Publishing an event type with zero
// subscribers is a silent no-op.
func Publish[E any](b *EventBus, ev E) {
	b.publish(typeOf[E](), ev)
}

// PublishZero publishes the zero value of E. Handy for pure signal
// events that carry no payload.
func PublishZero[E any](b *EventBus) {
	var ev E
	b.publish(typeOf[E](), ev)
}

// Subscribe registers fn for events of type E and returns the handle
// that removes exactly this registration. Subscribing the same function
// value twice yields two independent subscriptions, each removable via
// its own handle.
func Subscribe[E any](b *EventBus, fn func(E)) *Subscription {
	return b.subscribe(typeOf[E](), func(v any) { fn(v.(E)) })
}
