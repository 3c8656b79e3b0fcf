package arc

import "sync"

type watcher[T comparable] struct {
	id uint64
	fn func(T)
}

// Observable is a single value cell that notifies watchers only when the
// value actually changes. T must be comparable: assigning a value equal
// to the current one (including zero over zero) fires nothing.
//
// It is self-contained and does not require an Architecture; its handles
// are the same Subscription type the EventBus issues.
type Observable[T comparable] struct {
	mu       sync.Mutex
	value    T
	nextID   uint64
	watchers []watcher[T]
}

// NewObservable creates an observable holding initial.
func NewObservable[T comparable](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Value returns the current value. No side effects.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	v := o.value
	o.mu.Unlock()
	return v
}

// Set stores v and notifies watchers in registration order with the new
// value. The store happens before any watcher runs, so a watcher reading
// back through Value sees the updated cell. Equal assignments are
// suppressed entirely.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	if v == o.value {
		o.mu.Unlock()
		return
	}
	o.value = v
	snapshot := o.watchers
	o.mu.Unlock()
	for _, w := range snapshot {
		w.fn(v)
	}
}

// Watch registers fn for future changes. It does not fire immediately.
func (o *Observable[T]) Watch(fn func(T)) *Subscription {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.watchers = append(o.watchers, watcher[T]{id: id, fn: fn})
	o.mu.Unlock()
	return newSubscription(func() { o.remove(id) })
}

// WatchNow invokes fn once with the current value, then registers it as
// a normal watcher for future changes.
func (o *Observable[T]) WatchNow(fn func(T)) *Subscription {
	fn(o.Value())
	return o.Watch(fn)
}

func (o *Observable[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, w := range o.watchers {
		if w.id == id {
			// Copy-on-remove keeps in-flight notification snapshots intact.
			o.watchers = append(o.watchers[:i:i], o.watchers[i+1:]...)
			return
		}
	}
}
