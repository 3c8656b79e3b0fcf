package arc

import (
	"reflect"
	"sync"
)

// typeOf returns the identity key for T without constructing a value.
// Two calls for the same T always yield equal, hashable keys.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// MissingBindingError is returned by Resolve when nothing is bound for
// the requested type. Lookup callers get a plain ok=false instead.
type MissingBindingError struct{ Type reflect.Type }

// Error implements the error interface.
func (e MissingBindingError) Error() string {
	// Example: arc: no binding for *counter.CounterModel
	return "arc: no binding for " + e.Type.String()
}

// WrongTypeError is returned by Resolve when a binding exists but its
// value is not a T. Under generic registration the key derivation is
// shared between Register and Resolve, so this is an invariant
// violation, not a condition callers should plan for.
type WrongTypeError struct {
	// Type is the type requested.
	Type reflect.Type

	// Got is reflect.TypeOf(stored).String() for the stored value.
	Got string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	// Example: arc: binding for counter.Clock has wrong type (*counter.FakeClock)
	return "arc: binding for " + e.Type.String() + " has wrong type (" + e.Got + ")"
}

// Registry is a type-indexed instance container: at most one live
// binding per type key, last writer wins.
//
// It is intentionally:
//   - replace-on-register: a second Register for the same type silently
//     replaces the first, no error, no merge
//   - type-erased internally, type-safe at the generic boundary
//   - guarded by a single mutex; ordering across goroutines is the
//     caller's concern
//
// Registered instances are owned by the registry for the life of the
// process; Lookup hands out shared references, never ownership.
type Registry struct {
	mu       sync.RWMutex
	bindings map[reflect.Type]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[reflect.Type]any)}
}

func (r *Registry) bind(key reflect.Type, v any) {
	r.mu.Lock()
	r.bindings[key] = v
	r.mu.Unlock()
}

func (r *Registry) lookup(key reflect.Type) (any, bool) {
	r.mu.RLock()
	v, ok := r.bindings[key]
	r.mu.RUnlock()
	return v, ok
}

// Len reports the number of live bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.bindings)
	r.mu.RUnlock()
	return n
}

// Reset drops every binding. Production graphs never unbind; this exists
// for tests that reuse a registry across cases.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.bindings = make(map[reflect.Type]any)
	r.mu.Unlock()
}

// Register binds v under the type key T, replacing any previous binding.
func Register[T any](r *Registry, v T) {
	r.bind(typeOf[T](), v)
}

// RegisterValue binds v under its dynamic type. This is the type-erased
// form used when the concrete type is only known at runtime (module
// registration goes through here).
func RegisterValue(r *Registry, v any) {
	r.bind(reflect.TypeOf(v), v)
}

// Lookup returns the binding for T, or (zero, false) when absent.
// A missing binding is an expected outcome, never an error.
func Lookup[T any](r *Registry) (T, bool) {
	var zero T
	v, ok := r.lookup(typeOf[T]())
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Resolve returns the binding for T with typed errors:
//
//   - MissingBindingError when nothing is bound for T
//   - WrongTypeError when the stored value is not a T
//
// Error values avoid fmt.Errorf so the miss path stays cheap.
func Resolve[T any](r *Registry) (T, error) {
	var zero T
	v, ok := r.lookup(typeOf[T]())
	if !ok {
		return zero, MissingBindingError{Type: typeOf[T]()}
	}
	t, ok := v.(T)
	if !ok {
		return zero, WrongTypeError{Type: typeOf[T](), Got: reflect.TypeOf(v).String()}
	}
	return t, nil
}

// MustResolve returns the binding for T or panics with the typed error.
// Useful in wiring code where a missing binding is a programming error.
func MustResolve[T any](r *Registry) T {
	t, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return t
}
