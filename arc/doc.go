// Package arc is a small in-process application-architecture runtime:
// a type-indexed registry, a staged lifecycle coordinator, a typed
// publish/subscribe event bus, and an observable value cell.
//
// Modules (models and systems) register with an Architecture and find
// each other by type instead of holding static references; commands and
// queries are transient values dispatched through the Architecture; any
// value type can be published as an event to whoever subscribed to that
// type.
//
// # Roles
//
//   - Model: long-lived state holder. Registered via RegisterModel,
//     initialized before systems during bootstrap.
//   - System: long-lived service. Registered via RegisterSystem,
//     initialized after all models so it may read model state.
//   - Utility: self-contained helper. Registered via RegisterUtility,
//     receives no back-reference and no Init.
//   - Command: transient write. Implements Exec(*Architecture) error.
//   - Query: transient read. Implements Query(*Architecture) (R, error).
//   - Event: any value type published on the bus.
//
// # Bootstrap
//
// New runs the setup function, runs the BootstrapPatch hook if one is
// installed, then initializes staged models and systems in registration
// order and flips readiness permanently:
//
//	a := arc.New(func(a *arc.Architecture) {
//		a.RegisterModel(&ScoreModel{})
//		a.RegisterSystem(&AchievementSystem{})
//	})
//
// After readiness, new registrations initialize immediately.
//
// # Cancellation
//
// Subscribe (bus) and Watch/WatchNow (observable) return the same
// *Subscription handle. Cancel is idempotent, and handles from both
// sources compose in a SubscriptionBag for one-call teardown.
//
// # Concurrency
//
// Every operation is synchronous and non-blocking; handlers run on the
// goroutine that publishes. A single mutex per primitive keeps the
// registry map and subscriber lists consistent under concurrent use, and
// per-event-type delivery order is always registration order. The
// runtime is designed for a single logical thread of control (a frame
// loop, a request loop); it adds no queues and no goroutines of its own.
package arc
