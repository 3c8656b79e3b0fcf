// Package arc is an in-process application-architecture runtime for Go.
//
// This repository provides four tightly coupled primitives:
//
//   - a type-indexed registry (one live instance per type, last writer wins)
//   - a staged lifecycle coordinator (register the whole graph, then
//     initialize models before systems, exactly once)
//   - a typed publish/subscribe event bus with reversible subscriptions
//   - an observable value cell that suppresses equal assignments
//
// The goal is to let independent modules discover each other by type and
// communicate by event type, without static coupling, reflection-wired
// containers, or background goroutines.
//
// See subpackages:
//   - arc: the runtime library
//   - examples/counter: a runnable miniature application
//   - cmd/arcdemo: CLI that drives the counter example
package arc
