// Command arcdemo runs the counter example application end to end.
//
// It wires the examples/counter graph through arc.Boot, drives it with
// increment commands until the configured target is reached, and prints
// the final count read back through a query.
//
// Usage:
//
//	arcdemo [--config path/to/arc.toml] [--log-level debug]
//
// Without --config the built-in defaults apply (start 0, target 10).
// The config file format is documented in examples/counter/config.
package main
