package arc

import "reflect"

// Module is a long-lived unit (model or system role) bound into an
// Architecture. The interface is satisfied by embedding ModuleBase,
// which carries the back-reference to the owning Architecture; the
// reference is assigned exactly once, at registration.
//
// Init runs exactly once: during bootstrap for modules registered inside
// the setup function, or synchronously inside the Register call for
// modules added after readiness.
type Module interface {
	attach(a *Architecture)

	// Init is the one-time initialization hook. Models initialize before
	// systems, so a system's Init may read model state.
	Init()
}

// ModuleBase holds the Architecture back-reference for a Module.
// Embed it in model and system types:
//
//	type ScoreModel struct {
//		arc.ModuleBase
//		Score *arc.Observable[int]
//	}
type ModuleBase struct {
	arch *Architecture
}

func (b *ModuleBase) attach(a *Architecture) { b.arch = a }

// Arch returns the owning Architecture. It is nil until the module is
// registered.
func (b *ModuleBase) Arch() *Architecture { return b.arch }

// moduleName renders a module's concrete type for log output.
func moduleName(m Module) string {
	return reflect.TypeOf(m).String()
}
