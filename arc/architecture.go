package arc

import (
	"sync"

	"github.com/rs/zerolog"
)

// BootstrapPatch, when non-nil, is invoked exactly once per Architecture:
// after its setup function returns and before any staged module
// initializes. It exists for late overrides — typically a test swapping a
// real system for a double before anything ran Init.
var BootstrapPatch func(*Architecture)

// Option configures an Architecture before its setup function runs.
type Option func(*Architecture)

// WithLogger installs a structured logger on the Architecture. Without
// it the Architecture logs nowhere (zerolog.Nop).
func WithLogger(l zerolog.Logger) Option {
	return func(a *Architecture) { a.log = l }
}

type moduleRole int

const (
	roleModel moduleRole = iota
	roleSystem
)

// Architecture coordinates one application graph: it owns the type
// registry and the event bus, defers module initialization until the
// whole graph is assembled, and routes commands, queries and events so
// modules never hold direct references to each other.
//
// Operations are synchronous and non-blocking. The internal mutex keeps
// the registry and staging lists consistent under concurrent use, but
// modules and handlers themselves follow the usual in-process contract:
// handlers run on the goroutine that publishes.
type Architecture struct {
	mu            sync.Mutex
	registry      *Registry
	events        *EventBus
	log           zerolog.Logger
	ready         bool
	stagedModels  []Module
	stagedSystems []Module
}

// New builds an Architecture and brings it to readiness:
//
//  1. run setup — registrations made here are staged, not initialized
//  2. run the BootstrapPatch hook, if set
//  3. Init staged models in registration order
//  4. Init staged systems in registration order
//  5. clear the staging lists and flip readiness, permanently
//
// Models run before systems so systems can read model state in their own
// Init. Registrations made during step 3 or 4 stage as usual and are
// drained before readiness flips.
//
// A panic inside setup, the patch hook, or an Init call propagates to
// the caller: a failed bootstrap is a programming error and the half
// built Architecture must not be retried.
func New(setup func(*Architecture), opts ...Option) *Architecture {
	a := &Architecture{
		registry: NewRegistry(),
		events:   NewEventBus(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if setup != nil {
		setup(a)
	}
	if patch := BootstrapPatch; patch != nil {
		a.log.Debug().Msg("running bootstrap patch hook")
		patch(a)
	}
	a.finishBootstrap()
	return a
}

func (a *Architecture) finishBootstrap() {
	for {
		models, systems := a.takeStaged()
		if len(models) == 0 && len(systems) == 0 {
			break
		}
		for _, m := range models {
			a.log.Debug().Str("module", moduleName(m)).Msg("init model")
			m.Init()
		}
		for _, s := range systems {
			a.log.Debug().Str("module", moduleName(s)).Msg("init system")
			s.Init()
		}
	}
	a.mu.Lock()
	a.ready = true
	a.mu.Unlock()
	a.log.Debug().Msg("architecture ready")
}

func (a *Architecture) takeStaged() (models, systems []Module) {
	a.mu.Lock()
	models, systems = a.stagedModels, a.stagedSystems
	a.stagedModels, a.stagedSystems = nil, nil
	a.mu.Unlock()
	return models, systems
}

// Ready reports whether bootstrap completed. Once true it never flips
// back.
func (a *Architecture) Ready() bool {
	a.mu.Lock()
	r := a.ready
	a.mu.Unlock()
	return r
}

// Registry exposes the owned registry, primarily for patch hooks and
// tests. Regular code should go through the typed accessors.
func (a *Architecture) Registry() *Registry { return a.registry }

// Events exposes the owned event bus.
func (a *Architecture) Events() *EventBus { return a.events }

// RegisterModel binds m into the registry under its concrete type
// (replacing any previous binding for that type) and assigns its
// back-reference. Before readiness m is staged; afterwards Init runs
// immediately on the calling goroutine.
func (a *Architecture) RegisterModel(m Module) {
	a.registerModule(m, roleModel)
}

// RegisterSystem is RegisterModel for the system role: same binding and
// back-reference, but staged systems initialize after all staged models.
func (a *Architecture) RegisterSystem(s Module) {
	a.registerModule(s, roleSystem)
}

func (a *Architecture) registerModule(m Module, role moduleRole) {
	m.attach(a)
	RegisterValue(a.registry, m)

	a.mu.Lock()
	if !a.ready {
		if role == roleModel {
			a.stagedModels = append(a.stagedModels, m)
		} else {
			a.stagedSystems = append(a.stagedSystems, m)
		}
		a.mu.Unlock()
		a.log.Debug().Str("module", moduleName(m)).Msg("module staged")
		return
	}
	a.mu.Unlock()

	a.log.Debug().Str("module", moduleName(m)).Msg("module registered after readiness")
	m.Init()
}

// RegisterUtility binds a self-contained helper into the registry.
// Utilities receive no back-reference and no Init call: they must not
// depend on the Architecture.
func RegisterUtility[T any](a *Architecture, v T) {
	Register(a.registry, v)
}

// ModelOf returns the registered model of concrete type T, or ok=false.
func ModelOf[T Module](a *Architecture) (T, bool) {
	return Lookup[T](a.registry)
}

// SystemOf returns the registered system of concrete type T, or ok=false.
func SystemOf[T Module](a *Architecture) (T, bool) {
	return Lookup[T](a.registry)
}

// UtilityOf returns the registered utility of type T, or ok=false.
func UtilityOf[T any](a *Architecture) (T, bool) {
	return Lookup[T](a.registry)
}

// SendEvent publishes ev on the Architecture's own bus.
func SendEvent[E any](a *Architecture, ev E) {
	Publish(a.events, ev)
}

// SendZeroEvent publishes the zero value of E on the Architecture's bus.
func SendZeroEvent[E any](a *Architecture) {
	PublishZero[E](a.events)
}

// OnEvent subscribes fn to events of type E on the Architecture's bus
// and returns the handle that removes the registration.
func OnEvent[E any](a *Architecture, fn func(E)) *Subscription {
	return Subscribe(a.events, fn)
}

//
// -----------------------------------------------------------------------------
// Process-wide singleton
// -----------------------------------------------------------------------------

var (
	sharedMu sync.Mutex
	shared   *Architecture
)

// Boot constructs the process-wide Architecture on first call and
// returns it; later calls return the existing instance unchanged. The
// shared Architecture is never rebuilt within a process lifetime.
func Boot(setup func(*Architecture), opts ...Option) *Architecture {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = New(setup, opts...)
	}
	return shared
}

// Shared returns the process-wide Architecture. It panics when Boot has
// not run yet: the singleton is an explicit convenience for hosts, not
// ambient state the library reaches for internally.
func Shared() *Architecture {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		panic("arc: Shared called before Boot")
	}
	return shared
}

// ResetShared drops the process-wide instance so the next Boot builds a
// fresh one. Test support only; production processes never reset.
func ResetShared() {
	sharedMu.Lock()
	shared = nil
	sharedMu.Unlock()
}
