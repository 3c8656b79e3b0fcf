package arc_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbn2020/arc/arc"
)

//
// -----------------------------------------------------------------------------
// Test fixtures: a tiny counter graph
// -----------------------------------------------------------------------------

// initRecorder collects init order across modules sharing it.
type initRecorder struct{ order []string }

type counterModel struct {
	arc.ModuleBase
	rec   *initRecorder
	inits int
	count int
}

func (m *counterModel) Init() {
	m.inits++
	if m.rec != nil {
		m.rec.order = append(m.rec.order, "model:counter")
	}
}

type auditModel struct {
	arc.ModuleBase
	rec   *initRecorder
	inits int
}

func (m *auditModel) Init() {
	m.inits++
	if m.rec != nil {
		m.rec.order = append(m.rec.order, "model:audit")
	}
}

type replaySystem struct {
	arc.ModuleBase
	rec      *initRecorder
	inits    int
	sawModel bool
}

func (s *replaySystem) Init() {
	s.inits++
	if s.rec != nil {
		s.rec.order = append(s.rec.order, "system:replay")
	}
	// Systems init after models, so the model must already be reachable.
	_, s.sawModel = arc.ModelOf[*counterModel](s.Arch())
}

type counterChanged struct{ count int }

type addCommand struct{ by int }

func (c *addCommand) Exec(a *arc.Architecture) error {
	m, ok := arc.ModelOf[*counterModel](a)
	if !ok {
		return errors.New("counter model missing")
	}
	m.count += c.by
	arc.SendEvent(a, counterChanged{count: m.count})
	return nil
}

type resetCommand struct{}

func (*resetCommand) Exec(a *arc.Architecture) error {
	m, ok := arc.ModelOf[*counterModel](a)
	if !ok {
		return errors.New("counter model missing")
	}
	m.count = 0
	return nil
}

var errCommandFailed = errors.New("command failed")

type failingCommand struct{}

func (*failingCommand) Exec(*arc.Architecture) error { return errCommandFailed }

type countQuery struct{}

func (countQuery) Query(a *arc.Architecture) (int, error) {
	m, ok := arc.ModelOf[*counterModel](a)
	if !ok {
		return 0, errors.New("counter model missing")
	}
	return m.count, nil
}

//
// -----------------------------------------------------------------------------
// Bootstrap
// -----------------------------------------------------------------------------

// TestNew_StagedInitOrder verifies modules registered during setup stage
// first and initialize exactly once, models before systems, each role in
// registration order, regardless of interleaving during setup.
func TestNew_StagedInitOrder(t *testing.T) {
	t.Parallel()

	rec := &initRecorder{}
	counter := &counterModel{rec: rec}
	audit := &auditModel{rec: rec}
	replay := &replaySystem{rec: rec}

	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(counter)
		a.RegisterSystem(replay)
		a.RegisterModel(audit)

		// Nothing initializes while setup is still running.
		require.Empty(t, rec.order)
		require.False(t, a.Ready())
	})

	assert.Equal(t, []string{"model:counter", "model:audit", "system:replay"}, rec.order)
	assert.Equal(t, 1, counter.inits)
	assert.Equal(t, 1, audit.inits)
	assert.Equal(t, 1, replay.inits)
	assert.True(t, replay.sawModel)
	assert.True(t, a.Ready())

	// Back-references were assigned at registration.
	assert.Same(t, a, counter.Arch())
	assert.Same(t, a, replay.Arch())
}

// TestRegisterModel_AfterReadiness verifies post-ready registration skips
// staging: Init runs synchronously inside the Register call.
func TestRegisterModel_AfterReadiness(t *testing.T) {
	t.Parallel()

	a := arc.New(nil)
	require.True(t, a.Ready())

	late := &counterModel{}
	a.RegisterModel(late)

	assert.Equal(t, 1, late.inits)
	assert.Same(t, a, late.Arch())

	got, ok := arc.ModelOf[*counterModel](a)
	require.True(t, ok)
	assert.Same(t, late, got)
}

// spawnModel registers its child model from inside Init.
type spawnModel struct {
	arc.ModuleBase
	rec   *initRecorder
	child *auditModel
}

func (m *spawnModel) Init() {
	m.rec.order = append(m.rec.order, "model:spawn")
	m.Arch().RegisterModel(m.child)
}

// TestNew_RegistrationDuringDrain verifies a module registered from inside
// another module's Init still initializes before readiness flips.
func TestNew_RegistrationDuringDrain(t *testing.T) {
	t.Parallel()

	rec := &initRecorder{}
	child := &auditModel{rec: rec}
	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(&spawnModel{rec: rec, child: child})
	})

	assert.Equal(t, []string{"model:spawn", "model:audit"}, rec.order)
	assert.Equal(t, 1, child.inits)
	assert.True(t, a.Ready())
}

// TestNew_SetupPanicPropagates verifies bootstrap performs no recovery: a
// panic in setup reaches the caller.
func TestNew_SetupPanicPropagates(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "broken setup", func() {
		arc.New(func(*arc.Architecture) { panic("broken setup") })
	})
}

type explodingModel struct{ arc.ModuleBase }

func (*explodingModel) Init() { panic("broken init") }

// TestNew_InitPanicPropagates verifies a staged Init panic aborts bootstrap
// uncaught.
func TestNew_InitPanicPropagates(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "broken init", func() {
		arc.New(func(a *arc.Architecture) {
			a.RegisterModel(&explodingModel{})
		})
	})
}

// TestBootstrapPatch_RunsOnceBeforeStagedInit verifies the patch hook sees
// the fresh Architecture after setup but before any staged module
// initialized, and can swap bindings. Mutates package state, so no
// t.Parallel.
func TestBootstrapPatch_RunsOnceBeforeStagedInit(t *testing.T) {
	rec := &initRecorder{}
	original := &counterModel{rec: rec}
	replacement := &counterModel{rec: rec, count: 99}

	patchCalls := 0
	arc.BootstrapPatch = func(a *arc.Architecture) {
		patchCalls++
		rec.order = append(rec.order, "patch")
		a.RegisterModel(replacement)
	}
	t.Cleanup(func() { arc.BootstrapPatch = nil })

	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(original)
	})

	assert.Equal(t, 1, patchCalls)
	require.NotEmpty(t, rec.order)
	assert.Equal(t, "patch", rec.order[0])

	// The replacement won the binding; both staged instances initialized.
	got, ok := arc.ModelOf[*counterModel](a)
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, original.inits)
	assert.Equal(t, 1, replacement.inits)
}

// TestWithLogger verifies bootstrap emits debug logs through an injected
// zerolog logger.
func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	arc.New(func(a *arc.Architecture) {
		a.RegisterModel(&counterModel{})
	}, arc.WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, "module staged")
	assert.Contains(t, out, "init model")
	assert.Contains(t, out, "architecture ready")
}

//
// -----------------------------------------------------------------------------
// Lookups
// -----------------------------------------------------------------------------

type clockUtility struct{ now int64 }

// TestLookups verifies the role-typed accessors and their absent results.
func TestLookups(t *testing.T) {
	t.Parallel()

	counter := &counterModel{}
	replay := &replaySystem{}
	clock := &clockUtility{now: 1700000000}

	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(counter)
		a.RegisterSystem(replay)
		arc.RegisterUtility(a, clock)
	})

	gotModel, ok := arc.ModelOf[*counterModel](a)
	require.True(t, ok)
	assert.Same(t, counter, gotModel)

	gotSystem, ok := arc.SystemOf[*replaySystem](a)
	require.True(t, ok)
	assert.Same(t, replay, gotSystem)

	gotClock, ok := arc.UtilityOf[*clockUtility](a)
	require.True(t, ok)
	assert.Same(t, clock, gotClock)

	_, ok = arc.ModelOf[*auditModel](a)
	assert.False(t, ok)
	_, ok = arc.UtilityOf[*initRecorder](a)
	assert.False(t, ok)
}

//
// -----------------------------------------------------------------------------
// Commands / queries / events
// -----------------------------------------------------------------------------

// TestExec_CommandRunsOnceAgainstArchitecture verifies dispatch: the
// command receives the Architecture as its argument, runs exactly once, and
// its effects (state mutation + event) are observable.
func TestExec_CommandRunsOnceAgainstArchitecture(t *testing.T) {
	t.Parallel()

	counter := &counterModel{}
	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(counter)
	})

	var events []counterChanged
	arc.OnEvent(a, func(e counterChanged) { events = append(events, e) })

	require.NoError(t, arc.Exec(a, &addCommand{by: 3}))
	require.NoError(t, arc.Exec(a, &addCommand{by: 4}))

	assert.Equal(t, 7, counter.count)
	assert.Equal(t, []counterChanged{{count: 3}, {count: 7}}, events)
}

// TestExec_ErrorPropagates verifies command failures reach the caller
// unwrapped and unlogged.
func TestExec_ErrorPropagates(t *testing.T) {
	t.Parallel()

	a := arc.New(nil)
	err := arc.Exec(a, &failingCommand{})
	assert.ErrorIs(t, err, errCommandFailed)
}

// TestExecZero verifies the construct-default form runs the zero command.
func TestExecZero(t *testing.T) {
	t.Parallel()

	counter := &counterModel{count: 41}
	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(counter)
	})

	require.NoError(t, arc.ExecZero[resetCommand](a))
	assert.Equal(t, 0, counter.count)
}

// TestAsk verifies a query computes one synchronous result.
func TestAsk(t *testing.T) {
	t.Parallel()

	counter := &counterModel{count: 12}
	a := arc.New(func(a *arc.Architecture) {
		a.RegisterModel(counter)
	})

	got, err := arc.Ask(a, countQuery{})
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	// Missing model surfaces as the query's own error.
	empty := arc.New(nil)
	_, err = arc.Ask(empty, countQuery{})
	assert.Error(t, err)
}

// TestSendZeroEvent verifies the payload-free event form on the
// Architecture's bus, and that each Architecture's bus is isolated.
func TestSendZeroEvent(t *testing.T) {
	t.Parallel()

	a := arc.New(nil)
	other := arc.New(nil)

	calls := 0
	sub := arc.OnEvent(a, func(counterChanged) { calls++ })

	arc.SendZeroEvent[counterChanged](a)
	arc.SendZeroEvent[counterChanged](other)
	assert.Equal(t, 1, calls)

	sub.Cancel()
	arc.SendZeroEvent[counterChanged](a)
	assert.Equal(t, 1, calls)
}

//
// -----------------------------------------------------------------------------
// Process-wide singleton
// -----------------------------------------------------------------------------

// TestBootAndShared verifies the lazy singleton: Boot constructs once,
// later Boot calls return the same instance, Shared hands it out, and
// ResetShared allows a fresh graph for the next test. Mutates package
// state, so no t.Parallel.
func TestBootAndShared(t *testing.T) {
	t.Cleanup(arc.ResetShared)
	arc.ResetShared()

	counter := &counterModel{}
	first := arc.Boot(func(a *arc.Architecture) {
		a.RegisterModel(counter)
	})
	require.True(t, first.Ready())
	assert.Equal(t, 1, counter.inits)

	second := arc.Boot(func(*arc.Architecture) {
		t.Fatal("setup must not run again for an existing singleton")
	})
	assert.Same(t, first, second)
	assert.Same(t, first, arc.Shared())
}

// TestShared_PanicsBeforeBoot verifies Shared refuses to conjure an
// Architecture implicitly. Mutates package state, so no t.Parallel.
func TestShared_PanicsBeforeBoot(t *testing.T) {
	t.Cleanup(arc.ResetShared)
	arc.ResetShared()

	assert.Panics(t, func() { arc.Shared() })
}
