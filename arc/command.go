package arc

// Command is a one-shot write operation dispatched through an
// Architecture. A command receives the Architecture explicitly at
// execution time and is discarded afterwards; it returns no value and
// reports side effects through state mutation or events.
type Command interface {
	Exec(a *Architecture) error
}

// Query is a one-shot read dispatched through an Architecture. It
// computes exactly one result synchronously and is discarded afterwards.
type Query[R any] interface {
	Query(a *Architecture) (R, error)
}

// Exec runs cmd exactly once against a. Errors propagate to the caller
// untouched: the Architecture neither retries nor swallows command
// failures.
func Exec(a *Architecture, cmd Command) error {
	return cmd.Exec(a)
}

// ExecZero constructs the zero value of C and executes it. The form for
// parameterless commands:
//
//	err := arc.ExecZero[ResetCommand](a)
func ExecZero[C any, P interface {
	*C
	Command
}](a *Architecture) error {
	var cmd C
	return P(&cmd).Exec(a)
}

// Ask runs q exactly once against a and returns its result.
func Ask[R any](a *Architecture, q Query[R]) (R, error) {
	return q.Query(a)
}
