package interp

import (
	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/span"
)

// EagerHandler is a subtag whose arguments are parsed and evaluated by the
// engine before the handler ever runs. args are the already-evaluated
// argument strings in source order; sp covers the whole `{name:...}`
// invocation for diagnostics.
type EagerHandler interface {
	Eval(f *Frame, args []string, sp span.Span) (string, *diag.Error)
}

// LazyHandler is a subtag that drives its own argument parsing, because
// which arguments get evaluated (and with which side-effect setting)
// depends on values only the handler itself computes — `if` being the
// canonical example. sideEffects is the side-effect setting the engine
// would have used had this tag been eager; a lazy handler must honour
// sideEffects == false by parsing its own sub-segments (to keep the
// cursor correct) without evaluating any of them for real.
type LazyHandler interface {
	EvalLazy(f *Frame, sideEffects bool, sp span.Span) (string, *diag.Error)
}

// Entry is what the registry hands back for a resolved name: exactly one
// of Eager or Lazy is non-nil.
type Entry struct {
	Eager EagerHandler
	Lazy  LazyHandler
}

// Dispatcher resolves a subtag name to its handler. The only implementation
// in this module is *subtag.Registry; Parse takes a Dispatcher rather than
// importing that package directly to keep the parser/evaluator core and
// the subtag registry as independent, separately testable packages.
type Dispatcher interface {
	Lookup(name string) (Entry, bool)

	// Suggest returns a close-enough fuzzy match for an unrecognised name,
	// or "" if nothing is close enough to be worth suggesting.
	Suggest(name string) string
}
