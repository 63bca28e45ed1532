package interp

import (
	gocontext "context"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/host"
	"github.com/corvidbot/tags/span"
	"github.com/corvidbot/tags/state"
)

// Result is the successful outcome of a top-level Parse call.
type Result struct {
	Output     string
	Attachment *state.Attachment
}

// Parse is the interpreter's main public entry point. It evaluates input
// against args (the invocation's argument vector) using shared and ctx for
// side-effecting subtags, and returns either a bounded-size Result or a
// structured *diag.Error.
//
// shared is constructed fresh by the embedder for each top-level
// invocation — see state.New — and must not be reused across invocations.
func Parse(ctx gocontext.Context, input string, args []string, mode Mode, shared *state.Shared, hctx host.Context, d Dispatcher) (Result, *diag.Error) {
	f := newFrame(span.NewString(input), args, 0, shared, hctx, d, mode, ctx)
	out, _, err := f.scan(true, false)
	if err != nil {
		return Result{}, err
	}
	var att *state.Attachment
	if a, ok := shared.AttachmentValue(); ok {
		att = &a
	}
	return Result{Output: out, Attachment: att}, nil
}

// ParseWithParent evaluates input as a new top-level-shaped template (top
// level in the sense that unbalanced '|' and '}' in it are literal, not
// structural) that shares parent's shared state, host context, dispatcher
// and mode, but gets its own argument vector and depth+1. It is exposed
// for host-provided subtags that need to recurse into the interpreter
// themselves, outside of the built-in eval/tag handlers.
func ParseWithParent(parent *Frame, input string, args []string) (string, *diag.Error) {
	return parent.ParseNested(input, args)
}

// FormatError renders a structured error for display, degrading to plain
// text content when ANSI escapes are stripped by the consumer.
func FormatError(source string, err *diag.Error) string {
	return diag.Format(source, err)
}
