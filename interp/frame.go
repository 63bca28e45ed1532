package interp

import (
	gocontext "context"
	"strings"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/host"
	"github.com/corvidbot/tags/span"
	"github.com/corvidbot/tags/state"
)

// Mode selects how Parse reacts to a structural parse failure inside a
// subtag invocation.
type Mode int

const (
	// StopOnError aborts the whole parse on the first error.
	StopOnError Mode = iota
	// IgnoreOnError echoes a failed subtag invocation verbatim as literal
	// text and continues. Evaluation errors (raised after a tag parsed
	// successfully) still abort in this mode.
	IgnoreOnError
)

// Frame is one recursive-descent parser frame, per the specification's
// data model: it borrows the invocation's Shared state and host Context,
// and owns the byte cursor into its own source buffer. A Frame created by
// eval/tag nesting gets its own buffer and argument vector but shares
// everything else with its parent.
type Frame struct {
	buf *span.Buffer
	pos int

	args  []string
	depth int

	tagStack []int

	shared     *state.Shared
	hostCtx    host.Context
	dispatcher Dispatcher
	mode       Mode
	goCtx      gocontext.Context
}

func newFrame(buf *span.Buffer, args []string, depth int, shared *state.Shared, h host.Context, d Dispatcher, mode Mode, ctx gocontext.Context) *Frame {
	return &Frame{
		buf:        buf,
		args:       args,
		depth:      depth,
		shared:     shared,
		hostCtx:    h,
		dispatcher: d,
		mode:       mode,
		goCtx:      ctx,
	}
}

// Shared returns the invocation's shared state (variables, counters,
// attachment slot).
func (f *Frame) Shared() *state.Shared { return f.shared }

// Host returns the embedder-supplied side-effect context.
func (f *Frame) Host() host.Context { return f.hostCtx }

// GoContext returns the context.Context threaded through host calls.
func (f *Frame) GoContext() gocontext.Context { return f.goCtx }

// Args returns the argument vector of the tag invocation this frame is
// evaluating (the template's own args at the top level, or the new vector
// introduced by an enclosing `tag` invocation).
func (f *Frame) Args() []string { return f.args }

// Depth returns the recursion depth, 0 at the top level.
func (f *Frame) Depth() int { return f.depth }

// Pos returns the current byte cursor, for building diagnostics that need a
// point span at "wherever we are now".
func (f *Frame) Pos() int { return f.pos }

// Buffer returns the source buffer this frame is scanning.
func (f *Frame) Buffer() *span.Buffer { return f.buf }

// ParseSegment parses one argument segment — literal text interleaved with
// nested subtag invocations — stopping at the first unescaped top-level
// '|' or '}', or at EOF. It is the primitive lazy handlers (`if`, `note`,
// `ignore`) use to drive their own argument evaluation.
func (f *Frame) ParseSegment(sideEffects bool) (string, *diag.Error) {
	text, _, err := f.scan(sideEffects, true)
	return text, err
}

// TakeSep consumes a leading ':' or '|' argument separator if present and
// reports whether it did.
func (f *Frame) TakeSep() bool {
	b, ok := f.buf.At(f.pos)
	if ok && (b == ':' || b == '|') {
		f.pos++
		return true
	}
	return false
}

// TakeClose consumes a closing '}' or fails with MissingClosingBrace;
// tagStart is the byte offset of the invocation's opening '{', used for
// the diagnostic's "tag opened here" help note.
func (f *Frame) TakeClose(tagStart int) *diag.Error {
	b, ok := f.buf.At(f.pos)
	if ok && b == '}' {
		f.pos++
		return nil
	}
	return diag.New(diag.MissingClosingBrace, span.At(f.pos)).WithExpected("}", tagStart)
}

// ParseNested reparses source as an independent template sharing this
// frame's shared state and host context, with a fresh argument vector and
// depth+1. Used by the eval and tag subtags. Any error raised while
// reparsing is wrapped in a Nested diagnostic so rendering targets source,
// not the outer template, per the propagation policy.
func (f *Frame) ParseNested(source string, args []string) (string, *diag.Error) {
	if f.depth+1 > state.MaxDepth {
		return "", diag.New(diag.DepthLimit, span.At(f.pos)).WithLimit(state.MaxDepth)
	}
	child := newFrame(span.NewString(source), args, f.depth+1, f.shared, f.hostCtx, f.dispatcher, f.mode, f.goCtx)
	out, _, err := child.scan(true, false)
	if err != nil {
		return "", diag.WrapNested(source, err)
	}
	return out, nil
}

// scan is the shared core of top-level parsing and argument-segment
// parsing. When stopAtSep is true it stops at the first unescaped '}' or
// '|' (returning which one in stopByte); when false — top-level parsing,
// and the bodies `eval`/`tag` reparse as — those two bytes are ordinary
// literal characters and scan only stops at EOF.
func (f *Frame) scan(sideEffects bool, stopAtSep bool) (text string, stopByte byte, parseErr *diag.Error) {
	if !f.shared.TryIteration() {
		return "", 0, diag.New(diag.IterLimit, span.At(f.pos)).WithPos(f.pos).WithLimit(state.MaxIterations)
	}

	var out strings.Builder
	for {
		b, ok := f.buf.At(f.pos)
		if !ok {
			return out.String(), 0, nil
		}

		if b == '\\' {
			if nb, ok2 := f.buf.At(f.pos + 1); ok2 && span.IsStructural(nb) {
				if err := f.appendTo(&out, string(nb), sideEffects); err != nil {
					return "", 0, err
				}
				f.pos += 2
				continue
			}
		}

		if b == '{' {
			start := f.pos
			text, err := f.parseTag(sideEffects, start)
			if err != nil {
				if f.mode == IgnoreOnError && err.Recoverable() {
					literal := f.buf.Slice(span.Span{Lo: start, Hi: f.pos})
					if appErr := f.appendTo(&out, literal, sideEffects); appErr != nil {
						return "", 0, appErr
					}
					continue
				}
				return "", 0, err
			}
			if appErr := f.appendTo(&out, text, sideEffects); appErr != nil {
				return "", 0, appErr
			}
			continue
		}

		if stopAtSep && (b == '}' || b == '|') {
			return out.String(), b, nil
		}

		size := runeSize(f.buf, f.pos)
		if appErr := f.appendTo(&out, string(f.buf.Bytes()[f.pos:f.pos+size]), sideEffects); appErr != nil {
			return "", 0, appErr
		}
		f.pos += size
	}
}

// appendTo enforces MAX_STRING_LENGTH before growing b. A no-op, always
// succeeding, when sideEffects is false (the output is being discarded).
func (f *Frame) appendTo(b *strings.Builder, s string, sideEffects bool) *diag.Error {
	if !sideEffects {
		return nil
	}
	if b.Len()+len(s) > state.MaxStringLength {
		return diag.New(diag.StringLengthLimit, span.At(f.pos)).WithAttempted(b.Len() + len(s)).WithLimit(state.MaxStringLength)
	}
	b.WriteString(s)
	return nil
}

// parseTag parses one `{NAME ...}` invocation starting at the '{' found at
// start (f.pos == start on entry). It handles lazy dispatch, generic
// argument-list consumption for eager/unknown names, and the side-effect
// toggle that skips handler invocation entirely while still advancing the
// cursor correctly.
func (f *Frame) parseTag(sideEffects bool, start int) (string, *diag.Error) {
	f.pos++ // consume '{'
	f.tagStack = append(f.tagStack, start)
	defer func() { f.tagStack = f.tagStack[:len(f.tagStack)-1] }()

	f.skipWS()

	nameStart := f.pos
	for {
		b, ok := f.buf.At(f.pos)
		if !ok || !isNameByte(b) {
			break
		}
		f.pos++
	}
	name := f.buf.Slice(span.Span{Lo: nameStart, Hi: f.pos})
	if name == "" {
		return "", diag.New(diag.EmptySubtag, span.Span{Lo: start, Hi: f.pos})
	}

	entry, found := f.dispatcher.Lookup(name)

	if found && entry.Lazy != nil {
		sp := span.Span{Lo: start, Hi: f.pos}
		return entry.Lazy.EvalLazy(f, sideEffects, sp)
	}

	argEffects := sideEffects && found
	var rawArgs []string
	for {
		b, ok := f.buf.At(f.pos)
		if !ok {
			return "", diag.New(diag.MissingClosingBrace, span.At(f.pos)).WithExpected("}", start)
		}
		if b == '}' {
			f.pos++
			break
		}
		if b == ':' || b == '|' {
			f.pos++
			argText, _, err := f.scan(argEffects, true)
			if err != nil {
				return "", err
			}
			rawArgs = append(rawArgs, argText)
			continue
		}
		return "", diag.New(diag.MissingClosingBrace, span.At(f.pos)).WithExpected("':', '|' or '}'", start)
	}

	if !found {
		e := diag.New(diag.UnknownSubtag, span.Span{Lo: nameStart, Hi: nameStart + len(name)}).WithName(name)
		e.Suggestion = f.dispatcher.Suggest(name)
		return "", e
	}

	if !sideEffects {
		return "", nil
	}

	fullSpan := span.Span{Lo: start, Hi: f.pos}
	return entry.Eager.Eval(f, rawArgs, fullSpan)
}

func (f *Frame) skipWS() {
	for {
		b, ok := f.buf.At(f.pos)
		if !ok || !(b == ' ' || b == '\t' || b == '\r' || b == '\n') {
			return
		}
		f.pos++
	}
}

var nameByte [128]bool

func init() {
	for c := byte('A'); c <= 'Z'; c++ {
		nameByte[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		nameByte[c] = true
	}
}

func isNameByte(b byte) bool {
	return b < 128 && nameByte[b]
}

// runeSize returns the byte length of the UTF-8 rune at pos, defensively
// treating invalid encodings as single bytes so the cursor never stalls.
func runeSize(buf *span.Buffer, pos int) int {
	b, ok := buf.At(pos)
	if !ok {
		return 1
	}
	if b >= 0x80 && !span.ValidRuneAt(buf.Bytes(), pos) {
		return 1
	}
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return boundedSize(buf, pos, 2)
	case b&0xF0 == 0xE0:
		return boundedSize(buf, pos, 3)
	case b&0xF8 == 0xF0:
		return boundedSize(buf, pos, 4)
	default:
		return 1
	}
}

func boundedSize(buf *span.Buffer, pos, size int) int {
	if pos+size > buf.Len() {
		return 1
	}
	return size
}
