// Package diag implements the tag interpreter's diagnostic taxonomy and its
// ANSI-coloured renderer.
//
// Every failure the interpreter can produce is represented by a single
// *Error value distinguished by Kind, mirroring the teacher's ParseError
// pattern of one struct with a Kind field rather than a wrapper type per
// variant. The span(s) an Error carries are always byte offsets into the
// template that produced it; Render is the only place those offsets are
// rounded to a UTF-8 character boundary for display.
package diag

import (
	"fmt"

	"github.com/corvidbot/tags/span"
)

// Kind identifies which taxonomy variant an Error is. Keep in sync with the
// ABI table in the module's external interface documentation.
type Kind int

const (
	EmptySubtag Kind = iota
	MissingClosingBrace
	UnknownSubtag
	ArgParseErrorKind
	IndexOutOfBounds
	IfMissingStmt
	IfMissingCmp
	IfMissingValue
	IfMissingThen
	IfMissingElse
	IfInvalidCmp
	IterLimit
	DepthLimit
	VarLimit
	VarKeyLengthLimit
	VarValueLengthLimit
	StringLengthLimit
	RequestLimit
	Nested
	Unknown
)

func (k Kind) String() string {
	switch k {
	case EmptySubtag:
		return "empty subtag"
	case MissingClosingBrace:
		return "missing closing brace"
	case UnknownSubtag:
		return "unknown subtag"
	case ArgParseErrorKind:
		return "argument error"
	case IndexOutOfBounds:
		return "index out of bounds"
	case IfMissingStmt:
		return "if: missing statement"
	case IfMissingCmp:
		return "if: missing comparator"
	case IfMissingValue:
		return "if: missing value"
	case IfMissingThen:
		return "if: missing then-branch"
	case IfMissingElse:
		return "if: missing else-branch"
	case IfInvalidCmp:
		return "if: invalid comparator"
	case IterLimit:
		return "iteration limit exceeded"
	case DepthLimit:
		return "recursion depth limit exceeded"
	case VarLimit:
		return "variable limit exceeded"
	case VarKeyLengthLimit:
		return "variable key too long"
	case VarValueLengthLimit:
		return "variable value too long"
	case StringLengthLimit:
		return "output length limit exceeded"
	case RequestLimit:
		return "request limit exceeded"
	case Nested:
		return "nested evaluation error"
	case Unknown:
		return "error"
	default:
		return "error"
	}
}

// ArgKind names the inner parse problem behind an ArgParseErrorKind error.
type ArgKind int

const (
	MissingArgument ArgKind = iota
	NotEnoughArguments
	ParseIntError
	ParseFloatError
	OtherStringError
)

func (k ArgKind) String() string {
	switch k {
	case MissingArgument:
		return "missing argument"
	case NotEnoughArguments:
		return "not enough arguments"
	case ParseIntError:
		return "invalid integer"
	case ParseFloatError:
		return "invalid number"
	case OtherStringError:
		return "invalid argument"
	default:
		return "invalid argument"
	}
}

// Error is the single type used for every diagnosable failure the
// interpreter can produce. Only the fields relevant to Kind are populated;
// the rest are zero.
type Error struct {
	Kind Kind
	Span span.Span // primary span, always present

	// MissingClosingBrace
	Expected string
	TagStart int

	// UnknownSubtag
	Name       string
	Suggestion string // filled by the registry via fuzzy matching, may be ""

	// ArgParseErrorKind
	ArgKind ArgKind
	ArgName string

	// IndexOutOfBounds
	UsedIdx int
	ArgsLen int

	// IterLimit
	Pos int

	// IterLimit / DepthLimit / VarLimit / VarKeyLengthLimit /
	// VarValueLengthLimit / StringLengthLimit / RequestLimit: the
	// configured maximum that was exceeded.
	Limit int

	// VarKeyLengthLimit / VarValueLengthLimit: the actual length seen.
	Length int

	// StringLengthLimit: the size the output would have grown to.
	Attempted int

	// Nested
	NestedSource string
	NestedErr    *Error

	// Unknown (host-supplied message) and as a generic message override
	Message string
}

// Error implements the error interface with a single-line, colour-free
// summary; Render below produces the full multi-note diagnostic.
func (e *Error) Error() string {
	if e.Kind == Nested && e.NestedErr != nil {
		return fmt.Sprintf("in nested template: %s", e.NestedErr.Error())
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// New constructs a bare Error of the given kind at sp; use the With*
// helpers to attach variant-specific payload before returning it.
func New(kind Kind, sp span.Span) *Error {
	return &Error{Kind: kind, Span: sp}
}

// Recoverable reports whether this error is a structural parse failure of
// a single subtag invocation — IgnoreOnError mode converts these to a
// verbatim literal and continues. Every other kind is an evaluation error
// (raised only after a tag parsed successfully) and always aborts, even
// under IgnoreOnError.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case EmptySubtag, MissingClosingBrace, UnknownSubtag:
		return true
	default:
		return false
	}
}

func (e *Error) WithExpected(expected string, tagStart int) *Error {
	e.Expected = expected
	e.TagStart = tagStart
	return e
}

func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

func (e *Error) WithArgKind(kind ArgKind, argName string) *Error {
	e.ArgKind = kind
	e.ArgName = argName
	return e
}

func (e *Error) WithIndex(used, argsLen int) *Error {
	e.UsedIdx = used
	e.ArgsLen = argsLen
	return e
}

func (e *Error) WithPos(pos int) *Error {
	e.Pos = pos
	return e
}

func (e *Error) WithLength(length int) *Error {
	e.Length = length
	return e
}

func (e *Error) WithAttempted(n int) *Error {
	e.Attempted = n
	return e
}

func (e *Error) WithLimit(limit int) *Error {
	e.Limit = limit
	return e
}

func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WrapNested produces a Nested error whose rendering source is s rather
// than the outer template, per the "eval/tag boundary" propagation policy:
// outer context is intentionally hidden from the user.
func WrapNested(s string, inner *Error) *Error {
	return &Error{
		Kind:         Nested,
		Span:         inner.Span,
		NestedSource: s,
		NestedErr:    inner,
	}
}
