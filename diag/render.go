package diag

import (
	"fmt"
	"strings"

	"github.com/corvidbot/tags/span"
)

// NoteKind controls a Note's colour and prefix when rendered.
type NoteKind int

const (
	NoteErr NoteKind = iota
	NoteWarn
	NoteHelp
	NotePlain
)

// Note is one line of a rendered Diagnostic: either a primary/secondary
// span with an arrow underline, or a plain spanless help/note line.
type Note struct {
	Kind    NoteKind
	Span    *span.Span // nil for a spanless note
	Message string
}

// ANSI SGR codes: colours from the 30-37 range, 1 for bold, and 0 to reset
// after each painted run. The renderer degrades gracefully if a consumer
// strips escapes, since every code is paired with the visible text it
// decorates.
const (
	sgrReset     = "\x1b[0m"
	sgrBold      = "\x1b[1m"
	sgrRed       = "\x1b[31m"
	sgrYellow    = "\x1b[33m"
	sgrBlue      = "\x1b[34m"
	sgrCyan      = "\x1b[36m"
	sgrBoldRed   = "\x1b[1m\x1b[31m"
	sgrBoldYel   = "\x1b[1m\x1b[33m"
	sgrBoldCyan  = "\x1b[1m\x1b[36m"
	sgrBoldWhite = "\x1b[1m\x1b[37m"
)

func paint(color string, s string, noColor bool) string {
	if noColor || color == "" {
		return s
	}
	return color + s + sgrReset
}

// notesFor derives the ordered list of notes for e per the mapping table in
// the external interface documentation (§4.4). This is a pure function of
// the error value.
func notesFor(e *Error) []Note {
	switch e.Kind {
	case EmptySubtag:
		return []Note{
			{Kind: NoteErr, Span: &e.Span, Message: "subtag has no name"},
			{Kind: NoteHelp, Message: "wrap literal braces with {ignore:...} or escape them as \\{ and \\}"},
		}
	case MissingClosingBrace:
		startSp := span.At(e.TagStart)
		return []Note{
			{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("expected '%s' here", e.Expected)},
			{Kind: NoteHelp, Span: &startSp, Message: "tag opened here"},
		}
	case UnknownSubtag:
		notes := []Note{
			{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("no subtag named '%s'", e.Name)},
			{Kind: NotePlain, Message: "see the subtag documentation for the full list of names"},
		}
		if e.Suggestion != "" {
			notes = append(notes, Note{Kind: NoteHelp, Message: fmt.Sprintf("a similar subtag exists: {%s:...}", e.Suggestion)})
		}
		return notes
	case ArgParseErrorKind:
		msg := e.ArgKind.String()
		if e.ArgName != "" {
			msg = fmt.Sprintf("%s for '%s'", msg, e.ArgName)
		}
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: msg}}
	case IndexOutOfBounds:
		notes := []Note{
			{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("argument index %d out of range (%d argument(s) supplied)", e.UsedIdx, e.ArgsLen)},
		}
		notes = append(notes, Note{Kind: NoteHelp, Message: "use {tryarg:...} or guard with {if:{argslen}|>|i|...|...}"})
		return notes
	case IfMissingStmt:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: expected a statement segment"}}
	case IfMissingCmp:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: expected a comparator segment"}}
	case IfMissingValue:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: expected a value segment"}}
	case IfMissingThen:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: expected a then-branch segment"}}
	case IfMissingElse:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: expected an else-branch segment"}}
	case IfInvalidCmp:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: "if: comparator must be one of = ~ < <= > >="}}
	case IterLimit:
		sp := span.At(e.Pos)
		return []Note{{Kind: NoteErr, Span: &sp, Message: fmt.Sprintf("exceeded the %d subtag-parse iteration limit", e.Limit)}}
	case DepthLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("exceeded the recursion depth limit of %d", e.Limit)}}
	case VarLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("exceeded the %d variable limit", e.Limit)}}
	case VarKeyLengthLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("variable key is %d bytes, limit is %d", e.Length, e.Limit)}}
	case VarValueLengthLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("variable value is %d bytes, limit is %d", e.Length, e.Limit)}}
	case StringLengthLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("output would grow to %d bytes, limit is %d", e.Attempted, e.Limit)}}
	case RequestLimit:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: fmt.Sprintf("exceeded the %d outbound request limit", e.Limit)}}
	case Unknown:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: e.Message}}
	default:
		return []Note{{Kind: NoteErr, Span: &e.Span, Message: e.Error()}}
	}
}

// Render produces the full ANSI-coloured, multi-note diagnostic for e
// against src. For a Nested error, rendering recurses against
// e.NestedSource rather than src: the outer template context is
// intentionally hidden from the user, per the propagation policy.
func Render(src *span.Buffer, e *Error, noColor bool) string {
	if e.Kind == Nested && e.NestedErr != nil {
		return Render(span.NewString(e.NestedSource), e.NestedErr, noColor)
	}

	var b strings.Builder

	header := "error"
	headerColor := sgrBoldRed
	b.WriteString(paint(headerColor, header+":", noColor))
	b.WriteString(" ")
	b.WriteString(paint(sgrBoldWhite, e.Kind.String(), noColor))
	b.WriteString("\n")

	for _, n := range notesFor(e) {
		writeNote(&b, src, n, noColor)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeNote(b *strings.Builder, src *span.Buffer, n Note, noColor bool) {
	if n.Span == nil {
		prefix, color := notePrefix(n.Kind)
		fmt.Fprintf(b, "%s %s\n", paint(color, prefix, noColor), n.Message)
		return
	}

	lo := clampToLen(n.Span.Lo, src.Len())
	line, lineStart, lineNum := src.Line(lo)

	gutter := paint(sgrBlue, "|", noColor)
	fmt.Fprintf(b, "  --> %d:%d\n", lineNum, lo-lineStart+1)
	fmt.Fprintf(b, "   %s\n", gutter)
	fmt.Fprintf(b, "%2d %s %s\n", lineNum, gutter, line)

	col := lo - lineStart
	width := n.Span.Hi - n.Span.Lo
	if width < 1 {
		width = 1
	}
	if col+width > len(line) {
		width = len(line) - col
		if width < 1 {
			width = 1
		}
	}
	arrowColor := sgrRed
	if n.Kind == NoteWarn {
		arrowColor = sgrYellow
	} else if n.Kind == NoteHelp {
		arrowColor = sgrCyan
	}
	arrow := strings.Repeat("^", width)
	fmt.Fprintf(b, "   %s %s%s %s\n", gutter, strings.Repeat(" ", col), paint(arrowColor, arrow, noColor), paint(arrowColor, n.Message, noColor))
}

func notePrefix(kind NoteKind) (string, string) {
	switch kind {
	case NoteHelp:
		return "help:", sgrBoldCyan
	case NoteWarn:
		return "warning:", sgrBoldYel
	case NoteErr:
		return "note:", sgrBoldRed
	default:
		return "note:", ""
	}
}

func clampToLen(pos, n int) int {
	if pos < 0 {
		return 0
	}
	// Spans beyond the buffer are clamped to one byte past the end so the
	// underline still renders against the last line rather than panicking.
	if pos > n {
		return n
	}
	return pos
}

// Format renders e against source exactly as the public entry point
// format_error(source, error) is specified to behave.
func Format(source string, e *Error) string {
	return Render(span.NewString(source), e, false)
}

// FormatPlain is Format without ANSI escapes, for consumers (logs, tests)
// that want the textual content without colour codes.
func FormatPlain(source string, e *Error) string {
	return Render(span.NewString(source), e, true)
}
