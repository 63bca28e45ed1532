package diag

import (
	"strings"
	"testing"

	"github.com/corvidbot/tags/span"
)

func TestFormatPlainHasNoEscapes(t *testing.T) {
	e := New(UnknownSubtag, span.Span{Lo: 1, Hi: 4}).WithName("zzz")
	out := FormatPlain("{zzz}", e)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("FormatPlain output contains ANSI escapes: %q", out)
	}
	if !strings.Contains(out, "no subtag named 'zzz'") {
		t.Errorf("FormatPlain output = %q, want to mention the unknown name", out)
	}
}

func TestFormatHasEscapes(t *testing.T) {
	e := New(UnknownSubtag, span.Span{Lo: 1, Hi: 4}).WithName("zzz")
	out := Format("{zzz}", e)
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("Format output should contain ANSI escapes, got %q", out)
	}
}

func TestUnknownSubtagSuggestionNote(t *testing.T) {
	e := New(UnknownSubtag, span.Span{Lo: 1, Hi: 5}).WithName("rnage")
	e.Suggestion = "range"
	out := FormatPlain("{rnage:1|10}", e)
	if !strings.Contains(out, "a similar subtag exists: {range:...}") {
		t.Errorf("expected a suggestion note, got %q", out)
	}
}

func TestMissingClosingBraceNotesTagStart(t *testing.T) {
	e := New(MissingClosingBrace, span.At(6)).WithExpected("}", 0)
	out := FormatPlain("{range:1", e)
	if !strings.Contains(out, "expected '}' here") {
		t.Errorf("expected note about missing brace, got %q", out)
	}
	if !strings.Contains(out, "tag opened here") {
		t.Errorf("expected a 'tag opened here' help note, got %q", out)
	}
}

func TestNestedRendersAgainstInnerSource(t *testing.T) {
	inner := New(UnknownSubtag, span.Span{Lo: 0, Hi: 3}).WithName("zzz")
	outer := WrapNested("{zzz}", inner)
	out := FormatPlain("{eval:{zzz}}", outer)
	if !strings.Contains(out, "zzz") {
		t.Errorf("expected rendering to reference the inner source, got %q", out)
	}
}

func TestRenderDoesNotPanicOnOutOfRangeSpan(t *testing.T) {
	e := New(StringLengthLimit, span.Span{Lo: 1000, Hi: 1005}).WithAttempted(9999).WithLimit(256000)
	out := FormatPlain("short", e)
	if out == "" {
		t.Error("expected non-empty render output")
	}
}
