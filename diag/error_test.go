package diag

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/corvidbot/tags/span"
)

func TestRecoverable(t *testing.T) {
	recoverable := []Kind{EmptySubtag, MissingClosingBrace, UnknownSubtag}
	for _, k := range recoverable {
		e := New(k, span.At(0))
		if !e.Recoverable() {
			t.Errorf("%v.Recoverable() = false, want true", k)
		}
	}

	notRecoverable := []Kind{
		ArgParseErrorKind, IndexOutOfBounds, IfMissingStmt, IfInvalidCmp,
		IterLimit, DepthLimit, VarLimit, VarKeyLengthLimit,
		VarValueLengthLimit, StringLengthLimit, RequestLimit, Nested, Unknown,
	}
	for _, k := range notRecoverable {
		e := New(k, span.At(0))
		if e.Recoverable() {
			t.Errorf("%v.Recoverable() = true, want false", k)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := New(UnknownSubtag, span.Span{Lo: 1, Hi: 4}).WithName("foo")
	if !strings.Contains(e.Error(), "unknown subtag") {
		t.Errorf("Error() = %q, want to mention unknown subtag", e.Error())
	}

	e = New(Unknown, span.At(0)).WithMessage("host blew up")
	if e.Error() != "host blew up" {
		t.Errorf("Error() = %q, want %q", e.Error(), "host blew up")
	}
}

func TestWrapNestedRendersAgainstInnerSource(t *testing.T) {
	inner := New(UnknownSubtag, span.Span{Lo: 0, Hi: 3}).WithName("xyz")
	outer := WrapNested("{xyz}", inner)
	if outer.Kind != Nested {
		t.Fatalf("WrapNested kind = %v, want Nested", outer.Kind)
	}
	if !strings.Contains(outer.Error(), "unknown subtag") {
		t.Errorf("nested Error() = %q, want to mention the inner error", outer.Error())
	}
}

func TestBuilders(t *testing.T) {
	e := New(VarKeyLengthLimit, span.At(5)).WithLength(150).WithLimit(100)
	if e.Length != 150 || e.Limit != 100 {
		t.Errorf("builders did not set fields: %+v", e)
	}

	idx := New(IndexOutOfBounds, span.At(0)).WithIndex(3, 2)
	if idx.UsedIdx != 3 || idx.ArgsLen != 2 {
		t.Errorf("WithIndex did not set fields: %+v", idx)
	}
}

func TestWithIndexProducesExpectedErrorShape(t *testing.T) {
	got := New(IndexOutOfBounds, span.Span{Lo: 2, Hi: 8}).WithIndex(5, 2)
	want := &Error{
		Kind:    IndexOutOfBounds,
		Span:    span.Span{Lo: 2, Hi: 8},
		UsedIdx: 5,
		ArgsLen: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithIndex() mismatch (-want +got):\n%s", diff)
	}
}
