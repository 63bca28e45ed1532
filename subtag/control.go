package subtag

import (
	"strconv"
	"strings"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
)

func init() {
	defaultRegistry.RegisterLazy("if", ifHandler{})
	defaultRegistry.RegisterLazy("note", noteHandler{})
	defaultRegistry.RegisterLazy("ignore", ignoreHandler{})
}

// ifHandler implements {if:stmt|cmp|value|then|else}. It is lazy because
// only the chosen branch is evaluated with real side effects; the other is
// parsed with sideEffects=false purely to keep the cursor correct.
type ifHandler struct{}

func (ifHandler) EvalLazy(f *interp.Frame, sideEffects bool, sp span.Span) (string, *diag.Error) {
	tagStart := sp.Lo

	if !f.TakeSep() {
		return "", diag.New(diag.IfMissingStmt, span.At(f.Pos()))
	}
	stmt, err := f.ParseSegment(sideEffects)
	if err != nil {
		return "", err
	}

	if !f.TakeSep() {
		return "", diag.New(diag.IfMissingCmp, span.At(f.Pos()))
	}
	cmp, err := f.ParseSegment(sideEffects)
	if err != nil {
		return "", err
	}

	if !f.TakeSep() {
		return "", diag.New(diag.IfMissingValue, span.At(f.Pos()))
	}
	value, err := f.ParseSegment(sideEffects)
	if err != nil {
		return "", err
	}

	if !f.TakeSep() {
		return "", diag.New(diag.IfMissingThen, span.At(f.Pos()))
	}

	var takeThen bool
	if sideEffects {
		takeThen, err = evaluateCmp(cmp, stmt, value, sp)
		if err != nil {
			return "", err
		}
	}

	thenText, err := f.ParseSegment(sideEffects && takeThen)
	if err != nil {
		return "", err
	}

	if !f.TakeSep() {
		return "", diag.New(diag.IfMissingElse, span.At(f.Pos()))
	}
	elseText, err := f.ParseSegment(sideEffects && !takeThen)
	if err != nil {
		return "", err
	}

	if err := f.TakeClose(tagStart); err != nil {
		return "", err
	}

	if !sideEffects {
		return "", nil
	}
	if takeThen {
		return thenText, nil
	}
	return elseText, nil
}

func evaluateCmp(cmp, stmt, value string, sp span.Span) (bool, *diag.Error) {
	switch cmp {
	case "=":
		return stmt == value, nil
	case "~":
		return strings.EqualFold(stmt, value), nil
	case "<", "<=", ">", ">=":
		a, aerr := strconv.ParseInt(strings.TrimSpace(stmt), 10, 64)
		if aerr != nil {
			return false, diag.New(diag.ArgParseErrorKind, sp).WithArgKind(diag.ParseIntError, "stmt")
		}
		b, berr := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if berr != nil {
			return false, diag.New(diag.ArgParseErrorKind, sp).WithArgKind(diag.ParseIntError, "value")
		}
		switch cmp {
		case "<":
			return a < b, nil
		case "<=":
			return a <= b, nil
		case ">":
			return a > b, nil
		default:
			return a >= b, nil
		}
	default:
		return false, diag.New(diag.IfInvalidCmp, sp)
	}
}

// noteHandler implements {note:segment?}: the segment, if present, is
// parsed without side effects and discarded; the result is always "".
type noteHandler struct{}

func (noteHandler) EvalLazy(f *interp.Frame, sideEffects bool, sp span.Span) (string, *diag.Error) {
	tagStart := sp.Lo
	if f.TakeSep() {
		if _, err := f.ParseSegment(false); err != nil {
			return "", err
		}
	}
	if err := f.TakeClose(tagStart); err != nil {
		return "", err
	}
	return "", nil
}

// ignoreHandler implements {ignore:segment?}: the segment, if present, is
// parsed with this tag's own side-effect setting and its output returned
// verbatim. Used to wrap text that would otherwise be misread as tag
// structure.
type ignoreHandler struct{}

func (ignoreHandler) EvalLazy(f *interp.Frame, sideEffects bool, sp span.Span) (string, *diag.Error) {
	tagStart := sp.Lo
	var text string
	if f.TakeSep() {
		t, err := f.ParseSegment(sideEffects)
		if err != nil {
			return "", err
		}
		text = t
	}
	if err := f.TakeClose(tagStart); err != nil {
		return "", err
	}
	return text, nil
}
