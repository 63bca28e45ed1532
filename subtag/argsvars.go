package subtag

import (
	"strconv"
	"strings"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
)

func init() {
	defaultRegistry.RegisterEager("arg", eagerFunc(argEval))
	defaultRegistry.RegisterEager("tryarg", eagerFunc(tryargEval))
	defaultRegistry.RegisterEager("args", eagerFunc(argsEval))
	defaultRegistry.RegisterEager("argslen", eagerFunc(argslenEval))
	defaultRegistry.RegisterEager("set", eagerFunc(setEval))
	defaultRegistry.RegisterEager("get", eagerFunc(getEval))
	defaultRegistry.RegisterEager("delete", eagerFunc(deleteEval))
}

// argEval implements {arg:i}: the i-th element of the enclosing
// invocation's argument vector, or IndexOutOfBounds if i is out of range.
func argEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	i, err := a.Usize(0, "i")
	if err != nil {
		return "", err
	}
	invocationArgs := f.Args()
	if i >= len(invocationArgs) {
		return "", diag.New(diag.IndexOutOfBounds, sp).WithIndex(i, len(invocationArgs))
	}
	return invocationArgs[i], nil
}

// tryargEval implements {tryarg:i}, the same lookup as arg but yielding ""
// instead of an error when i is out of range.
func tryargEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	i, err := a.Usize(0, "i")
	if err != nil {
		return "", err
	}
	invocationArgs := f.Args()
	if i < 0 || i >= len(invocationArgs) {
		return "", nil
	}
	return invocationArgs[i], nil
}

// argsEval implements {args}: every argument joined with a single space,
// matching the teacher's join-for-display convention.
func argsEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	return strings.Join(f.Args(), " "), nil
}

func argslenEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	return strconv.Itoa(len(f.Args())), nil
}

func setEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	key, err := a.String(0, "key")
	if err != nil {
		return "", err
	}
	value, err := a.String(1, "value")
	if err != nil {
		return "", err
	}
	if err := f.Shared().Set(key, value, sp); err != nil {
		return "", err
	}
	return "", nil
}

func getEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	key, err := a.String(0, "key")
	if err != nil {
		return "", err
	}
	v, _ := f.Shared().Get(key)
	return v, nil
}

func deleteEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	key, err := a.String(0, "key")
	if err != nil {
		return "", err
	}
	f.Shared().Delete(key)
	return "", nil
}
