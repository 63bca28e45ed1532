package subtag

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
	"github.com/corvidbot/tags/state"
)

func init() {
	defaultRegistry.RegisterEager("repeat", eagerFunc(repeatEval))
	defaultRegistry.RegisterEager("range", eagerFunc(rangeEval))
	defaultRegistry.RegisterEager("abs", unaryMath("n", math.Abs))
	defaultRegistry.RegisterEager("cos", unaryMath("n", math.Cos))
	defaultRegistry.RegisterEager("sin", unaryMath("n", math.Sin))
	defaultRegistry.RegisterEager("tan", unaryMath("n", math.Tan))
	defaultRegistry.RegisterEager("sqrt", unaryMath("n", math.Sqrt))
	defaultRegistry.RegisterEager("e", eagerFunc(func(f *interp.Frame, args []string, sp span.Span) (string, *diag.Error) {
		return formatNumber(math.E), nil
	}))
	defaultRegistry.RegisterEager("pi", eagerFunc(func(f *interp.Frame, args []string, sp span.Span) (string, *diag.Error) {
		return formatNumber(math.Pi), nil
	}))
	defaultRegistry.RegisterEager("max", eagerFunc(foldMax))
	defaultRegistry.RegisterEager("min", eagerFunc(foldMin))
	defaultRegistry.RegisterEager("choose", eagerFunc(chooseEval))
	defaultRegistry.RegisterEager("length", eagerFunc(lengthEval))
	defaultRegistry.RegisterEager("lower", eagerFunc(stringFunc("s", strings.ToLower)))
	defaultRegistry.RegisterEager("upper", eagerFunc(stringFunc("s", strings.ToUpper)))
	defaultRegistry.RegisterEager("reverse", eagerFunc(reverseEval))
	defaultRegistry.RegisterEager("replace", eagerFunc(replaceEval))
}

// eagerFunc adapts a plain function to interp.EagerHandler, the same way
// the teacher adapts bare functions to its decorator interfaces with a
// small named-function wrapper type.
type eagerFunc func(f *interp.Frame, args []string, sp span.Span) (string, *diag.Error)

func (fn eagerFunc) Eval(f *interp.Frame, args []string, sp span.Span) (string, *diag.Error) {
	return fn(f, args, sp)
}

func repeatEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	n, err := a.Usize(0, "n")
	if err != nil {
		return "", err
	}
	s, err := a.String(1, "s")
	if err != nil {
		return "", err
	}
	attempted := n * len(s)
	if attempted > state.MaxStringLength {
		return "", diag.New(diag.StringLengthLimit, sp).WithAttempted(attempted).WithLimit(state.MaxStringLength)
	}
	return strings.Repeat(s, n), nil
}

func rangeEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	lo, err := a.I64(0, "lo")
	if err != nil {
		return "", err
	}
	hi, err := a.I64(1, "hi")
	if err != nil {
		return "", err
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	n := lo + rand.Int63n(hi-lo+1)
	return strconv.FormatInt(n, 10), nil
}

func unaryMath(name string, fn func(float64) float64) eagerFunc {
	return func(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
		a := NewArgs(raw, sp)
		n, err := a.F64(0, name)
		if err != nil {
			return "", err
		}
		return formatNumber(fn(n)), nil
	}
}

func foldMax(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	return fold(raw, sp, func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	})
}

func foldMin(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	return fold(raw, sp, func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	})
}

func fold(raw []string, sp span.Span, combine func(a, b int64) int64) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	acc, err := a.I64(0, "initial")
	if err != nil {
		return "", err
	}
	for i := 1; i < a.Len(); i++ {
		v, err := a.I64(i, "rest")
		if err != nil {
			return "", err
		}
		acc = combine(acc, v)
	}
	return strconv.FormatInt(acc, 10), nil
}

func chooseEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	rest, err := a.Atleast(0, 1, "choices")
	if err != nil {
		return "", err
	}
	return rest[rand.Intn(len(rest))], nil
}

func lengthEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	s, err := a.String(0, "s")
	if err != nil {
		return "", err
	}
	return strconv.Itoa(len(s)), nil
}

func stringFunc(name string, fn func(string) string) eagerFunc {
	return func(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
		a := NewArgs(raw, sp)
		s, err := a.String(0, name)
		if err != nil {
			return "", err
		}
		return fn(s), nil
	}
}

// reverseEval reverses s byte-by-byte, not rune-by-rune: a deliberate
// compatibility choice, documented as producing invalid UTF-8 (but never
// panicking) on multi-byte input.
func reverseEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	s, err := a.String(0, "s")
	if err != nil {
		return "", err
	}
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b), nil
}

func replaceEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	what, err := a.String(0, "what")
	if err != nil {
		return "", err
	}
	with, err := a.String(1, "with")
	if err != nil {
		return "", err
	}
	text, err := a.String(2, "text")
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(text, what, with), nil
}

// formatNumber renders a float64 the way a template author expects: as a
// bare integer when it has no fractional part, otherwise with up to 6
// digits after the decimal point and no trailing zeros.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	s := strconv.FormatFloat(n, 'f', 6, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
