package subtag

import (
	"strconv"
	"strings"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
)

// Args is the typed-argument-schema layer eager handlers use to pull
// usize/i64/f64/String/Option/Rest/Atleast/Mention values out of the raw,
// already-evaluated argument strings the engine hands them. It carries the
// invocation's span so every schema failure can produce an ArgParseError
// pointing at the whole `{name:...}` call.
type Args struct {
	raw []string
	sp  span.Span
}

// NewArgs wraps raw under sp, the span of the subtag invocation that
// produced them.
func NewArgs(raw []string, sp span.Span) *Args {
	return &Args{raw: raw, sp: sp}
}

// Len returns the number of arguments supplied.
func (a *Args) Len() int { return len(a.raw) }

// Raw returns the i-th argument's already-evaluated text, and whether it
// was supplied at all.
func (a *Args) Raw(i int) (string, bool) {
	if i < 0 || i >= len(a.raw) {
		return "", false
	}
	return a.raw[i], true
}

func (a *Args) missing(name string) *diag.Error {
	return diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.MissingArgument, name)
}

// String requires the i-th argument to be present.
func (a *Args) String(i int, name string) (string, *diag.Error) {
	v, ok := a.Raw(i)
	if !ok {
		return "", a.missing(name)
	}
	return v, nil
}

// OptString tries the i-th argument, yielding ("", false) rather than an
// error when it is absent — Option<String>.
func (a *Args) OptString(i int) (string, bool) {
	return a.Raw(i)
}

// I64 requires the i-th argument to parse as a base-10 signed integer.
func (a *Args) I64(i int, name string) (int64, *diag.Error) {
	v, err := a.String(i, name)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if perr != nil {
		return 0, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.ParseIntError, name)
	}
	return n, nil
}

// OptI64 tries the i-th argument as an int64 — Option<i64>: a missing
// argument or a parse failure both yield def rather than an error.
func (a *Args) OptI64(i int, def int64) int64 {
	v, ok := a.Raw(i)
	if !ok {
		return def
	}
	n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if perr != nil {
		return def
	}
	return n
}

// Usize requires the i-th argument to parse as a non-negative integer.
func (a *Args) Usize(i int, name string) (int, *diag.Error) {
	n, err := a.I64(i, name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.ParseIntError, name)
	}
	return int(n), nil
}

// F64 requires the i-th argument to parse as a float.
func (a *Args) F64(i int, name string) (float64, *diag.Error) {
	v, err := a.String(i, name)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if perr != nil {
		return 0, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.ParseFloatError, name)
	}
	return n, nil
}

// Rest returns every argument from index from onward — Rest<T> over raw
// strings; callers that need Rest<i64> etc. convert element-wise.
func (a *Args) Rest(from int) []string {
	if from >= len(a.raw) {
		return nil
	}
	return a.raw[from:]
}

// Atleast is Rest<T> requiring at least n elements from index from.
func (a *Args) Atleast(from, n int, name string) ([]string, *diag.Error) {
	rest := a.Rest(from)
	if len(rest) < n {
		return nil, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.NotEnoughArguments, name)
	}
	return rest, nil
}

// OptSnowflake parses the i-th argument as a bare decimal Discord id — the
// Option<u64> schema avatar/mention/usertag take. A missing argument
// yields ("", false, nil); a present but non-numeric one is an
// ArgParseError, never a silent fallback.
func (a *Args) OptSnowflake(i int, name string) (string, bool, *diag.Error) {
	v, ok := a.Raw(i)
	if !ok {
		return "", false, nil
	}
	v = strings.TrimSpace(v)
	for _, c := range v {
		if c < '0' || c > '9' {
			return "", false, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.ParseIntError, name)
		}
	}
	if v == "" {
		return "", false, diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.ParseIntError, name)
	}
	return v, true, nil
}

// Mention parses the i-th argument as a Discord mention token ("<@id>",
// "<@!id>"); the argument is required. When it doesn't parse as a mention
// it falls back to the invoking user's own id rather than failing
// outright, per the Mention atomic parser's fallback rule; only when that
// fallback also fails does this report an error. The fallback's host call
// consumes one request token. Used by idof.
func (a *Args) Mention(f *interp.Frame, i int, name string) (string, *diag.Error) {
	v, err := a.String(i, name)
	if err != nil {
		return "", err
	}
	if id, ok := parseMention(v); ok {
		return id, nil
	}
	if err := chargeRequest(f, a.sp); err != nil {
		return "", err
	}
	id, hostErr := f.Host().UserID(f.GoContext())
	if hostErr != nil {
		return "", diag.New(diag.ArgParseErrorKind, a.sp).WithArgKind(diag.OtherStringError, name)
	}
	return strconv.FormatUint(id, 10), nil
}

func parseMention(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	inner = strings.TrimPrefix(inner, "@")
	inner = strings.TrimPrefix(inner, "!")
	inner = strings.TrimPrefix(inner, "&")
	inner = strings.TrimPrefix(inner, "#")
	if inner == "" {
		return "", false
	}
	for _, c := range inner {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return inner, true
}
