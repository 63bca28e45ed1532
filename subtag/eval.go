package subtag

import (
	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
	"github.com/corvidbot/tags/state"
)

func init() {
	defaultRegistry.RegisterEager("eval", eagerFunc(evalEval))
	defaultRegistry.RegisterEager("tag", eagerFunc(tagEval))
}

// evalEval implements {eval:s}: s is reparsed as its own independent
// template, inheriting the caller's own argument vector and one extra
// level of depth.
func evalEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	s, err := a.String(0, "s")
	if err != nil {
		return "", err
	}
	return f.ParseNested(s, f.Args())
}

// tagEval implements {tag:name|rest...}: name is resolved to another
// stored tag's template body through the host, then evaluated with rest as
// the body's own argument vector. Resolving the name counts as one
// outbound request against MaxRequests.
func tagEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	name, err := a.String(0, "name")
	if err != nil {
		return "", err
	}
	if !f.Shared().TryRequest() {
		return "", diag.New(diag.RequestLimit, sp).WithLimit(state.MaxRequests)
	}
	body, hostErr := f.Host().TagContents(f.GoContext(), name)
	if hostErr != nil {
		return "", diag.New(diag.Unknown, sp).WithMessage(hostErr.Error())
	}
	return f.ParseNested(body, a.Rest(1))
}
