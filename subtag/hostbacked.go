package subtag

import (
	"strconv"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/span"
	"github.com/corvidbot/tags/state"
)

func init() {
	defaultRegistry.RegisterEager("js", eagerFunc(jsEval))
	defaultRegistry.RegisterEager("javascript", eagerFunc(jsEval))
	defaultRegistry.RegisterEager("lastattachment", eagerFunc(lastAttachmentEval))
	defaultRegistry.RegisterEager("avatar", eagerFunc(avatarEval))
	defaultRegistry.RegisterEager("download", eagerFunc(downloadEval))
	defaultRegistry.RegisterEager("channelid", eagerFunc(channelIDEval))
	defaultRegistry.RegisterEager("userid", eagerFunc(userIDEval))
	defaultRegistry.RegisterEager("guildid", eagerFunc(guildIDEval))
	defaultRegistry.RegisterEager("mention", eagerFunc(mentionEval))
	defaultRegistry.RegisterEager("usertag", eagerFunc(userTagEval))
	defaultRegistry.RegisterEager("idof", eagerFunc(idofEval))
	defaultRegistry.RegisterEager("unixtime", eagerFunc(unixtimeEval))
}

// chargeRequest consumes one token against MaxRequests, returning a
// RequestLimit error instead of reaching the host when exhausted. Every
// host-backed subtag must call this before its host.Context call, never
// after.
func chargeRequest(f *interp.Frame, sp span.Span) *diag.Error {
	if !f.Shared().TryRequest() {
		return diag.New(diag.RequestLimit, sp).WithLimit(state.MaxRequests)
	}
	return nil
}

func wrapHostErr(sp span.Span, err error) *diag.Error {
	return diag.New(diag.Unknown, sp).WithMessage(err.Error())
}

// jsEval implements {js:code|args...} / {javascript:...}: code runs through
// the host's JS sandbox with the remaining arguments bound as its argument
// list. A text result is returned directly; an image result is stored as
// the invocation's attachment and "" is returned.
func jsEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	code, err := a.String(0, "code")
	if err != nil {
		return "", err
	}
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	res, hostErr := f.Host().ExecuteJavaScript(f.GoContext(), code, a.Rest(1))
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	if res.IsImage && res.Image != nil {
		f.Shared().SetAttachment(res.Image.Bytes, res.Image.MediaType)
		return "", nil
	}
	return res.Text, nil
}

func lastAttachmentEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	url, hostErr := f.Host().LastAttachment(f.GoContext())
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return url, nil
}

func avatarEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	id, _, err := a.OptSnowflake(0, "id")
	if err != nil {
		return "", err
	}
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	url, hostErr := f.Host().Avatar(f.GoContext(), id)
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return url, nil
}

func downloadEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	url, err := a.String(0, "url")
	if err != nil {
		return "", err
	}
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	text, hostErr := f.Host().Download(f.GoContext(), url)
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return text, nil
}

func channelIDEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	id, hostErr := f.Host().ChannelID(f.GoContext())
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return strconv.FormatUint(id, 10), nil
}

func userIDEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	id, hostErr := f.Host().UserID(f.GoContext())
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return strconv.FormatUint(id, 10), nil
}

// guildIDEval implements {guildid}, supplementing the distilled subtag set
// with a direct host.Context.GuildID lookup alongside channelid/userid.
func guildIDEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	id, hostErr := f.Host().GuildID(f.GoContext())
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return strconv.FormatUint(id, 10), nil
}

// mentionEval implements {mention} / {mention:id}: id is a bare snowflake,
// never mention syntax. When absent it falls back to the invoking user's
// own id, consuming a request token only for that host round-trip.
func mentionEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	id, present, err := a.OptSnowflake(0, "id")
	if err != nil {
		return "", err
	}
	if present {
		return "<@" + id + ">", nil
	}
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	uid, hostErr := f.Host().UserID(f.GoContext())
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return "<@" + strconv.FormatUint(uid, 10) + ">", nil
}

func userTagEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	id, _, err := a.OptSnowflake(0, "id")
	if err != nil {
		return "", err
	}
	if err := chargeRequest(f, sp); err != nil {
		return "", err
	}
	tag, hostErr := f.Host().UserTag(f.GoContext(), id)
	if hostErr != nil {
		return "", wrapHostErr(sp, hostErr)
	}
	return tag, nil
}

// idofEval implements {idof:mention}: extracts the snowflake out of a
// Discord mention token, falling back to the invoking user's id when the
// argument isn't mention syntax, and erroring only if that fallback also
// fails.
func idofEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	a := NewArgs(raw, sp)
	return a.Mention(f, 0, "mention")
}

// unixtimeEval implements {unixtime}, supplementing the distilled subtag
// set: the host's InvocationTime as a unix-seconds decimal string, kept a
// pure function of the invocation rather than a call to the system clock.
func unixtimeEval(f *interp.Frame, raw []string, sp span.Span) (string, *diag.Error) {
	return strconv.FormatInt(f.Host().InvocationTime(f.GoContext()), 10), nil
}
