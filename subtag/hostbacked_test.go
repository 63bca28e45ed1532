package subtag_test

import (
	"context"
	"testing"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/host"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/state"
	"github.com/corvidbot/tags/subtag"
)

// fakeHost answers every host.Context method with a fixed, recognisable
// value so tests can assert the subtag wired the call through correctly.
type fakeHost struct {
	host.NoOp
	tagBodies map[string]string
}

func (h fakeHost) ExecuteJavaScript(ctx context.Context, code string, args []string) (host.JSResult, error) {
	return host.JSResult{Text: "ran:" + code}, nil
}

func (h fakeHost) LastAttachment(ctx context.Context) (string, error) {
	return "https://cdn.example/attachment.png", nil
}

func (h fakeHost) Avatar(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		userID = "self"
	}
	return "https://cdn.example/avatar/" + userID, nil
}

func (h fakeHost) Download(ctx context.Context, url string) (string, error) {
	return "downloaded:" + url, nil
}

func (h fakeHost) ChannelID(ctx context.Context) (uint64, error) { return 111, nil }
func (h fakeHost) GuildID(ctx context.Context) (uint64, error)   { return 222, nil }
func (h fakeHost) UserID(ctx context.Context) (uint64, error)    { return 333, nil }

func (h fakeHost) UserTag(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		userID = "self"
	}
	return "tag-" + userID, nil
}

func (h fakeHost) TagContents(ctx context.Context, name string) (string, error) {
	return h.tagBodies[name], nil
}

func (h fakeHost) InvocationTime(ctx context.Context) int64 { return 1700000000 }

func renderWithHost(t *testing.T, input string, h host.Context) string {
	t.Helper()
	res, err := interp.Parse(context.Background(), input, nil, interp.StopOnError, state.New(), h, subtag.Default())
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %s", input, err.Error())
	}
	return res.Output
}

func TestJSTextResult(t *testing.T) {
	got := renderWithHost(t, "{js:1+1}", fakeHost{})
	if got != "ran:1+1" {
		t.Errorf("got %q", got)
	}
}

func TestJSImageResultSetsAttachmentNotOutput(t *testing.T) {
	imgHost := imageHost{}
	shared := state.New()
	res, err := interp.Parse(context.Background(), "{js:draw()}", nil, interp.StopOnError, shared, imgHost, subtag.Default())
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if res.Output != "" {
		t.Errorf("output = %q, want empty (image goes to attachment)", res.Output)
	}
	if res.Attachment == nil || string(res.Attachment.Bytes) != "PNGDATA" {
		t.Errorf("expected attachment with PNGDATA, got %+v", res.Attachment)
	}
}

type imageHost struct {
	host.NoOp
}

func (imageHost) ExecuteJavaScript(ctx context.Context, code string, args []string) (host.JSResult, error) {
	return host.JSResult{IsImage: true, Image: &host.Image{Bytes: []byte("PNGDATA"), MediaType: "image/png"}}, nil
}

func TestChannelGuildUserID(t *testing.T) {
	if got := renderWithHost(t, "{channelid}", fakeHost{}); got != "111" {
		t.Errorf("channelid = %q, want 111", got)
	}
	if got := renderWithHost(t, "{guildid}", fakeHost{}); got != "222" {
		t.Errorf("guildid = %q, want 222", got)
	}
	if got := renderWithHost(t, "{userid}", fakeHost{}); got != "333" {
		t.Errorf("userid = %q, want 333", got)
	}
}

func TestMentionAndIdof(t *testing.T) {
	if got := renderWithHost(t, "{mention:55}", fakeHost{}); got != "<@55>" {
		t.Errorf("mention = %q, want <@55>", got)
	}
	if got := renderWithHost(t, "{idof:<@!99>}", fakeHost{}); got != "99" {
		t.Errorf("idof = %q, want 99", got)
	}
}

func TestMentionRejectsMentionSyntax(t *testing.T) {
	_, err := interp.Parse(context.Background(), "{mention:<@!77>}", nil, interp.StopOnError, state.New(), fakeHost{}, subtag.Default())
	if err == nil {
		t.Fatal("expected an ArgParseError: mention takes a bare snowflake, not mention syntax")
	}
	if err.Kind != diag.ArgParseErrorKind {
		t.Errorf("err.Kind = %v, want ArgParseErrorKind", err.Kind)
	}
}

func TestIdofFallsBackToInvokingUserOnNonMention(t *testing.T) {
	got := renderWithHost(t, "{idof:not-a-mention}", fakeHost{})
	if got != "333" {
		t.Errorf("idof with unparseable input = %q, want the invoking user id 333", got)
	}
}

func TestMentionFallsBackToInvokingUser(t *testing.T) {
	got := renderWithHost(t, "{mention}", fakeHost{})
	if got != "<@333>" {
		t.Errorf("mention with no argument = %q, want <@333> (the invoking user)", got)
	}
}

func TestUserTagAndAvatar(t *testing.T) {
	if got := renderWithHost(t, "{usertag}", fakeHost{}); got != "tag-self" {
		t.Errorf("usertag = %q, want tag-self", got)
	}
	if got := renderWithHost(t, "{usertag:12}", fakeHost{}); got != "tag-12" {
		t.Errorf("usertag:12 = %q, want tag-12", got)
	}
	if got := renderWithHost(t, "{avatar}", fakeHost{}); got != "https://cdn.example/avatar/self" {
		t.Errorf("avatar = %q", got)
	}
}

func TestDownloadAndLastAttachment(t *testing.T) {
	if got := renderWithHost(t, "{download:https://x.example/file}", fakeHost{}); got != "downloaded:https://x.example/file" {
		t.Errorf("download = %q", got)
	}
	if got := renderWithHost(t, "{lastattachment}", fakeHost{}); got != "https://cdn.example/attachment.png" {
		t.Errorf("lastattachment = %q", got)
	}
}

func TestUnixtime(t *testing.T) {
	if got := renderWithHost(t, "{unixtime}", fakeHost{}); got != "1700000000" {
		t.Errorf("unixtime = %q, want 1700000000", got)
	}
}

func TestTagResolvesAndEvaluatesWithRestAsArgs(t *testing.T) {
	h := fakeHost{tagBodies: map[string]string{"greet": "hello {arg:0}"}}
	got := renderWithHost(t, "{tag:greet|friend}", h)
	if got != "hello friend" {
		t.Errorf("got %q, want 'hello friend'", got)
	}
}

func TestHostErrorWrappedAsUnknown(t *testing.T) {
	_, err := interp.Parse(context.Background(), "{userid}", nil, interp.StopOnError, state.New(), host.NoOp{}, subtag.Default())
	if err == nil {
		t.Fatal("expected an error from NoOp's ErrNotImplemented")
	}
	if err.Kind != diag.Unknown {
		t.Errorf("err.Kind = %v, want Unknown", err.Kind)
	}
}

func TestIdofRejectsNonMentionWhenFallbackAlsoFails(t *testing.T) {
	_, err := interp.Parse(context.Background(), "{idof:not-a-mention}", nil, interp.StopOnError, state.New(), host.NoOp{}, subtag.Default())
	if err == nil {
		t.Fatal("expected an ArgParseError: neither mention-syntax parsing nor the UserID fallback succeeded")
	}
	if err.Kind != diag.ArgParseErrorKind {
		t.Errorf("err.Kind = %v, want ArgParseErrorKind", err.Kind)
	}
}

func TestAvatarAndUserTagRejectMentionSyntax(t *testing.T) {
	_, err := interp.Parse(context.Background(), "{avatar:<@123>}", nil, interp.StopOnError, state.New(), fakeHost{}, subtag.Default())
	if err == nil {
		t.Fatal("expected an ArgParseError: avatar takes a bare snowflake, not mention syntax")
	}
	if err.Kind != diag.ArgParseErrorKind {
		t.Errorf("err.Kind = %v, want ArgParseErrorKind", err.Kind)
	}

	_, err = interp.Parse(context.Background(), "{usertag:<@123>}", nil, interp.StopOnError, state.New(), fakeHost{}, subtag.Default())
	if err == nil {
		t.Fatal("expected an ArgParseError: usertag takes a bare snowflake, not mention syntax")
	}
	if err.Kind != diag.ArgParseErrorKind {
		t.Errorf("err.Kind = %v, want ArgParseErrorKind", err.Kind)
	}
}
