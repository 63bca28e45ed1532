// Package host declares the interface the embedder implements to supply
// side effects to the interpreter: JS execution, HTTP downloads, and
// Discord user/channel/guild lookups. The interpreter never talks to
// Discord, an HTTP client, or a JS runtime directly — every side effect
// crosses this one seam, which makes the interpreter trivially testable
// with the NoOp implementation below.
package host

import "context"

// Image is the binary result of a js/javascript subtag call that produced
// image data instead of text.
type Image struct {
	Bytes     []byte
	MediaType string
}

// JSResult is the result of executing user-supplied JS through the host.
// Exactly one of Text or Image is meaningful; IsImage reports which.
type JSResult struct {
	Text    string
	Image   *Image
	IsImage bool
}

// Context is the side-effecting surface the embedder provides. Every
// method may fail with a host-side error; the interpreter never inspects
// the error's type, only its message, which it wraps verbatim in an
// Unknown diagnostic carrying the failing subtag's span.
//
// Every method takes a context.Context so the embedder can apply its own
// timeout or cancellation independent of the interpreter, which has no
// internal timeout of its own (see the concurrency model in the module's
// design notes).
type Context interface {
	// ExecuteJavaScript runs code with args bound as the script's argument
	// list and returns either text or image data.
	ExecuteJavaScript(ctx context.Context, code string, args []string) (JSResult, error)

	// LastAttachment returns a URL to the most recent attachment visible
	// in the invoking channel, or an error if none exists.
	LastAttachment(ctx context.Context) (url string, err error)

	// Avatar returns a URL to userID's avatar, or the invoking user's own
	// avatar when userID is empty.
	Avatar(ctx context.Context, userID string) (url string, err error)

	// Download fetches url and returns its body as text.
	Download(ctx context.Context, url string) (text string, err error)

	// ChannelID returns the invoking channel's snowflake ID.
	ChannelID(ctx context.Context) (uint64, error)

	// GuildID returns the invoking guild's snowflake ID.
	GuildID(ctx context.Context) (uint64, error)

	// UserID returns the invoking user's snowflake ID.
	UserID(ctx context.Context) (uint64, error)

	// UserTag returns userID's display tag ("name#0001"), or the invoking
	// user's own tag when userID is empty.
	UserTag(ctx context.Context, userID string) (string, error)

	// TagContents resolves another stored tag's template body by name, for
	// use by the `tag` subtag.
	TagContents(ctx context.Context, name string) (string, error)

	// InvocationTime returns the wall-clock time the host considers "now"
	// for this invocation, threaded in rather than read from the system
	// clock so interpreter output stays a pure function of its inputs.
	InvocationTime(ctx context.Context) int64
}
