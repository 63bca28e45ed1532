package host

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by every NoOp method.
var ErrNotImplemented = errors.New("not implemented")

// NoOp is a Context that fails every call with ErrNotImplemented. It is
// used by parser/evaluator tests that exercise syntax, limits and pure
// subtags without needing a real Discord/HTTP/JS backend.
type NoOp struct{}

var _ Context = NoOp{}

func (NoOp) ExecuteJavaScript(ctx context.Context, code string, args []string) (JSResult, error) {
	return JSResult{}, ErrNotImplemented
}

func (NoOp) LastAttachment(ctx context.Context) (string, error) {
	return "", ErrNotImplemented
}

func (NoOp) Avatar(ctx context.Context, userID string) (string, error) {
	return "", ErrNotImplemented
}

func (NoOp) Download(ctx context.Context, url string) (string, error) {
	return "", ErrNotImplemented
}

func (NoOp) ChannelID(ctx context.Context) (uint64, error) {
	return 0, ErrNotImplemented
}

func (NoOp) GuildID(ctx context.Context) (uint64, error) {
	return 0, ErrNotImplemented
}

func (NoOp) UserID(ctx context.Context) (uint64, error) {
	return 0, ErrNotImplemented
}

func (NoOp) UserTag(ctx context.Context, userID string) (string, error) {
	return "", ErrNotImplemented
}

func (NoOp) TagContents(ctx context.Context, name string) (string, error) {
	return "", ErrNotImplemented
}

func (NoOp) InvocationTime(ctx context.Context) int64 {
	return 0
}
