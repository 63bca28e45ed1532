package subtag_test

import (
	"context"
	"testing"

	"github.com/corvidbot/tags/host"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/state"
	"github.com/corvidbot/tags/subtag"
)

func renderWithArgs(t *testing.T, input string, args []string) string {
	t.Helper()
	res, err := interp.Parse(context.Background(), input, args, interp.StopOnError, state.New(), host.NoOp{}, subtag.Default())
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %s", input, err.Error())
	}
	return res.Output
}

func TestArgsJoinsWithSpace(t *testing.T) {
	got := renderWithArgs(t, "{args}", []string{"a", "b", "c"})
	if got != "a b c" {
		t.Errorf("got %q, want 'a b c'", got)
	}
}

func TestArgslen(t *testing.T) {
	got := renderWithArgs(t, "{argslen}", []string{"a", "b", "c"})
	if got != "3" {
		t.Errorf("got %q, want 3", got)
	}
	got = renderWithArgs(t, "{argslen}", nil)
	if got != "0" {
		t.Errorf("got %q, want 0", got)
	}
}

func TestDeleteOfMissingKeyIsNoOp(t *testing.T) {
	got := renderWithArgs(t, "{delete:nope}ok", nil)
	if got != "ok" {
		t.Errorf("got %q, want ok", got)
	}
}

func TestGetOfMissingKeyIsEmpty(t *testing.T) {
	got := renderWithArgs(t, "[{get:nope}]", nil)
	if got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}
