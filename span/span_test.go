package span

import "testing"

func TestSpanLen(t *testing.T) {
	cases := []struct {
		sp   Span
		want int
	}{
		{Span{0, 0}, 0},
		{Span{2, 5}, 3},
		{Span{5, 2}, 0}, // inverted span clamps to 0
	}
	for _, c := range cases {
		if got := c.sp.Len(); got != c.want {
			t.Errorf("Span{%d,%d}.Len() = %d, want %d", c.sp.Lo, c.sp.Hi, got, c.want)
		}
	}
}

func TestAt(t *testing.T) {
	sp := At(7)
	if sp.Lo != 7 || sp.Hi != 7 {
		t.Errorf("At(7) = %+v, want {7 7}", sp)
	}
	if sp.Len() != 0 {
		t.Errorf("At(7).Len() = %d, want 0", sp.Len())
	}
}

func TestBufferAt(t *testing.T) {
	b := NewString("abc")
	if c, ok := b.At(0); !ok || c != 'a' {
		t.Errorf("At(0) = %c,%v, want a,true", c, ok)
	}
	if _, ok := b.At(3); ok {
		t.Errorf("At(3) out of range should report ok=false")
	}
	if _, ok := b.At(-1); ok {
		t.Errorf("At(-1) out of range should report ok=false")
	}
}

func TestBufferSliceClampsAndFloorsUTF8(t *testing.T) {
	// "héllo": h(1) é(2 bytes) l l o -> bytes: 0:h 1-2:é 3:l 4:l 5:o
	b := NewString("héllo")
	full := b.Bytes()
	if len(full) != 6 {
		t.Fatalf("expected 6 bytes in %q, got %d", full, len(full))
	}

	// Slicing to [1,2) lands inside the 2-byte é: Lo floors down to 1
	// (already a boundary), Hi ceils up past the continuation byte to 3.
	got := b.Slice(Span{Lo: 1, Hi: 2})
	if got != "é" {
		t.Errorf("Slice({1,2}) = %q, want %q", got, "é")
	}

	// Out-of-range spans clamp rather than panic.
	got = b.Slice(Span{Lo: -5, Hi: 1000})
	if got != "héllo" {
		t.Errorf("Slice(out of range) = %q, want full string", got)
	}
}

func TestBufferLine(t *testing.T) {
	b := NewString("first\nsecond\nthird")
	text, start, num := b.Line(8) // inside "second"
	if text != "second" || start != 6 || num != 2 {
		t.Errorf("Line(8) = %q,%d,%d want second,6,2", text, start, num)
	}

	text, start, num = b.Line(0)
	if text != "first" || start != 0 || num != 1 {
		t.Errorf("Line(0) = %q,%d,%d want first,0,1", text, start, num)
	}
}

func TestFloorCeilToCharBoundary(t *testing.T) {
	src := []byte("héllo")
	if got := FloorToCharBoundary(src, 2); got != 1 {
		t.Errorf("FloorToCharBoundary(2) = %d, want 1", got)
	}
	if got := CeilToCharBoundary(src, 2); got != 3 {
		t.Errorf("CeilToCharBoundary(2) = %d, want 3", got)
	}
	if got := FloorToCharBoundary(src, 0); got != 0 {
		t.Errorf("FloorToCharBoundary(0) = %d, want 0", got)
	}
	if got := CeilToCharBoundary(src, len(src)); got != len(src) {
		t.Errorf("CeilToCharBoundary(len) = %d, want %d", got, len(src))
	}
}

func TestIsStructural(t *testing.T) {
	for _, c := range []byte{'{', '}', '|', '\\'} {
		if !IsStructural(c) {
			t.Errorf("IsStructural(%q) = false, want true", c)
		}
	}
	for _, c := range []byte{'a', ' ', ':', 0xC3} {
		if IsStructural(c) {
			t.Errorf("IsStructural(%q) = true, want false", c)
		}
	}
}

func TestValidRuneAt(t *testing.T) {
	src := []byte("hé")
	if !ValidRuneAt(src, 0) {
		t.Errorf("ValidRuneAt(0) on valid ASCII should be true")
	}
	if !ValidRuneAt(src, 1) {
		t.Errorf("ValidRuneAt(1) on valid 2-byte rune start should be true")
	}
	bad := []byte{0xFF}
	if ValidRuneAt(bad, 0) {
		t.Errorf("ValidRuneAt on invalid byte should be false")
	}
}
