// Package span provides byte-offset source positions and a small buffer
// abstraction shared by the parser and the diagnostic renderer.
//
// All positions in the interpreter are byte offsets, not rune or grapheme
// indices: the parser never needs to decode UTF-8 to find `{`, `}`, `|` or
// `\`, since those are all single-byte ASCII characters that cannot appear
// as a continuation byte of a multi-byte rune. Only code that slices a
// buffer for display (the diagnostic renderer) needs to round offsets to a
// character boundary first.
package span

import "unicode/utf8"

// Span is a half-open byte range [Lo, Hi) into a Buffer's source.
type Span struct {
	Lo, Hi int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	if s.Hi < s.Lo {
		return 0
	}
	return s.Hi - s.Lo
}

// At returns a zero-length span at pos, useful for point diagnostics
// (e.g. "expected a closing brace here").
func At(pos int) Span { return Span{Lo: pos, Hi: pos} }

// Buffer is an immutable byte slice with ASCII lookup tables for the
// handful of structural bytes the parser cares about.
type Buffer struct {
	src []byte
}

// New wraps src. The caller must not mutate src afterwards.
func New(src []byte) *Buffer {
	return &Buffer{src: src}
}

// NewString wraps a string's bytes.
func NewString(src string) *Buffer {
	return &Buffer{src: []byte(src)}
}

// Len returns the number of source bytes.
func (b *Buffer) Len() int { return len(b.src) }

// Bytes returns the full underlying source. Callers must not mutate it.
func (b *Buffer) Bytes() []byte { return b.src }

// At returns the byte at i, or 0, false if i is out of range.
func (b *Buffer) At(i int) (byte, bool) {
	if i < 0 || i >= len(b.src) {
		return 0, false
	}
	return b.src[i], true
}

// Slice returns the substring covered by sp, clamped to the buffer bounds
// and floored/ceiled to UTF-8 character boundaries so the result is always
// valid UTF-8 even when sp was derived from a point past the last rune.
func (b *Buffer) Slice(sp Span) string {
	lo := clamp(sp.Lo, 0, len(b.src))
	hi := clamp(sp.Hi, 0, len(b.src))
	if hi < lo {
		hi = lo
	}
	lo = FloorToCharBoundary(b.src, lo)
	hi = CeilToCharBoundary(b.src, hi)
	return string(b.src[lo:hi])
}

// Line returns the single source line containing pos: the text between the
// nearest preceding newline (exclusive) and the nearest following newline
// (exclusive), or the buffer start/end when no such newline exists. It also
// returns the byte offset where the returned line begins, and the 1-based
// line number, for use by the renderer's gutter.
func (b *Buffer) Line(pos int) (text string, lineStart int, lineNum int) {
	pos = clamp(pos, 0, len(b.src))
	pos = FloorToCharBoundary(b.src, pos)

	start := 0
	for i := pos - 1; i >= 0; i-- {
		if b.src[i] == '\n' {
			start = i + 1
			break
		}
	}
	end := len(b.src)
	for i := pos; i < len(b.src); i++ {
		if b.src[i] == '\n' {
			end = i
			break
		}
	}

	lineNum = 1
	for i := 0; i < start; i++ {
		if b.src[i] == '\n' {
			lineNum++
		}
	}

	return string(b.src[start:end]), start, lineNum
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloorToCharBoundary rounds i down to the start of the UTF-8 rune that
// contains it (or to i itself if it already lies on a boundary).
func FloorToCharBoundary(src []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(src) {
		return len(src)
	}
	for i > 0 && isContinuationByte(src[i]) {
		i--
	}
	return i
}

// CeilToCharBoundary rounds i up to the start of the next UTF-8 rune
// boundary at or after i.
func CeilToCharBoundary(src []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(src) {
		return len(src)
	}
	for i < len(src) && isContinuationByte(src[i]) {
		i++
	}
	return i
}

func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}

// ASCII lookup tables for the structural bytes the parser scans for.
// Mirrors the teacher's byte-classification-table style: a bounds-checked
// inline array lookup is cheaper than a switch for a hot per-byte scan.
var (
	isStructural [128]bool // '{', '}', '|', '\\'
)

func init() {
	isStructural['{'] = true
	isStructural['}'] = true
	isStructural['|'] = true
	isStructural['\\'] = true
}

// IsStructural reports whether ch is one of the four bytes with grammar
// meaning ('{', '}', '|', '\\'). Non-ASCII bytes are never structural.
func IsStructural(ch byte) bool {
	return ch < 128 && isStructural[ch]
}

// ValidRuneAt reports whether src[i:] begins with a valid UTF-8 encoding,
// used defensively when advancing the cursor over literal text so a
// corrupt input never desynchronises byte offsets from displayed text.
func ValidRuneAt(src []byte, i int) bool {
	r, size := utf8.DecodeRune(src[i:])
	return r != utf8.RuneError || size > 1
}
