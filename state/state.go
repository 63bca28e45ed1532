// Package state holds the per-invocation shared state (variables, counters,
// attachment slot) that every nested evaluation of a single top-level parse
// borrows. It is the interior-mutability layer described by the
// specification: all fields are protected by a single mutex so nested
// evaluators can read and write it without threading *mutable* references
// through the recursive parser frames.
package state

import (
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/span"
)

// Limits, reproduced exactly as specified — part of the module's ABI.
const (
	MaxRequests            = 5
	MaxVariables           = 100
	MaxVariableKeyLength   = 100
	MaxVariableValueLength = 256_000
	MaxIterations          = 500
	MaxDepth               = 15
	MaxStringLength        = 256_000
)

// Attachment is the single binary side-channel output a parse may produce,
// set by the js/javascript subtag when the host returns image data.
type Attachment struct {
	Bytes     []byte
	MediaType string
}

// Shared is one per top-level Parse call. All nested parser frames hold a
// pointer to the same Shared and may call its methods concurrently with
// respect to Go's memory model (though in practice a single invocation
// evaluates strictly depth-first and never from more than one goroutine).
type Shared struct {
	mu         sync.Mutex
	variables  map[string]string
	requests   uint32
	iterations uint32

	attachment    *Attachment
	fingerprint   [16]byte
	hasAttachment bool
}

// New returns an empty Shared ready for one top-level invocation.
func New() *Shared {
	return &Shared{variables: make(map[string]string)}
}

// TryRequest increments the outbound-request counter and reports whether
// the invocation is still within MaxRequests. Handlers must call this
// before contacting the host, never after: a failed increment short-
// circuits without issuing the call.
func (s *Shared) TryRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests >= MaxRequests {
		return false
	}
	s.requests++
	return true
}

// TryIteration increments the iteration counter, charged on every entry to
// the segment parser, and reports whether the invocation is still within
// MaxIterations.
func (s *Shared) TryIteration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.iterations >= MaxIterations {
		return false
	}
	s.iterations++
	return true
}

// Requests returns the number of requests charged so far.
func (s *Shared) Requests() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Iterations returns the number of iterations charged so far.
func (s *Shared) Iterations() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iterations
}

// Set stores a variable, enforcing the cardinality and length limits. sp is
// the span of the offending {set:...} invocation, used to build a
// diagnostic on failure.
func (s *Shared) Set(key, value string, sp span.Span) *diag.Error {
	if len(key) > MaxVariableKeyLength {
		return diag.New(diag.VarKeyLengthLimit, sp).WithLength(len(key)).WithLimit(MaxVariableKeyLength)
	}
	if len(value) > MaxVariableValueLength {
		return diag.New(diag.VarValueLengthLimit, sp).WithLength(len(value)).WithLimit(MaxVariableValueLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.variables[key]; !exists && len(s.variables) >= MaxVariables {
		return diag.New(diag.VarLimit, sp).WithLimit(MaxVariables)
	}
	s.variables[key] = value
	return nil
}

// Get returns a variable's value.
func (s *Shared) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variables[key]
	return v, ok
}

// Delete removes a variable, a no-op if it does not exist.
func (s *Shared) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.variables, key)
}

// VariableCount returns the current number of stored variables.
func (s *Shared) VariableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.variables)
}

// SetAttachment records the invocation's single binary output. Later calls
// overwrite earlier ones: last-writer-wins is documented, intended
// behaviour, not a bug, for the case of multiple js calls each producing an
// image.
func (s *Shared) SetAttachment(bytes []byte, mediaType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachment = &Attachment{Bytes: bytes, MediaType: mediaType}
	s.fingerprint = fingerprint16(bytes)
	s.hasAttachment = true
}

// fingerprint16 computes a BLAKE2b-128 digest. blake2b's keyed-hash
// constructor accepts any output size from 1 to 64 bytes; a nil error is
// guaranteed for a nil key and size=16.
func fingerprint16(data []byte) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("state: blake2b.New(16, nil) must not fail: " + err.Error())
	}
	h.Write(data)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AttachmentValue returns the current attachment, if any was set.
func (s *Shared) AttachmentValue() (Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attachment == nil {
		return Attachment{}, false
	}
	return *s.attachment, true
}

// AttachmentFingerprint returns a short BLAKE2b-128 digest of the current
// attachment's bytes, for diagnostics/logging only — see the note on
// debug-only accessors in the module's external interface documentation.
// It has no bearing on interpreter semantics.
func (s *Shared) AttachmentFingerprint() (sum [16]byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasAttachment {
		return [16]byte{}, false
	}
	return s.fingerprint, true
}
