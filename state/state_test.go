package state

import (
	"strconv"
	"strings"
	"testing"

	"github.com/corvidbot/tags/span"
)

func TestTryRequestLimit(t *testing.T) {
	s := New()
	for i := 0; i < MaxRequests; i++ {
		if !s.TryRequest() {
			t.Fatalf("TryRequest() failed early at i=%d", i)
		}
	}
	if s.TryRequest() {
		t.Error("TryRequest() should fail once MaxRequests is exhausted")
	}
	if s.Requests() != MaxRequests {
		t.Errorf("Requests() = %d, want %d", s.Requests(), MaxRequests)
	}
}

func TestTryIterationLimit(t *testing.T) {
	s := New()
	for i := 0; i < MaxIterations; i++ {
		if !s.TryIteration() {
			t.Fatalf("TryIteration() failed early at i=%d", i)
		}
	}
	if s.TryIteration() {
		t.Error("TryIteration() should fail once MaxIterations is exhausted")
	}
}

func TestSetGetDelete(t *testing.T) {
	s := New()
	if err := s.Set("k", "v", span.At(0)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Errorf("Get(k) = %q,%v, want v,true", v, ok)
	}
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("Get after Delete should report false")
	}
}

func TestSetVariableLimit(t *testing.T) {
	s := New()
	for i := 0; i < MaxVariables; i++ {
		key := "key" + strconv.Itoa(i)
		if err := s.Set(key, "v", span.At(0)); err != nil {
			t.Fatalf("Set #%d failed: %v", i, err)
		}
	}
	if err := s.Set("one-too-many", "v", span.At(0)); err == nil {
		t.Error("Set should fail once MaxVariables distinct keys are stored")
	}
	// Overwriting an existing key never counts against the limit.
	if err := s.Set("key0", "v2", span.At(0)); err != nil {
		t.Errorf("overwriting an existing key should succeed even at the limit: %v", err)
	}
}

func TestSetKeyLengthLimit(t *testing.T) {
	s := New()
	longKey := strings.Repeat("k", MaxVariableKeyLength+1)
	err := s.Set(longKey, "v", span.At(0))
	if err == nil {
		t.Fatal("expected an error for an over-length key")
	}
	if err.Limit != MaxVariableKeyLength {
		t.Errorf("err.Limit = %d, want %d", err.Limit, MaxVariableKeyLength)
	}
}

func TestSetValueLengthLimit(t *testing.T) {
	s := New()
	longValue := strings.Repeat("v", MaxVariableValueLength+1)
	err := s.Set("k", longValue, span.At(0))
	if err == nil {
		t.Fatal("expected an error for an over-length value")
	}
	if err.Limit != MaxVariableValueLength {
		t.Errorf("err.Limit = %d, want %d", err.Limit, MaxVariableValueLength)
	}
}

func TestAttachmentLastWriterWins(t *testing.T) {
	s := New()
	if _, ok := s.AttachmentValue(); ok {
		t.Fatal("fresh Shared should have no attachment")
	}
	s.SetAttachment([]byte("first"), "text/plain")
	s.SetAttachment([]byte("second"), "image/png")

	att, ok := s.AttachmentValue()
	if !ok {
		t.Fatal("expected an attachment after SetAttachment")
	}
	if string(att.Bytes) != "second" || att.MediaType != "image/png" {
		t.Errorf("AttachmentValue() = %+v, want last-writer-wins 'second'/'image/png'", att)
	}
}

func TestAttachmentFingerprintStableForSameBytes(t *testing.T) {
	s1, s2 := New(), New()
	s1.SetAttachment([]byte("payload"), "image/png")
	s2.SetAttachment([]byte("payload"), "image/png")

	f1, ok1 := s1.AttachmentFingerprint()
	f2, ok2 := s2.AttachmentFingerprint()
	if !ok1 || !ok2 {
		t.Fatal("expected both fingerprints to be present")
	}
	if f1 != f2 {
		t.Errorf("fingerprints of identical bytes differ: %x vs %x", f1, f2)
	}

	s1.SetAttachment([]byte("different"), "image/png")
	f3, _ := s1.AttachmentFingerprint()
	if f3 == f1 {
		t.Error("fingerprint should change when the attachment bytes change")
	}
}

func TestVariableCount(t *testing.T) {
	s := New()
	if s.VariableCount() != 0 {
		t.Fatalf("fresh Shared should have 0 variables, got %d", s.VariableCount())
	}
	_ = s.Set("a", "1", span.At(0))
	_ = s.Set("b", "2", span.At(0))
	if s.VariableCount() != 2 {
		t.Errorf("VariableCount() = %d, want 2", s.VariableCount())
	}
}
