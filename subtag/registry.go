// Package subtag implements the subtag name registry and the built-in
// handler set: control flow, math/string helpers, argument and variable
// access, nested evaluation, and host-backed I/O.
//
// Each handler file registers its subtag(s) from an init() function,
// mirroring the teacher's one-decorator-per-file-with-init-registration
// convention. Default() assembles all of them into a ready-to-use
// *Registry.
package subtag

import (
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/corvidbot/tags/interp"
)

// Registry is a name-indexed dispatch table distinguishing eager and lazy
// handlers, with a fuzzy-match fallback for diagnostics on unknown names.
// It implements interp.Dispatcher.
type Registry struct {
	mu    sync.RWMutex
	eager map[string]interp.EagerHandler
	lazy  map[string]interp.LazyHandler
}

var _ interp.Dispatcher = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		eager: make(map[string]interp.EagerHandler),
		lazy:  make(map[string]interp.LazyHandler),
	}
}

// defaultRegistry accumulates every built-in handler via the init()
// function in its handler file, mirroring the teacher's package-global
// registry populated by per-decorator init() registration.
var defaultRegistry = NewRegistry()

// Default returns the registry of all built-in subtags.
func Default() *Registry {
	return defaultRegistry
}

// RegisterEager adds an eager handler under name, overwriting any previous
// registration for that name.
func (r *Registry) RegisterEager(name string, h interp.EagerHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eager[name] = h
}

// RegisterLazy adds a lazy handler under name, overwriting any previous
// registration for that name.
func (r *Registry) RegisterLazy(name string, h interp.LazyHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lazy[name] = h
}

// Lookup implements interp.Dispatcher.
func (r *Registry) Lookup(name string) (interp.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.lazy[name]; ok {
		return interp.Entry{Lazy: h}, true
	}
	if h, ok := r.eager[name]; ok {
		return interp.Entry{Eager: h}, true
	}
	return interp.Entry{}, false
}

// Suggest implements interp.Dispatcher using Levenshtein-ish fuzzy
// matching over the registered names, so an UnknownSubtag diagnostic can
// offer a "did you mean" help note for a likely typo.
func (r *Registry) Suggest(name string) string {
	names := r.names()
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > suggestThreshold(name) {
		return ""
	}
	return best.Target
}

func suggestThreshold(name string) int {
	t := len(name) / 3
	if t < 2 {
		t = 2
	}
	return t
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.eager)+len(r.lazy))
	for n := range r.eager {
		out = append(out, n)
	}
	for n := range r.lazy {
		out = append(out, n)
	}
	return out
}
