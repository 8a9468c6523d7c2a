// Package hint keeps the inline hints currently shown for each document.
//
// A document has at most one hint set. Registering again replaces the old
// set instead of stacking another provider next to it.
package hint

import (
	"slices"
	"sort"
	"sync"

	"github.com/modu-ai/showtrans/internal/annotate"
)

// Hint is an annotation resolved to a display position.
type Hint struct {
	Position    annotate.Position
	Label       string
	Key         string
	Kind        annotate.Kind
	PaddingLeft bool
}

// FromAnnotations maps annotation offsets through doc into positioned hints.
func FromAnnotations(doc *annotate.Document, anns []annotate.Annotation) []Hint {
	hints := make([]Hint, 0, len(anns))
	for _, a := range anns {
		hints = append(hints, Hint{
			Position:    doc.PositionAt(a.Offset),
			Label:       a.Label,
			Key:         a.Key,
			Kind:        a.Kind,
			PaddingLeft: a.PaddingLeft,
		})
	}
	return hints
}

// Registry owns the hint set of each document. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byDoc map[string][]Hint
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byDoc: make(map[string][]Hint)}
}

// Set replaces the hints registered for doc and reports whether a previous
// set was replaced.
func (r *Registry) Set(doc string, hints []Hint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.byDoc[doc]
	r.byDoc[doc] = slices.Clone(hints)
	return existed
}

// Get returns a copy of the hints registered for doc.
func (r *Registry) Get(doc string) []Hint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byDoc[doc])
}

// InRange returns the hints for doc whose position lies in [start, end].
// The end is inclusive so a hint at the end of the last requested line is
// still returned.
func (r *Registry) InRange(doc string, start, end annotate.Position) []Hint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Hint
	for _, h := range r.byDoc[doc] {
		if h.Position.Before(start) || end.Before(h.Position) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Clear drops the hints for doc.
func (r *Registry) Clear(doc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byDoc, doc)
}

// Documents returns the documents that currently have hints, sorted.
func (r *Registry) Documents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]string, 0, len(r.byDoc))
	for d := range r.byDoc {
		docs = append(docs, d)
	}
	sort.Strings(docs)
	return docs
}
