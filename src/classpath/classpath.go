// Package classpath builds the ordered, duplicate-free jar path list the
// resolver exposes to external compile/doc/archive steps.
package classpath

import (
	"path/filepath"
	"sort"
)

// Resolved is the output of a resolve: local jar paths for the transitive
// closure that survived cleaning, deduplicated and ordered lexicographically
// by coordinate notation so command lines built from it are reproducible
// across runs.
type Resolved []string

// Entry pairs a coordinate's dependency notation with its local jar path,
// the unit Builder accumulates before producing the final ordering.
type Entry struct {
	Notation string
	JarPath  string
}

// Builder accumulates jar path entries as the resolver discovers
// coordinates, deduplicating by notation, then produces a stable Resolved
// classpath.
type Builder struct {
	seen    map[string]bool
	entries []Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: map[string]bool{}}
}

// Add records coord's jar path under baseDir, ignoring a coordinate
// notation it has already seen.
func (b *Builder) Add(notation, baseDir, jarName string) {
	if b.seen[notation] {
		return
	}
	b.seen[notation] = true
	b.entries = append(b.entries, Entry{Notation: notation, JarPath: filepath.Join(baseDir, jarName)})
}

// Build returns the accumulated jar paths ordered lexicographically by
// notation.
func (b *Builder) Build() Resolved {
	sort.Slice(b.entries, func(i, j int) bool { return b.entries[i].Notation < b.entries[j].Notation })
	out := make(Resolved, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.JarPath
	}
	return out
}
