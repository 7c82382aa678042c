// Package naming hands out collision-free names by appending numeric
// suffixes.
package naming

import (
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// Unique returns candidate when it is free, otherwise the first of
// candidate_001, candidate_002, ... that is.
func Unique(candidate string, taken func(string) bool) string {
	if !taken(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%03d", candidate, i)
		if !taken(name) {
			return name
		}
	}
}

// Set is a collection of claimed names, such as the files written by one
// run.
type Set struct {
	names map[string]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{names: make(map[string]struct{})}
}

// Has reports whether name is claimed.
func (s *Set) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Claim reserves and returns a unique name derived from candidate.
func (s *Set) Claim(candidate string) string {
	name := Unique(candidate, s.Has)
	s.names[name] = struct{}{}
	return name
}

// ClaimFile reserves a file name built from stem and ext. Suffixes go on the
// stem so the extension is kept: model.xml, model_001.xml, ...
func (s *Set) ClaimFile(stem, ext string) string {
	stem = Unique(stem, func(candidate string) bool { return s.Has(candidate + ext) })
	return s.Claim(stem + ext)
}

// NameMap records which source variable each assigned interface name stands
// for.
type NameMap struct {
	sources map[string]*cellml.Variable
}

// NewNameMap creates an empty NameMap.
func NewNameMap() *NameMap {
	return &NameMap{sources: make(map[string]*cellml.Variable)}
}

// Assign reserves a unique name derived from candidate for src.
func (m *NameMap) Assign(candidate string, src *cellml.Variable) string {
	name := Unique(candidate, m.Has)
	m.sources[name] = src
	return name
}

// Has reports whether name is assigned.
func (m *NameMap) Has(name string) bool {
	_, ok := m.sources[name]
	return ok
}

// Source returns the variable name was assigned to.
func (m *NameMap) Source(name string) (*cellml.Variable, bool) {
	v, ok := m.sources[name]
	return v, ok
}

// Len returns the number of assigned names.
func (m *NameMap) Len() int {
	return len(m.sources)
}
