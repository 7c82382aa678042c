// Package connectivity answers which variables of a model are transitively
// connected to a given variable, and which member of each connected set is
// the source the others take their value from.
package connectivity

import (
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// Resolver holds the variable adjacency of one model. It is built once and
// read many times.
type Resolver struct {
	adjacency map[*cellml.Variable][]*cellml.Variable
}

// New indexes the connections of m. A connection naming a component or
// variable that does not exist is an error.
func New(m *cellml.Model) (*Resolver, error) {
	r := &Resolver{adjacency: make(map[*cellml.Variable][]*cellml.Variable)}
	for _, conn := range m.Connections {
		c1 := m.Component(conn.Component1)
		c2 := m.Component(conn.Component2)
		if c1 == nil || c2 == nil {
			return nil, fmt.Errorf("connection %s-%s: %w", conn.Component1, conn.Component2, cellml.ErrUnknownComponent)
		}
		for _, vm := range conn.Variables {
			v1 := c1.Variable(vm.Variable1)
			v2 := c2.Variable(vm.Variable2)
			if v1 == nil || v2 == nil {
				return nil, fmt.Errorf("connection %s-%s maps unknown variable pair %s-%s", c1.Name, c2.Name, vm.Variable1, vm.Variable2)
			}
			r.adjacency[v1] = append(r.adjacency[v1], v2)
			r.adjacency[v2] = append(r.adjacency[v2], v1)
		}
	}
	return r, nil
}

// ConnectedSet returns every variable transitively connected to v, v
// included, in breadth-first order starting at v.
func (r *Resolver) ConnectedSet(v *cellml.Variable) []*cellml.Variable {
	seen := map[*cellml.Variable]struct{}{v: {}}
	set := []*cellml.Variable{v}
	for i := 0; i < len(set); i++ {
		for _, next := range r.adjacency[set[i]] {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			set = append(set, next)
		}
	}
	return set
}

// AssignSources records the source of every variable in m. The source of a
// connected set is its only member that takes no value through an "in"
// interface. When a set has no such member, or more than one, every member
// stays its own source.
func (r *Resolver) AssignSources(m *cellml.Model) {
	done := make(map[*cellml.Variable]struct{})
	for _, v := range m.Variables() {
		if _, ok := done[v]; ok {
			continue
		}
		set := r.ConnectedSet(v)
		var source *cellml.Variable
		candidates := 0
		for _, member := range set {
			done[member] = struct{}{}
			if member.Public != cellml.InterfaceIn && member.Private != cellml.InterfaceIn {
				source = member
				candidates++
			}
		}
		for _, member := range set {
			if candidates == 1 {
				member.SetSource(source)
			} else {
				member.SetSource(nil)
			}
		}
	}
}
