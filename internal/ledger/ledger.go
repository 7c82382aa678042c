// Package ledger accumulates the connections of a generated model so that
// each component pair ends up with exactly one connection holding every
// variable pair once.
package ledger

import (
	"errors"
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// Pair is an ordered pair of names.
type Pair struct {
	First  string
	Second string
}

func (p Pair) key() Pair {
	if p.Second < p.First {
		return Pair{First: p.Second, Second: p.First}
	}
	return p
}

// Description is one future connection: the component pair in the order it
// was first recorded and the variable pairs in that same orientation.
type Description struct {
	Components Pair
	Variables  []Pair
}

// RejectionError is returned by Materialize for a description the target
// model would not accept.
type RejectionError struct {
	Components Pair
	Err        error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("connection %s-%s: %v", e.Components.First, e.Components.Second, e.Err)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Ledger is keyed by the unordered component pair and remembers insertion
// order.
type Ledger struct {
	descriptions []*Description
	index        map[Pair]int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{index: make(map[Pair]int)}
}

// Record notes that variable x of component a connects to variable y of
// component b. Recording the same link twice, in either orientation, has no
// further effect.
func (l *Ledger) Record(a, x, b, y string) error {
	if a == b {
		return fmt.Errorf("%s.%s-%s.%s: %w", a, x, b, y, cellml.ErrSelfConnection)
	}
	components := Pair{First: a, Second: b}
	vars := Pair{First: x, Second: y}

	i, ok := l.index[components.key()]
	if !ok {
		l.index[components.key()] = len(l.descriptions)
		l.descriptions = append(l.descriptions, &Description{Components: components, Variables: []Pair{vars}})
		return nil
	}

	d := l.descriptions[i]
	if d.Components.First != a {
		vars = Pair{First: y, Second: x}
	}
	for _, existing := range d.Variables {
		if existing == vars {
			return nil
		}
	}
	d.Variables = append(d.Variables, vars)
	return nil
}

// Has reports whether the link has been recorded in either orientation.
func (l *Ledger) Has(a, x, b, y string) bool {
	i, ok := l.index[Pair{First: a, Second: b}.key()]
	if !ok {
		return false
	}
	d := l.descriptions[i]
	want := Pair{First: x, Second: y}
	if d.Components.First != a {
		want = Pair{First: y, Second: x}
	}
	for _, existing := range d.Variables {
		if existing == want {
			return true
		}
	}
	return false
}

// Len returns the number of distinct component pairs.
func (l *Ledger) Len() int {
	return len(l.descriptions)
}

// Descriptions returns a copy of the recorded descriptions in insertion
// order.
func (l *Ledger) Descriptions() []Description {
	out := make([]Description, len(l.descriptions))
	for i, d := range l.descriptions {
		out[i] = Description{Components: d.Components, Variables: append([]Pair(nil), d.Variables...)}
	}
	return out
}

// Link is one recorded variable pair with its components.
type Link struct {
	Components Pair
	Variables  Pair
}

// Retain drops every variable pair for which keep rejects either end and
// returns the dropped links. Descriptions left empty are removed.
func (l *Ledger) Retain(keep func(component, variable string) bool) []Link {
	var dropped []Link
	kept := l.descriptions[:0]
	l.index = make(map[Pair]int, len(l.descriptions))
	for _, d := range l.descriptions {
		vars := d.Variables[:0]
		for _, v := range d.Variables {
			if keep(d.Components.First, v.First) && keep(d.Components.Second, v.Second) {
				vars = append(vars, v)
				continue
			}
			dropped = append(dropped, Link{Components: d.Components, Variables: v})
		}
		d.Variables = vars
		if len(vars) == 0 {
			continue
		}
		l.index[d.Components.key()] = len(kept)
		kept = append(kept, d)
	}
	l.descriptions = kept
	return dropped
}

// Materialize adds one connection per description to target. Descriptions
// the target rejects are skipped and reported as joined *RejectionError
// values; the rest are still added.
func (l *Ledger) Materialize(target *cellml.Model) error {
	var errs []error
	for _, d := range l.descriptions {
		conn := &cellml.Connection{Component1: d.Components.First, Component2: d.Components.Second}
		var err error
		for _, v := range d.Variables {
			if err = conn.AddVariableMap(cellml.VariableMap{Variable1: v.First, Variable2: v.Second}); err != nil {
				break
			}
		}
		if err == nil {
			err = target.AddConnection(conn)
		}
		if err != nil {
			errs = append(errs, &RejectionError{Components: d.Components, Err: err})
		}
	}
	return errors.Join(errs...)
}
