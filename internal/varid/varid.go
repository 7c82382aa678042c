package varid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// segmentRegex matches a CellML identifier. IsIdentifier applies the
// remaining rules.
var segmentRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ID addresses one variable of one component.
type ID struct {
	Component string
	Variable  string
}

// Of returns the address of v.
func Of(v *cellml.Variable) ID {
	return ID{Component: v.ComponentName(), Variable: v.Name}
}

// String serializes the ID into its canonical `component.variable` form.
func (id ID) String() string {
	return id.Component + "." + id.Variable
}

// Parse reads a `component.variable` address.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("variable address cannot be empty")
	}
	segments := strings.Split(raw, ".")
	if len(segments) != 2 {
		return ID{}, fmt.Errorf("variable address %q must have the form component.variable", raw)
	}
	for _, s := range segments {
		if s == "" {
			return ID{}, fmt.Errorf("variable address %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(s) || !cellml.IsIdentifier(s) {
			return ID{}, fmt.Errorf("invalid segment %q in variable address %q", s, raw)
		}
	}
	return ID{Component: segments[0], Variable: segments[1]}, nil
}

// ParseAll parses every address, reporting the first failure.
func ParseAll(raw []string) ([]ID, error) {
	ids := make([]ID, 0, len(raw))
	for _, r := range raw {
		id, err := Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Set is a lookup of addresses.
type Set map[ID]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}
