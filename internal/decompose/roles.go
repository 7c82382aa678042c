package decompose

import (
	"github.com/nickerso/cellml-decompose/internal/analysis"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/varid"
)

// Role says how a variable is carried into the fragments.
type Role int

const (
	RoleState Role = iota
	RoleVariableOfIntegration
	RoleParameter
	RoleCalculated
	RoleAlias
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleState, RoleVariableOfIntegration, RoleParameter, RoleCalculated, RoleAlias}

func (r Role) String() string {
	switch r {
	case RoleState:
		return "state"
	case RoleVariableOfIntegration:
		return "variable_of_integration"
	case RoleParameter:
		return "parameter"
	case RoleCalculated:
		return "calculated"
	default:
		return "alias"
	}
}

// ClassifyRole assigns exactly one role to v. First match wins.
func ClassifyRole(v *cellml.Variable, sets analysis.Sets) Role {
	switch {
	case sets.Bound.Has(v) || sets.Bound.Has(v.Source()):
		return RoleVariableOfIntegration
	case !v.IsCanonical():
		return RoleAlias
	case v.HasInitialValue && sets.State.Has(v):
		return RoleState
	case v.HasInitialValue:
		return RoleParameter
	default:
		return RoleCalculated
	}
}

// ExposurePolicy decides whether a calculated variable gets an interface
// variable.
type ExposurePolicy func(v *cellml.Variable) bool

// ExposeUnlessLocalUnits hides variables whose units are defined inside
// their own component, since the interface could not name those units.
func ExposeUnlessLocalUnits(v *cellml.Variable) bool {
	c := v.Component()
	return c == nil || c.LocalUnits(v.Units) == nil
}

// WithOverrides forces the listed addresses on top of base. An address in
// both lists is hidden.
func WithOverrides(base ExposurePolicy, expose, hide []varid.ID) ExposurePolicy {
	if len(expose) == 0 && len(hide) == 0 {
		return base
	}
	exposed, hidden := varid.NewSet(expose...), varid.NewSet(hide...)
	return func(v *cellml.Variable) bool {
		id := varid.Of(v)
		switch {
		case hidden.Has(id):
			return false
		case exposed.Has(id):
			return true
		default:
			return base(v)
		}
	}
}
