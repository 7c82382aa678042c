package cellml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Schema namespaces understood by the loader and written by the serializer.
const (
	Namespace10     = "http://www.cellml.org/cellml/1.0#"
	Namespace11     = "http://www.cellml.org/cellml/1.1#"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
	XLinkNamespace  = "http://www.w3.org/1999/xlink"
)

// Interface is the direction a variable exposes across a component boundary.
type Interface int

const (
	InterfaceNone Interface = iota
	InterfaceIn
	InterfaceOut
)

// String returns the attribute spelling of the interface value.
func (i Interface) String() string {
	switch i {
	case InterfaceIn:
		return "in"
	case InterfaceOut:
		return "out"
	default:
		return "none"
	}
}

// ParseInterface converts an interface attribute value. An absent attribute
// (empty string) means none.
func ParseInterface(s string) (Interface, error) {
	switch s {
	case "", "none":
		return InterfaceNone, nil
	case "in":
		return InterfaceIn, nil
	case "out":
		return InterfaceOut, nil
	default:
		return InterfaceNone, fmt.Errorf("invalid interface value %q", s)
	}
}

// Model is a complete CellML document.
type Model struct {
	Name      string
	Namespace string

	Imports     []*Import
	Units       []*Units
	Components  []*Component
	Groups      []*Group
	Connections []*Connection
}

// Units is a named units definition. Element holds the full definition and is
// never interpreted.
type Units struct {
	Name    string
	Element *etree.Element
}

// Component owns variables, local units and math.
type Component struct {
	Name      string
	Variables []*Variable
	Units     []*Units
	Math      []*etree.Element

	model *Model
}

// Variable is a typed quantity owned by a component.
type Variable struct {
	Name  string
	Units string

	InitialValue    string
	HasInitialValue bool

	Public  Interface
	Private Interface

	source    *Variable
	component *Component
}

// Connection links variables of two components.
type Connection struct {
	Component1 string
	Component2 string
	Variables  []VariableMap
}

// VariableMap is one map_variables entry of a connection.
type VariableMap struct {
	Variable1 string
	Variable2 string
}

// Import pulls components and units from another document.
type Import struct {
	Href       string
	Components []ImportComponent
	Units      []ImportUnits
}

// ImportComponent names a component imported under a local name.
type ImportComponent struct {
	Name         string
	ComponentRef string
}

// ImportUnits names a units definition imported under a local name.
type ImportUnits struct {
	Name     string
	UnitsRef string
}

// Group is a component hierarchy for one relationship, usually encapsulation.
type Group struct {
	Relationship string
	Roots        []*ComponentRef
}

// ComponentRef is a node of a group hierarchy.
type ComponentRef struct {
	Component string
	Children  []*ComponentRef
}
