// Package serializer writes document-model fragments as indented CellML 1.1
// XML.
package serializer

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Serialize renders m with the default indentation.
func Serialize(m *cellml.Model) ([]byte, error) {
	return SerializeIndent(m, DefaultIndent)
}

// SerializeIndent renders m: XML declaration, the model's namespace as the
// default and cellml prefixes, xlink declared, then imports, units,
// components, groups and connections in that order. Copied units and math
// sub-trees are written as they are; m is not modified.
func SerializeIndent(m *cellml.Model, indent int) ([]byte, error) {
	if m.Name == "" {
		return nil, errors.New("model has no name")
	}
	ns := m.Namespace
	if ns == "" {
		ns = cellml.Namespace11
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("model")
	root.CreateAttr("xmlns", ns)
	root.CreateAttr("xmlns:cellml", ns)
	root.CreateAttr("xmlns:xlink", cellml.XLinkNamespace)
	root.CreateAttr("name", m.Name)

	for _, imp := range m.Imports {
		e := root.CreateElement("import")
		e.CreateAttr("xlink:href", imp.Href)
		for _, ic := range imp.Components {
			c := e.CreateElement("component")
			c.CreateAttr("name", ic.Name)
			c.CreateAttr("component_ref", ic.ComponentRef)
		}
		for _, iu := range imp.Units {
			u := e.CreateElement("units")
			u.CreateAttr("name", iu.Name)
			u.CreateAttr("units_ref", iu.UnitsRef)
		}
	}
	for _, u := range m.Units {
		if err := addCopy(root, u); err != nil {
			return nil, err
		}
	}
	for _, c := range m.Components {
		if err := writeComponent(root, c); err != nil {
			return nil, fmt.Errorf("component %q: %w", c.Name, err)
		}
	}
	for _, g := range m.Groups {
		e := root.CreateElement("group")
		e.CreateElement("relationship_ref").CreateAttr("relationship", g.Relationship)
		for _, ref := range g.Roots {
			writeComponentRef(e, ref)
		}
	}
	for _, conn := range m.Connections {
		e := root.CreateElement("connection")
		mc := e.CreateElement("map_components")
		mc.CreateAttr("component_1", conn.Component1)
		mc.CreateAttr("component_2", conn.Component2)
		for _, vm := range conn.Variables {
			mv := e.CreateElement("map_variables")
			mv.CreateAttr("variable_1", vm.Variable1)
			mv.CreateAttr("variable_2", vm.Variable2)
		}
	}

	doc.Indent(indent)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize model %q: %w", m.Name, err)
	}
	return out, nil
}

func writeComponent(parent *etree.Element, c *cellml.Component) error {
	e := parent.CreateElement("component")
	e.CreateAttr("name", c.Name)
	for _, u := range c.Units {
		if err := addCopy(e, u); err != nil {
			return err
		}
	}
	for _, v := range c.Variables {
		ve := e.CreateElement("variable")
		ve.CreateAttr("name", v.Name)
		ve.CreateAttr("units", v.Units)
		if v.HasInitialValue {
			ve.CreateAttr("initial_value", v.InitialValue)
		}
		if v.Public != cellml.InterfaceNone {
			ve.CreateAttr("public_interface", v.Public.String())
		}
		if v.Private != cellml.InterfaceNone {
			ve.CreateAttr("private_interface", v.Private.String())
		}
	}
	for _, math := range c.Math {
		e.AddChild(math.Copy())
	}
	return nil
}

func writeComponentRef(parent *etree.Element, ref *cellml.ComponentRef) {
	e := parent.CreateElement("component_ref")
	e.CreateAttr("component", ref.Component)
	for _, child := range ref.Children {
		writeComponentRef(e, child)
	}
}

func addCopy(parent *etree.Element, u *cellml.Units) error {
	if u.Element == nil {
		return fmt.Errorf("units %q has no definition", u.Name)
	}
	parent.AddChild(u.Element.Copy())
	return nil
}
