package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/connectivity"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
)

// ErrUnresolvedImport rejects inputs that still import from other documents.
var ErrUnresolvedImport = errors.New("model contains unresolved <import> elements")

// Parse builds a model from a serialized CellML 1.0 or 1.1 document and links
// variable sources.
func Parse(ctx context.Context, data []byte) (*cellml.Model, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "model" {
		return nil, errors.New("document root is not a <model> element")
	}
	ns := cellml.NamespaceOf(root)
	if !cellml.IsCellMLNamespace(ns) {
		return nil, fmt.Errorf("unsupported model namespace %q", ns)
	}

	m := cellml.NewModel(attr(root, "name"))
	m.Namespace = ns
	if !cellml.IsIdentifier(m.Name) {
		return nil, fmt.Errorf("model name %q: %w", m.Name, cellml.ErrInvalidName)
	}

	// Connections and groups reference components declared anywhere in the
	// document, so they are read after every component.
	var connections, groups []*etree.Element
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "import":
			return nil, ErrUnresolvedImport
		case "units":
			if err := m.AddUnits(&cellml.Units{Name: attr(child, "name"), Element: child}); err != nil {
				return nil, err
			}
		case "component":
			comp, err := parseComponent(child)
			if err != nil {
				return nil, err
			}
			if err := m.AddComponent(comp); err != nil {
				return nil, err
			}
		case "connection":
			connections = append(connections, child)
		case "group":
			groups = append(groups, child)
		}
	}
	for _, e := range connections {
		conn, err := parseConnection(e)
		if err != nil {
			return nil, err
		}
		if err := m.AddConnection(conn); err != nil {
			return nil, err
		}
	}
	for _, e := range groups {
		if err := m.AddGroup(parseGroup(e)); err != nil {
			return nil, err
		}
	}

	resolver, err := connectivity.New(m)
	if err != nil {
		return nil, err
	}
	resolver.AssignSources(m)
	ctxlog.FromContext(ctx).Debug("Linked variable sources.", "variables", len(m.Variables()))
	return m, nil
}

func parseComponent(e *etree.Element) (*cellml.Component, error) {
	comp := cellml.NewComponent(attr(e, "name"))
	for _, child := range e.ChildElements() {
		switch child.Tag {
		case "variable":
			v, err := parseVariable(child)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", comp.Name, err)
			}
			if err := comp.AddVariable(v); err != nil {
				return nil, err
			}
		case "units":
			if err := comp.AddUnits(&cellml.Units{Name: attr(child, "name"), Element: child}); err != nil {
				return nil, err
			}
		case "math":
			comp.AddMath(child)
		}
	}
	return comp, nil
}

func parseVariable(e *etree.Element) (*cellml.Variable, error) {
	name := attr(e, "name")
	pub, err := cellml.ParseInterface(attr(e, "public_interface"))
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	priv, err := cellml.ParseInterface(attr(e, "private_interface"))
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	v := cellml.NewVariable(name, attr(e, "units"), pub, priv)
	if a := exactAttr(e, "initial_value"); a != nil {
		v.SetInitialValue(a.Value)
	}
	return v, nil
}

func parseConnection(e *etree.Element) (*cellml.Connection, error) {
	mc := e.SelectElement("map_components")
	if mc == nil {
		return nil, errors.New("connection without <map_components>")
	}
	conn := &cellml.Connection{
		Component1: attr(mc, "component_1"),
		Component2: attr(mc, "component_2"),
	}
	for _, mv := range e.SelectElements("map_variables") {
		vm := cellml.VariableMap{Variable1: attr(mv, "variable_1"), Variable2: attr(mv, "variable_2")}
		if err := conn.AddVariableMap(vm); err != nil {
			return nil, fmt.Errorf("connection %s-%s: %w", conn.Component1, conn.Component2, err)
		}
	}
	return conn, nil
}

func parseGroup(e *etree.Element) *cellml.Group {
	g := &cellml.Group{}
	if rr := e.SelectElement("relationship_ref"); rr != nil {
		g.Relationship = attr(rr, "relationship")
	}
	for _, ref := range e.SelectElements("component_ref") {
		g.Roots = append(g.Roots, parseComponentRef(ref))
	}
	return g
}

func parseComponentRef(e *etree.Element) *cellml.ComponentRef {
	ref := &cellml.ComponentRef{Component: attr(e, "component")}
	for _, child := range e.SelectElements("component_ref") {
		ref.Children = append(ref.Children, parseComponentRef(child))
	}
	return ref
}

// exactAttr finds an unprefixed attribute. etree's SelectAttr also matches
// prefixed attributes with the same local name.
func exactAttr(e *etree.Element, key string) *etree.Attr {
	for i := range e.Attr {
		if e.Attr[i].Space == "" && e.Attr[i].Key == key {
			return &e.Attr[i]
		}
	}
	return nil
}

func attr(e *etree.Element, key string) string {
	if a := exactAttr(e, key); a != nil {
		return a.Value
	}
	return ""
}
