package cellml

import (
	"fmt"

	"github.com/beevik/etree"
)

// NewModel creates an empty model in the current schema revision.
func NewModel(name string) *Model {
	return &Model{Name: name, Namespace: Namespace11}
}

// Component returns the locally defined component with the given name.
func (m *Model) Component(name string) *Component {
	for _, c := range m.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HasComponent reports whether name is defined locally or imported.
func (m *Model) HasComponent(name string) bool {
	if m.Component(name) != nil {
		return true
	}
	for _, imp := range m.Imports {
		for _, ic := range imp.Components {
			if ic.Name == name {
				return true
			}
		}
	}
	return false
}

func (m *Model) hasUnits(name string) bool {
	for _, u := range m.Units {
		if u.Name == name {
			return true
		}
	}
	for _, imp := range m.Imports {
		for _, iu := range imp.Units {
			if iu.Name == name {
				return true
			}
		}
	}
	return false
}

// AddComponent attaches c to the model.
func (m *Model) AddComponent(c *Component) error {
	if err := checkIdentifier("component", c.Name); err != nil {
		return err
	}
	if m.HasComponent(c.Name) {
		return fmt.Errorf("component %q in model %q: %w", c.Name, m.Name, ErrDuplicateName)
	}
	c.model = m
	m.Components = append(m.Components, c)
	return nil
}

// AddUnits attaches a model-level units definition.
func (m *Model) AddUnits(u *Units) error {
	if err := checkIdentifier("units", u.Name); err != nil {
		return err
	}
	if m.hasUnits(u.Name) {
		return fmt.Errorf("units %q in model %q: %w", u.Name, m.Name, ErrDuplicateName)
	}
	m.Units = append(m.Units, u)
	return nil
}

// AddImport attaches imp. Imported names share the namespace of local
// components and model-level units.
func (m *Model) AddImport(imp *Import) error {
	if imp.Href == "" {
		return ErrEmptyHref
	}
	for _, ic := range imp.Components {
		if m.HasComponent(ic.Name) {
			return fmt.Errorf("imported component %q in model %q: %w", ic.Name, m.Name, ErrDuplicateName)
		}
	}
	for _, iu := range imp.Units {
		if m.hasUnits(iu.Name) {
			return fmt.Errorf("imported units %q in model %q: %w", iu.Name, m.Name, ErrDuplicateName)
		}
	}
	m.Imports = append(m.Imports, imp)
	return nil
}

// Connection returns the connection between a and b in either orientation.
func (m *Model) Connection(a, b string) *Connection {
	for _, c := range m.Connections {
		if (c.Component1 == a && c.Component2 == b) || (c.Component1 == b && c.Component2 == a) {
			return c
		}
	}
	return nil
}

// AddConnection attaches a fully populated connection.
func (m *Model) AddConnection(c *Connection) error {
	if c.Component1 == c.Component2 {
		return fmt.Errorf("connection %q: %w", c.Component1, ErrSelfConnection)
	}
	for _, name := range []string{c.Component1, c.Component2} {
		if !m.HasComponent(name) {
			return fmt.Errorf("connection %s-%s references %q: %w", c.Component1, c.Component2, name, ErrUnknownComponent)
		}
	}
	if len(c.Variables) == 0 {
		return fmt.Errorf("connection %s-%s: %w", c.Component1, c.Component2, ErrEmptyConnection)
	}
	if m.Connection(c.Component1, c.Component2) != nil {
		return fmt.Errorf("connection %s-%s: %w", c.Component1, c.Component2, ErrDuplicateName)
	}
	m.Connections = append(m.Connections, c)
	return nil
}

// AddGroup attaches a group whose references all name known components.
func (m *Model) AddGroup(g *Group) error {
	var check func(refs []*ComponentRef) error
	check = func(refs []*ComponentRef) error {
		for _, r := range refs {
			if !m.HasComponent(r.Component) {
				return fmt.Errorf("group reference %q: %w", r.Component, ErrUnknownComponent)
			}
			if err := check(r.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(g.Roots); err != nil {
		return err
	}
	m.Groups = append(m.Groups, g)
	return nil
}

// AllUnits returns every units definition in the model: model-level first,
// then component-local ones in document order. Names may repeat.
func (m *Model) AllUnits() []*Units {
	all := append([]*Units(nil), m.Units...)
	for _, c := range m.Components {
		all = append(all, c.Units...)
	}
	return all
}

// Variables returns every variable of every component in document order.
func (m *Model) Variables() []*Variable {
	var all []*Variable
	for _, c := range m.Components {
		all = append(all, c.Variables...)
	}
	return all
}

// NewComponent creates a detached component.
func NewComponent(name string) *Component {
	return &Component{Name: name}
}

// Model returns the owning model, or nil while detached.
func (c *Component) Model() *Model {
	return c.model
}

// Variable returns the variable with the given name.
func (c *Component) Variable(name string) *Variable {
	for _, v := range c.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// LocalUnits returns the units definition declared inside the component.
func (c *Component) LocalUnits(name string) *Units {
	for _, u := range c.Units {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// AddVariable attaches v to the component.
func (c *Component) AddVariable(v *Variable) error {
	if err := checkIdentifier("variable", v.Name); err != nil {
		return err
	}
	if err := checkIdentifier("units", v.Units); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	if c.Variable(v.Name) != nil {
		return fmt.Errorf("variable %q in component %q: %w", v.Name, c.Name, ErrDuplicateName)
	}
	v.component = c
	c.Variables = append(c.Variables, v)
	return nil
}

// AddUnits attaches a component-local units definition.
func (c *Component) AddUnits(u *Units) error {
	if err := checkIdentifier("units", u.Name); err != nil {
		return err
	}
	if c.LocalUnits(u.Name) != nil {
		return fmt.Errorf("units %q in component %q: %w", u.Name, c.Name, ErrDuplicateName)
	}
	c.Units = append(c.Units, u)
	return nil
}

// AddMath appends a math element.
func (c *Component) AddMath(e *etree.Element) {
	c.Math = append(c.Math, e)
}

// NewVariable creates a detached variable without an initial value.
func NewVariable(name, units string, public, private Interface) *Variable {
	return &Variable{Name: name, Units: units, Public: public, Private: private}
}

// SetInitialValue stores an initial value literal or reference.
func (v *Variable) SetInitialValue(s string) {
	v.InitialValue = s
	v.HasInitialValue = true
}

// Component returns the owning component.
func (v *Variable) Component() *Component {
	return v.component
}

// ComponentName returns the owning component's name, or "" while detached.
func (v *Variable) ComponentName() string {
	if v.component == nil {
		return ""
	}
	return v.component.Name
}

// Source returns the variable this one takes its value from. A variable with
// no recorded source is its own source.
func (v *Variable) Source() *Variable {
	if v.source == nil {
		return v
	}
	return v.source
}

// SetSource records the variable's source.
func (v *Variable) SetSource(src *Variable) {
	v.source = src
}

// IsCanonical reports whether v is its own source.
func (v *Variable) IsCanonical() bool {
	return v.Source() == v
}

// String returns the variable address "component.variable".
func (v *Variable) String() string {
	return v.ComponentName() + "." + v.Name
}

// AddComponent adds an import component entry.
func (imp *Import) AddComponent(ic ImportComponent) error {
	if err := checkIdentifier("component", ic.Name); err != nil {
		return err
	}
	if err := checkIdentifier("component_ref", ic.ComponentRef); err != nil {
		return err
	}
	for _, existing := range imp.Components {
		if existing.Name == ic.Name {
			return fmt.Errorf("import component %q: %w", ic.Name, ErrDuplicateName)
		}
	}
	imp.Components = append(imp.Components, ic)
	return nil
}

// AddUnits adds an import units entry.
func (imp *Import) AddUnits(iu ImportUnits) error {
	if err := checkIdentifier("units", iu.Name); err != nil {
		return err
	}
	if err := checkIdentifier("units_ref", iu.UnitsRef); err != nil {
		return err
	}
	for _, existing := range imp.Units {
		if existing.Name == iu.Name {
			return fmt.Errorf("import units %q: %w", iu.Name, ErrDuplicateName)
		}
	}
	imp.Units = append(imp.Units, iu)
	return nil
}

// HasVariableMap reports whether the pair is already mapped, in the
// connection's own orientation.
func (c *Connection) HasVariableMap(v1, v2 string) bool {
	for _, vm := range c.Variables {
		if vm.Variable1 == v1 && vm.Variable2 == v2 {
			return true
		}
	}
	return false
}

// AddVariableMap appends a variable mapping.
func (c *Connection) AddVariableMap(vm VariableMap) error {
	if err := checkIdentifier("variable_1", vm.Variable1); err != nil {
		return err
	}
	if err := checkIdentifier("variable_2", vm.Variable2); err != nil {
		return err
	}
	if c.HasVariableMap(vm.Variable1, vm.Variable2) {
		return fmt.Errorf("map_variables %s-%s: %w", vm.Variable1, vm.Variable2, ErrDuplicateName)
	}
	c.Variables = append(c.Variables, vm)
	return nil
}

// AddChild appends a child reference.
func (r *ComponentRef) AddChild(child *ComponentRef) error {
	if err := checkIdentifier("component_ref", child.Component); err != nil {
		return err
	}
	for _, existing := range r.Children {
		if existing.Component == child.Component {
			return fmt.Errorf("component_ref %q under %q: %w", child.Component, r.Component, ErrDuplicateName)
		}
	}
	r.Children = append(r.Children, child)
	return nil
}
