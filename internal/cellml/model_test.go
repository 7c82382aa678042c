package cellml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_AddComponent(t *testing.T) {
	m := NewModel("m")

	require.NoError(t, m.AddComponent(NewComponent("membrane")))
	assert.Same(t, m, m.Component("membrane").Model())

	err := m.AddComponent(NewComponent("membrane"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	err = m.AddComponent(NewComponent("bad name"))
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Len(t, m.Components, 1)
}

func TestModel_ImportedComponentsShareNamespace(t *testing.T) {
	m := NewModel("m")
	imp := &Import{Href: "other.xml"}
	require.NoError(t, imp.AddComponent(ImportComponent{Name: "membrane", ComponentRef: "membrane"}))
	require.NoError(t, m.AddImport(imp))

	assert.True(t, m.HasComponent("membrane"))
	assert.Nil(t, m.Component("membrane"))
	assert.ErrorIs(t, m.AddComponent(NewComponent("membrane")), ErrDuplicateName)

	assert.ErrorIs(t, m.AddImport(&Import{}), ErrEmptyHref)
}

func TestComponent_AddVariable(t *testing.T) {
	c := NewComponent("c")

	v := NewVariable("V", "millivolt", InterfaceOut, InterfaceNone)
	require.NoError(t, c.AddVariable(v))
	assert.Equal(t, "c", v.ComponentName())
	assert.Equal(t, "c.V", v.String())

	assert.ErrorIs(t, c.AddVariable(NewVariable("V", "millivolt", InterfaceNone, InterfaceNone)), ErrDuplicateName)
	assert.ErrorIs(t, c.AddVariable(NewVariable("W", "", InterfaceNone, InterfaceNone)), ErrInvalidName)
	assert.Len(t, c.Variables, 1)
}

func TestVariable_Source(t *testing.T) {
	a := NewVariable("x", "second", InterfaceOut, InterfaceNone)
	b := NewVariable("x", "second", InterfaceIn, InterfaceNone)

	assert.True(t, a.IsCanonical())
	b.SetSource(a)
	assert.False(t, b.IsCanonical())
	assert.Same(t, a, b.Source())
}

func TestModel_AddConnection(t *testing.T) {
	m := NewModel("m")
	require.NoError(t, m.AddComponent(NewComponent("a")))
	require.NoError(t, m.AddComponent(NewComponent("b")))

	conn := &Connection{Component1: "a", Component2: "b"}
	assert.ErrorIs(t, m.AddConnection(conn), ErrEmptyConnection)

	require.NoError(t, conn.AddVariableMap(VariableMap{Variable1: "x", Variable2: "x"}))
	assert.ErrorIs(t, conn.AddVariableMap(VariableMap{Variable1: "x", Variable2: "x"}), ErrDuplicateName)
	require.NoError(t, m.AddConnection(conn))

	reversed := &Connection{Component1: "b", Component2: "a", Variables: []VariableMap{{Variable1: "y", Variable2: "y"}}}
	assert.ErrorIs(t, m.AddConnection(reversed), ErrDuplicateName)
	assert.Same(t, conn, m.Connection("b", "a"))

	self := &Connection{Component1: "a", Component2: "a", Variables: []VariableMap{{Variable1: "y", Variable2: "z"}}}
	assert.ErrorIs(t, m.AddConnection(self), ErrSelfConnection)

	unknown := &Connection{Component1: "a", Component2: "zz", Variables: []VariableMap{{Variable1: "y", Variable2: "z"}}}
	assert.ErrorIs(t, m.AddConnection(unknown), ErrUnknownComponent)
}

func TestModel_AllUnits(t *testing.T) {
	m := NewModel("m")
	require.NoError(t, m.AddUnits(&Units{Name: "millivolt"}))
	c := NewComponent("c")
	require.NoError(t, c.AddUnits(&Units{Name: "per_ms"}))
	require.NoError(t, c.AddUnits(&Units{Name: "millivolt"}))
	require.NoError(t, m.AddComponent(c))

	var names []string
	for _, u := range m.AllUnits() {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"millivolt", "per_ms", "millivolt"}, names)
	assert.ErrorIs(t, c.AddUnits(&Units{Name: "per_ms"}), ErrDuplicateName)
}

func TestComponentRef_AddChild(t *testing.T) {
	root := &ComponentRef{Component: "parent"}
	require.NoError(t, root.AddChild(&ComponentRef{Component: "child"}))
	assert.ErrorIs(t, root.AddChild(&ComponentRef{Component: "child"}), ErrDuplicateName)

	m := NewModel("m")
	err := m.AddGroup(&Group{Relationship: "encapsulation", Roots: []*ComponentRef{root}})
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestParseInterface(t *testing.T) {
	for _, s := range []string{"", "none", "in", "out"} {
		i, err := ParseInterface(s)
		require.NoError(t, err)
		if s != "" {
			assert.Equal(t, s, i.String())
		}
	}
	_, err := ParseInterface("sideways")
	assert.Error(t, err)
}
