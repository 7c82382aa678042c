package connectivity

import (
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainModel builds a -> b -> c where a owns x and b, c import it.
func chainModel(t *testing.T) *cellml.Model {
	t.Helper()
	m := cellml.NewModel("chain")
	for _, def := range []struct {
		comp      string
		pub, priv cellml.Interface
	}{
		{"a", cellml.InterfaceOut, cellml.InterfaceNone},
		{"b", cellml.InterfaceIn, cellml.InterfaceOut},
		{"c", cellml.InterfaceIn, cellml.InterfaceNone},
	} {
		c := cellml.NewComponent(def.comp)
		require.NoError(t, c.AddVariable(cellml.NewVariable("x", "second", def.pub, def.priv)))
		require.NoError(t, c.AddVariable(cellml.NewVariable("local", "second", cellml.InterfaceNone, cellml.InterfaceNone)))
		require.NoError(t, m.AddComponent(c))
	}
	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		require.NoError(t, m.AddConnection(&cellml.Connection{
			Component1: pair[0], Component2: pair[1],
			Variables: []cellml.VariableMap{{Variable1: "x", Variable2: "x"}},
		}))
	}
	return m
}

func TestConnectedSet(t *testing.T) {
	m := chainModel(t)
	r, err := New(m)
	require.NoError(t, err)

	cx := m.Component("c").Variable("x")
	set := r.ConnectedSet(cx)

	require.Len(t, set, 3)
	assert.Same(t, cx, set[0])
	assert.Same(t, m.Component("b").Variable("x"), set[1])
	assert.Same(t, m.Component("a").Variable("x"), set[2])

	lonely := m.Component("a").Variable("local")
	assert.Equal(t, []*cellml.Variable{lonely}, r.ConnectedSet(lonely))
}

func TestAssignSources(t *testing.T) {
	m := chainModel(t)
	r, err := New(m)
	require.NoError(t, err)

	r.AssignSources(m)

	ax := m.Component("a").Variable("x")
	assert.True(t, ax.IsCanonical())
	assert.Same(t, ax, m.Component("b").Variable("x").Source())
	assert.Same(t, ax, m.Component("c").Variable("x").Source())
	assert.True(t, m.Component("b").Variable("local").IsCanonical())
}

func TestAssignSources_AmbiguousSetStaysSelfSourced(t *testing.T) {
	m := chainModel(t)
	m.Component("b").Variable("x").Public = cellml.InterfaceOut
	m.Component("b").Variable("x").Private = cellml.InterfaceOut
	r, err := New(m)
	require.NoError(t, err)

	r.AssignSources(m)

	for _, name := range []string{"a", "b", "c"} {
		assert.True(t, m.Component(name).Variable("x").IsCanonical(), name)
	}
}

func TestNew_UnknownVariable(t *testing.T) {
	m := chainModel(t)
	m.Connections[0].Variables = append(m.Connections[0].Variables, cellml.VariableMap{Variable1: "nope", Variable2: "x"})

	_, err := New(m)
	assert.Error(t, err)
}
