package varid

import (
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		expectErr  bool
		expectedID ID
	}{
		{name: "simple address", raw: "membrane.V", expectedID: ID{Component: "membrane", Variable: "V"}},
		{name: "underscores and digits", raw: "sodium_channel.g_Na2", expectedID: ID{Component: "sodium_channel", Variable: "g_Na2"}},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - missing variable", raw: "membrane", expectErr: true},
		{name: "error - too many segments", raw: "a.b.c", expectErr: true},
		{name: "error - empty segment", raw: "membrane.", expectErr: true},
		{name: "error - leading digit", raw: "membrane.1V", expectErr: true},
		{name: "error - invalid character", raw: "membrane.V-1", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
			assert.Equal(t, tc.raw, id.String())
		})
	}
}

func TestOfAndSet(t *testing.T) {
	c := cellml.NewComponent("membrane")
	v := cellml.NewVariable("V", "millivolt", cellml.InterfaceOut, cellml.InterfaceNone)
	require.NoError(t, c.AddVariable(v))

	ids, err := ParseAll([]string{"membrane.V", "leak.g_L"})
	require.NoError(t, err)
	set := NewSet(ids...)

	assert.Equal(t, ID{Component: "membrane", Variable: "V"}, Of(v))
	assert.True(t, set.Has(Of(v)))
	assert.False(t, set.Has(ID{Component: "membrane", Variable: "Cm"}))

	_, err = ParseAll([]string{"membrane.V", "bad"})
	assert.Error(t, err)
}
