package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/loader"
	"github.com/nickerso/cellml-decompose/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Locators(t *testing.T) {
	// Arrange
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/models/membrane.cellml", []byte(testutil.MembraneModelXML), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/membrane.cellml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(testutil.MembraneModelXML))
	}))
	defer server.Close()

	l := loader.New(loader.WithFs(fs), loader.WithHTTPClient(server.Client()))

	testCases := []struct {
		name    string
		locator string
	}{
		{name: "plain path", locator: "/models/membrane.cellml"},
		{name: "file URL", locator: "file:///models/membrane.cellml"},
		{name: "http URL", locator: server.URL + "/membrane.cellml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			m, err := l.Load(context.Background(), tc.locator)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "membrane_demo", m.Name)
			assert.Equal(t, cellml.Namespace10, m.Namespace)
			assert.Len(t, m.Components, 3)
		})
	}
}

func TestLoad_Failures(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	l := loader.New(loader.WithFs(afero.NewMemMapFs()), loader.WithHTTPClient(server.Client()))

	testCases := []struct {
		name    string
		locator string
	}{
		{name: "missing file", locator: "/nowhere.cellml"},
		{name: "http status", locator: server.URL + "/missing.cellml"},
		{name: "unsupported scheme", locator: "ftp://example.org/model.cellml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tc.locator)

			var loadErr *loader.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tc.locator, loadErr.Locator)
		})
	}
}

func TestParse_Structure(t *testing.T) {
	m := testutil.LoadModel(t, testutil.MembraneModelXML)

	require.Len(t, m.Units, 2)
	assert.Equal(t, "millivolt", m.Units[0].Name)

	membrane := m.Component("membrane")
	require.NotNil(t, membrane)
	assert.Len(t, membrane.Variables, 5)
	assert.Len(t, membrane.Math, 1)
	require.NotNil(t, membrane.LocalUnits("per_ms"))

	v := membrane.Variable("V")
	assert.True(t, v.HasInitialValue)
	assert.Equal(t, "-75", v.InitialValue)
	assert.Equal(t, cellml.InterfaceOut, v.Public)
	assert.False(t, membrane.Variable("rate").HasInitialValue)

	require.Len(t, m.Groups, 1)
	assert.Equal(t, "encapsulation", m.Groups[0].Relationship)
	require.Len(t, m.Groups[0].Roots, 1)
	assert.Equal(t, "leak", m.Groups[0].Roots[0].Children[0].Component)

	conn := m.Connection("leak", "membrane")
	require.NotNil(t, conn)
	assert.Equal(t, []cellml.VariableMap{{Variable1: "V", Variable2: "V"}, {Variable1: "i_ion", Variable2: "i_ion"}}, conn.Variables)
}

func TestParse_LinksSources(t *testing.T) {
	m := testutil.LoadModel(t, testutil.MembraneModelXML)

	time := testutil.RequireVariable(t, m, "environment", "time")
	assert.Same(t, time, testutil.RequireVariable(t, m, "membrane", "time").Source())
	assert.Same(t, testutil.RequireVariable(t, m, "membrane", "V"), testutil.RequireVariable(t, m, "leak", "V").Source())
	assert.Same(t, testutil.RequireVariable(t, m, "leak", "i_ion"), testutil.RequireVariable(t, m, "membrane", "i_ion").Source())
	assert.True(t, testutil.RequireVariable(t, m, "membrane", "Cm").IsCanonical())
}

func TestParse_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		xml     string
		wantErr error
	}{
		{
			name:    "unresolved import",
			xml:     `<model xmlns="http://www.cellml.org/cellml/1.1#" xmlns:xlink="http://www.w3.org/1999/xlink" name="m"><import xlink:href="other.xml"/></model>`,
			wantErr: loader.ErrUnresolvedImport,
		},
		{
			name:    "duplicate component",
			xml:     `<model xmlns="http://www.cellml.org/cellml/1.0#" name="m"><component name="a"/><component name="a"/></model>`,
			wantErr: cellml.ErrDuplicateName,
		},
		{
			name:    "invalid variable name",
			xml:     `<model xmlns="http://www.cellml.org/cellml/1.0#" name="m"><component name="a"><variable name="1x" units="second"/></component></model>`,
			wantErr: cellml.ErrInvalidName,
		},
		{
			name:    "connection to unknown component",
			xml:     `<model xmlns="http://www.cellml.org/cellml/1.0#" name="m"><component name="a"><variable name="x" units="second"/></component><connection><map_components component_1="a" component_2="b"/><map_variables variable_1="x" variable_2="x"/></connection></model>`,
			wantErr: cellml.ErrUnknownComponent,
		},
		{
			name:    "self connection",
			xml:     `<model xmlns="http://www.cellml.org/cellml/1.0#" name="m"><component name="a"><variable name="x" units="second"/></component><connection><map_components component_1="a" component_2="a"/><map_variables variable_1="x" variable_2="x"/></connection></model>`,
			wantErr: cellml.ErrSelfConnection,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.Parse(context.Background(), []byte(tc.xml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestParse_NotCellML(t *testing.T) {
	_, err := loader.Parse(context.Background(), []byte(`<model xmlns="urn:other" name="m"/>`))
	assert.Error(t, err)

	_, err = loader.Parse(context.Background(), []byte(`<sbml/>`))
	assert.Error(t, err)
}
