// Package testutil holds model fixtures and helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/loader"
	"github.com/stretchr/testify/require"
)

// MembraneModelXML is a small CellML 1.0 model exercising every variable role:
//
//   - environment.time is the variable of integration, membrane.time aliases it
//   - membrane.V is a state variable, leak.V aliases it
//   - membrane.Cm and leak.g_L are parameters
//   - leak.i_ion is calculated and exposed, membrane.i_ion aliases it
//   - membrane.rate is calculated in locally defined units
const MembraneModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<model xmlns="http://www.cellml.org/cellml/1.0#" xmlns:cellml="http://www.cellml.org/cellml/1.0#" name="membrane_demo">
  <units name="millivolt">
    <unit units="volt" prefix="milli"/>
  </units>
  <units name="ms">
    <unit units="second" prefix="milli"/>
  </units>
  <component name="environment">
    <variable name="time" units="ms" public_interface="out"/>
  </component>
  <component name="membrane">
    <units name="per_ms">
      <unit units="ms" exponent="-1"/>
    </units>
    <variable name="V" units="millivolt" initial_value="-75" public_interface="out" private_interface="out"/>
    <variable name="time" units="ms" public_interface="in"/>
    <variable name="i_ion" units="millivolt" private_interface="in"/>
    <variable name="Cm" units="millivolt" initial_value="1"/>
    <variable name="rate" units="per_ms"/>
    <math xmlns="http://www.w3.org/1998/Math/MathML">
      <apply><eq/>
        <apply><diff/><bvar><ci>time</ci></bvar><ci>V</ci></apply>
        <apply><divide/><apply><minus/><ci>i_ion</ci></apply><ci>Cm</ci></apply>
      </apply>
      <apply><eq/>
        <ci>rate</ci>
        <apply><divide/><ci>V</ci><cn cellml:units="ms">1</cn></apply>
      </apply>
    </math>
  </component>
  <component name="leak">
    <variable name="V" units="millivolt" public_interface="in"/>
    <variable name="g_L" units="millivolt" initial_value="0.3"/>
    <variable name="i_ion" units="millivolt" public_interface="out"/>
    <math xmlns="http://www.w3.org/1998/Math/MathML">
      <apply><eq/><ci>i_ion</ci><apply><times/><ci>g_L</ci><ci>V</ci></apply></apply>
    </math>
  </component>
  <group>
    <relationship_ref relationship="encapsulation"/>
    <component_ref component="membrane">
      <component_ref component="leak"/>
    </component_ref>
  </group>
  <connection>
    <map_components component_1="environment" component_2="membrane"/>
    <map_variables variable_1="time" variable_2="time"/>
  </connection>
  <connection>
    <map_components component_1="membrane" component_2="leak"/>
    <map_variables variable_1="V" variable_2="V"/>
    <map_variables variable_1="i_ion" variable_2="i_ion"/>
  </connection>
</model>
`

// LoadModel parses a CellML document held in a string.
func LoadModel(t *testing.T, xml string) *cellml.Model {
	t.Helper()
	m, err := loader.Parse(context.Background(), []byte(xml))
	require.NoError(t, err)
	return m
}

// ParseElement parses an XML fragment and returns its root element.
func ParseElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	require.NotNil(t, doc.Root())
	return doc.Root()
}
