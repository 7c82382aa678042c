package cellml

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceDoc = `<model xmlns="http://www.cellml.org/cellml/1.0#" xmlns:cellml="http://www.cellml.org/cellml/1.0#" name="m">
  <component name="c">
    <math xmlns="http://www.w3.org/1998/Math/MathML">
      <apply><eq/><ci>x</ci><cn cellml:units="dimensionless">1</cn></apply>
    </math>
  </component>
</model>`

func TestCopyElement_RedeclaresAndRewritesPrefixes(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(sourceDoc))
	math := doc.Root().SelectElement("component").SelectElement("math")
	require.NotNil(t, math)

	cp := CopyElement(math, DefaultNamespaceRewrites)

	assert.Nil(t, cp.Parent())
	assert.Equal(t, Namespace11, cp.SelectAttrValue("xmlns:cellml", ""))
	assert.Equal(t, MathMLNamespace, NamespaceOf(cp))
	cn := cp.FindElement(".//cn")
	require.NotNil(t, cn)
	assert.Equal(t, Namespace11, LookupNamespace(cn, "cellml"))

	// The source tree is left untouched.
	assert.Equal(t, Namespace10, LookupNamespace(math, "cellml"))
}

func TestCopyElement_LeavesSelfContainedTreesAlone(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<units xmlns="http://www.cellml.org/cellml/1.0#" name="ms"><unit units="second" prefix="milli"/></units>`))

	cp := CopyElement(doc.Root(), DefaultNamespaceRewrites)

	assert.Equal(t, Namespace11, cp.SelectAttrValue("xmlns", ""))
	assert.Len(t, cp.Attr, 2)
}

func TestLookupNamespace_Unbound(t *testing.T) {
	e := etree.NewElement("x")
	assert.Equal(t, "", LookupNamespace(e, "nope"))
	assert.Equal(t, xmlNamespace, LookupNamespace(e, "xml"))
}

func TestCopyElement_InnerDeclarationsScopeToTheirSubtree(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		wantOuter bool
	}{
		{
			name:      "prefix only used under its own declaration",
			body:      `<semantics xmlns:ann="urn:inner"><ann:note/></semantics>`,
			wantOuter: false,
		},
		{
			name:      "sibling uses the ancestor binding",
			body:      `<semantics xmlns:ann="urn:inner"><ann:note/></semantics><ann:tag/>`,
			wantOuter: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			doc := etree.NewDocument()
			src := `<model xmlns="http://www.cellml.org/cellml/1.0#" xmlns:ann="urn:outer" name="m"><component name="c">` +
				`<math xmlns="http://www.w3.org/1998/Math/MathML">` + tc.body + `</math></component></model>`
			require.NoError(t, doc.ReadFromString(src))
			math := doc.Root().SelectElement("component").SelectElement("math")
			require.NotNil(t, math)

			// Act
			cp := CopyElement(math, DefaultNamespaceRewrites)

			// Assert
			if tc.wantOuter {
				assert.Equal(t, "urn:outer", cp.SelectAttrValue("xmlns:ann", ""))
			} else {
				assert.Nil(t, cp.SelectAttr("xmlns:ann"))
			}
			note := cp.FindElement(".//note")
			require.NotNil(t, note)
			assert.Equal(t, "urn:inner", NamespaceOf(note))
		})
	}
}
