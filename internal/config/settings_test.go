package config

import (
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	testCases := []struct {
		in        string
		expected  Policy
		expectErr bool
	}{
		{in: "", expected: PolicyContinue},
		{in: "continue", expected: PolicyContinue},
		{in: "abort", expected: PolicyAbort},
		{in: "ignore", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParsePolicy(tc.in)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, PolicyContinue, s.ElementErrors)
	assert.Equal(t, "_initial", s.InitialSuffix)
	assert.Equal(t, 2, s.Indent)
	assert.Equal(t, cellml.Namespace11, s.NamespaceRewrite[cellml.Namespace10])

	s.NamespaceRewrite["urn:x"] = "urn:y"
	assert.NotContains(t, cellml.DefaultNamespaceRewrites, "urn:x")
}
