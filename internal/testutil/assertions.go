package testutil

import (
	"strings"
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/stretchr/testify/require"
)

// RequireVariable fetches component.variable from m, failing the test when
// either is missing.
func RequireVariable(t *testing.T, m *cellml.Model, component, variable string) *cellml.Variable {
	t.Helper()
	c := m.Component(component)
	require.NotNil(t, c, "component %q not found in model %q", component, m.Name)
	v := c.Variable(variable)
	require.NotNil(t, v, "variable %q not found in component %q", variable, component)
	return v
}

// AssertLogged checks that a log line contains every given fragment.
func AssertLogged(t *testing.T, logs string, fragments ...string) {
	t.Helper()
	for _, line := range strings.Split(logs, "\n") {
		matched := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	require.Failf(t, "log line not found", "no line contains all of %q in:\n%s", fragments, logs)
}
