package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Snapshot(t *testing.T) {
	// Arrange
	r := NewRecorder()

	// Act
	r.RoleAssigned("state")
	r.RoleAssigned("alias")
	r.RoleAssigned("alias")
	r.ElementDropped("membrane_model")
	r.ConnectionsMaterialized(6)
	r.FragmentWritten("component")
	r.WriteFailed("units")
	r.ObserveDuration(1500 * time.Millisecond)
	snap, err := r.Snapshot()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap[`cellml_decompose_variables_total{role="state"}`])
	assert.Equal(t, 2.0, snap[`cellml_decompose_variables_total{role="alias"}`])
	assert.Equal(t, 1.0, snap[`cellml_decompose_elements_dropped_total{fragment="membrane_model"}`])
	assert.Equal(t, 6.0, snap["cellml_decompose_connections_total"])
	assert.Equal(t, 1.0, snap[`cellml_decompose_fragments_written_total{kind="component"}`])
	assert.Equal(t, 1.0, snap[`cellml_decompose_fragment_write_failures_total{kind="units"}`])
	assert.Equal(t, 1.5, snap["cellml_decompose_run_duration_seconds"])
}

func TestRecorder_RegistriesArePrivate(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()

	a.ConnectionsMaterialized(3)

	snap, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap["cellml_decompose_connections_total"])
	assert.NotSame(t, a.Registry(), b.Registry())
}
