package decompose

import (
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/ledger"
)

// MaterializeConnections turns the recorded links into connections of the
// interface fragment and wires the experiment fragment. It returns the
// number of connections created.
func (b *Builder) MaterializeConnections() (int, error) {
	for _, link := range b.links.Retain(b.hasVariable) {
		err := fmt.Errorf("variable %s.%s or %s.%s is missing", link.Components.First, link.Variables.First, link.Components.Second, link.Variables.Second)
		if err := b.reject(b.iface.Model, "connection", err); err != nil {
			return 0, err
		}
	}
	if err := b.links.Materialize(b.iface.Model); err != nil {
		for _, rejected := range unwrapJoined(err) {
			if err := b.reject(b.iface.Model, "connection", rejected); err != nil {
				return 0, err
			}
		}
	}
	n := len(b.iface.Model.Connections)

	for _, c := range []struct {
		component string
		names     []string
	}{
		{parametersComponent, b.experimentParameters},
		{initialValuesComponent, b.experimentInitialValues},
	} {
		if len(c.names) == 0 {
			continue
		}
		experiment := ledger.New()
		for _, name := range c.names {
			if err := experiment.Record(b.ifaceComp.Name, name, c.component, name); err != nil {
				return 0, err
			}
		}
		if err := experiment.Materialize(b.experiment.Model); err != nil {
			for _, rejected := range unwrapJoined(err) {
				if err := b.reject(b.experiment.Model, "connection", rejected); err != nil {
					return 0, err
				}
			}
		}
	}
	return n + len(b.experiment.Model.Connections), nil
}

// hasVariable reports whether the fragment counterpart of component holds a
// variable called name. Components without a fragment are trusted.
func (b *Builder) hasVariable(component, name string) bool {
	c, ok := b.targets[component]
	if !ok {
		return true
	}
	return c.Variable(name) != nil
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// ExperimentParameters returns the interface names wired to parameters.
func (b *Builder) ExperimentParameters() []string {
	return b.experimentParameters
}

// ExperimentInitialValues returns the interface names wired to
// initial_values.
func (b *Builder) ExperimentInitialValues() []string {
	return b.experimentInitialValues
}
