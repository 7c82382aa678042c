package decompose

import (
	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// addBoundVariable links an occurrence of the variable of integration to the
// interface. Only the canonical occurrence adds the interface variable.
func (b *Builder) addBoundVariable(v *cellml.Variable) error {
	src := v.Source()
	name := b.ClaimBoundName(src)
	if v == src {
		iv := cellml.NewVariable(name, src.Units, cellml.InterfaceNone, cellml.InterfaceOut)
		if err := b.addVariable(b.iface.Model, b.ifaceComp, iv); err != nil {
			return err
		}
	}
	return b.record(b.ifaceComp.Name, name, v.ComponentName(), v.Name)
}

// addParameterVariable moves the value of v into the parameters component
// and feeds it through the interface to every variable connected to v.
func (b *Builder) addParameterVariable(v *cellml.Variable) error {
	name := b.names.Assign(v.Name, v)

	pv := cellml.NewVariable(name, v.Units, cellml.InterfaceOut, cellml.InterfaceOut)
	pv.SetInitialValue(v.InitialValue)
	if err := b.addVariable(b.values.Model, b.parameters, pv); err != nil {
		return err
	}
	if err := b.addVariable(b.iface.Model, b.ifaceComp, cellml.NewVariable(name, v.Units, cellml.InterfaceIn, cellml.InterfaceOut)); err != nil {
		return err
	}
	for _, cv := range b.resolver.ConnectedSet(v) {
		if err := b.record(b.ifaceComp.Name, name, cv.ComponentName(), cv.Name); err != nil {
			return err
		}
	}
	b.experimentParameters = append(b.experimentParameters, name)
	return nil
}

// addInitialValueVariable moves the initial value of the state v into the
// initial_values component and feeds it to the component's shadow variable.
// stateName is the interface name already given to v itself.
func (b *Builder) addInitialValueVariable(v *cellml.Variable, stateName string) error {
	shadow := v.Name + b.opts.InitialSuffix
	name := b.names.Assign(shadow, v)

	iv := cellml.NewVariable(name, v.Units, cellml.InterfaceOut, cellml.InterfaceOut)
	iv.SetInitialValue(v.InitialValue)
	if err := b.addVariable(b.values.Model, b.initialValues, iv); err != nil {
		return err
	}
	if err := b.addVariable(b.iface.Model, b.ifaceComp, cellml.NewVariable(name, v.Units, cellml.InterfaceIn, cellml.InterfaceOut)); err != nil {
		return err
	}

	comp := v.ComponentName()
	if err := b.record(b.ifaceComp.Name, stateName, comp, v.Name); err != nil {
		return err
	}
	if err := b.record(b.ifaceComp.Name, name, comp, shadow); err != nil {
		return err
	}
	if err := b.linkConnectedSet(v); err != nil {
		return err
	}
	b.experimentInitialValues = append(b.experimentInitialValues, name)
	return nil
}

// addCalculatedVariable exposes v on the interface and returns the interface
// name it was given.
func (b *Builder) addCalculatedVariable(v *cellml.Variable) (string, error) {
	name := b.names.Assign(v.Name, v)
	if err := b.addVariable(b.iface.Model, b.ifaceComp, cellml.NewVariable(name, v.Units, cellml.InterfaceOut, cellml.InterfaceIn)); err != nil {
		return name, err
	}
	if err := b.record(b.ifaceComp.Name, name, v.ComponentName(), v.Name); err != nil {
		return name, err
	}
	return name, b.linkConnectedSet(v)
}

// linkConnectedSet links the source v directly to every other variable that
// takes its value.
func (b *Builder) linkConnectedSet(v *cellml.Variable) error {
	for _, cv := range b.resolver.ConnectedSet(v) {
		if cv == v {
			continue
		}
		if err := b.record(v.ComponentName(), v.Name, cv.ComponentName(), cv.Name); err != nil {
			return err
		}
	}
	return nil
}
