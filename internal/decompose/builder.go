package decompose

import (
	"context"
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/nickerso/cellml-decompose/internal/ledger"
	"github.com/nickerso/cellml-decompose/internal/naming"
)

const (
	parametersComponent    = "parameters"
	initialValuesComponent = "initial_values"
	encapsulation          = "encapsulation"
	fileExt                = ".xml"
)

// FragmentKind identifies the five fragment categories.
type FragmentKind int

const (
	KindVariableValues FragmentKind = iota
	KindUnits
	KindInterface
	KindExperiment
	KindComponent
)

func (k FragmentKind) String() string {
	switch k {
	case KindVariableValues:
		return "variable_values"
	case KindUnits:
		return "units"
	case KindInterface:
		return "interface"
	case KindExperiment:
		return "experiment"
	default:
		return "component"
	}
}

// Fragment is one generated model and the file it will be written to.
type Fragment struct {
	Kind  FragmentKind
	Model *cellml.Model
	File  string
}

// Resolver returns every variable connected to v, v included.
type Resolver interface {
	ConnectedSet(v *cellml.Variable) []*cellml.Variable
}

// Options tune a Builder.
type Options struct {
	ElementErrors     config.Policy
	WriteErrors       config.Policy
	InitialSuffix     string
	Exposure          ExposurePolicy
	NamespaceRewrites map[string]string
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return Options{
		ElementErrors:     config.PolicyContinue,
		WriteErrors:       config.PolicyContinue,
		InitialSuffix:     "_initial",
		Exposure:          ExposeUnlessLocalUnits,
		NamespaceRewrites: cellml.DefaultNamespaceRewrites,
	}
}

// Builder assembles the fragments of one decomposition. It is not safe for
// concurrent use.
type Builder struct {
	ctx      context.Context
	opts     Options
	resolver Resolver
	files    *naming.Set
	names    *naming.NameMap
	links    *ledger.Ledger

	values     *Fragment
	units      *Fragment
	iface      *Fragment
	experiment *Fragment
	components []*Fragment

	parameters    *cellml.Component
	initialValues *cellml.Component
	ifaceComp     *cellml.Component
	encapsulation *cellml.ComponentRef

	// fragment component by source component name
	targets map[string]*cellml.Component

	boundNames              map[*cellml.Variable]string
	experimentParameters    []string
	experimentInitialValues []string
	unitNames               []string

	dropped []*ElementError
}

// NewBuilder creates the four shared fragments for a model named base and
// claims their file names in files.
func NewBuilder(ctx context.Context, base string, resolver Resolver, files *naming.Set, opts Options) (*Builder, error) {
	if opts.Exposure == nil {
		opts.Exposure = ExposeUnlessLocalUnits
	}
	if opts.InitialSuffix == "" {
		opts.InitialSuffix = "_initial"
	}
	b := &Builder{
		ctx:        ctx,
		opts:       opts,
		resolver:   resolver,
		files:      files,
		names:      naming.NewNameMap(),
		links:      ledger.New(),
		targets:    make(map[string]*cellml.Component),
		boundNames: make(map[*cellml.Variable]string),
	}

	b.values = b.newFragment(KindVariableValues, base+"_variable_values_model")
	b.parameters = cellml.NewComponent(parametersComponent)
	b.initialValues = cellml.NewComponent(initialValuesComponent)
	b.units = b.newFragment(KindUnits, base+"_units_model")
	b.iface = b.newFragment(KindInterface, base+"_interface_model")
	b.ifaceComp = cellml.NewComponent(base + "_interface_component")
	b.experiment = b.newFragment(KindExperiment, base+"_experiment_model")

	// The fixed skeleton is built from valid names only; a failure here
	// means base itself is unusable.
	for _, step := range []func() error{
		func() error { return b.values.Model.AddComponent(b.parameters) },
		func() error { return b.values.Model.AddComponent(b.initialValues) },
		func() error { return b.iface.Model.AddComponent(b.ifaceComp) },
		func() error {
			b.encapsulation = &cellml.ComponentRef{Component: b.ifaceComp.Name}
			return b.iface.Model.AddGroup(&cellml.Group{Relationship: encapsulation, Roots: []*cellml.ComponentRef{b.encapsulation}})
		},
		b.importIntoExperiment,
	} {
		if err := step(); err != nil {
			return nil, fmt.Errorf("failed to create shared fragments for %q: %w", base, err)
		}
	}
	b.targets[b.ifaceComp.Name] = b.ifaceComp
	return b, nil
}

func (b *Builder) newFragment(kind FragmentKind, name string) *Fragment {
	return &Fragment{Kind: kind, Model: cellml.NewModel(name), File: b.files.ClaimFile(name, fileExt)}
}

func (b *Builder) importIntoExperiment() error {
	values := &cellml.Import{Href: b.values.File}
	if err := values.AddComponent(cellml.ImportComponent{Name: parametersComponent, ComponentRef: parametersComponent}); err != nil {
		return err
	}
	if err := values.AddComponent(cellml.ImportComponent{Name: initialValuesComponent, ComponentRef: initialValuesComponent}); err != nil {
		return err
	}
	if err := b.experiment.Model.AddImport(values); err != nil {
		return err
	}
	iface := &cellml.Import{Href: b.iface.File}
	if err := iface.AddComponent(cellml.ImportComponent{Name: b.ifaceComp.Name, ComponentRef: b.ifaceComp.Name}); err != nil {
		return err
	}
	return b.experiment.Model.AddImport(iface)
}

// InterfaceComponent returns the name of the interface component.
func (b *Builder) InterfaceComponent() string {
	return b.ifaceComp.Name
}

// Fragments returns every fragment in emission order: the shared fragments
// first, then one per component.
func (b *Builder) Fragments() []*Fragment {
	return append([]*Fragment{b.values, b.units, b.iface, b.experiment}, b.components...)
}

// Dropped returns the elements rejected so far under the continue policy.
func (b *Builder) Dropped() []*ElementError {
	return b.dropped
}

// reject applies the element policy to err. It returns nil when the run may
// go on.
func (b *Builder) reject(fragment *cellml.Model, element string, err error) error {
	if err == nil {
		return nil
	}
	elemErr := &ElementError{Fragment: fragment.Name, Element: element, Err: err}
	if b.opts.ElementErrors == config.PolicyAbort {
		return elemErr
	}
	ctxlog.FromContext(b.ctx).Warn("Dropped element.", "fragment", elemErr.Fragment, "element", elemErr.Element, "error", err)
	b.dropped = append(b.dropped, elemErr)
	return nil
}

func (b *Builder) addVariable(fragment *cellml.Model, c *cellml.Component, v *cellml.Variable) error {
	return b.reject(fragment, fmt.Sprintf("variable %q in component %q", v.Name, c.Name), c.AddVariable(v))
}

func (b *Builder) record(a, x, c, y string) error {
	return b.reject(b.iface.Model, fmt.Sprintf("link %s.%s-%s.%s", a, x, c, y), b.links.Record(a, x, c, y))
}

// ClaimBoundName reserves the interface name of a canonical variable of
// integration before any component is processed, so that every alias can be
// linked to it.
func (b *Builder) ClaimBoundName(v *cellml.Variable) string {
	if name, ok := b.boundNames[v]; ok {
		return name
	}
	name := b.names.Assign(v.Name, v)
	b.boundNames[v] = name
	return name
}

// AddComponent creates the fragment for src: an empty component of the same
// name, deep copies of its math and local units, and its import into the
// interface fragment. The fragment is nil when the component was dropped.
func (b *Builder) AddComponent(src *cellml.Component) (*Fragment, *cellml.Component, error) {
	frag := b.newFragment(KindComponent, src.Name+"_model")
	comp := cellml.NewComponent(src.Name)
	if err := frag.Model.AddComponent(comp); err != nil {
		return nil, nil, b.reject(frag.Model, fmt.Sprintf("component %q", src.Name), err)
	}
	b.components = append(b.components, frag)
	b.targets[src.Name] = comp

	for _, math := range src.Math {
		comp.AddMath(cellml.CopyElement(math, b.opts.NamespaceRewrites))
	}
	for _, u := range src.Units {
		cp := &cellml.Units{Name: u.Name, Element: cellml.CopyElement(u.Element, b.opts.NamespaceRewrites)}
		if err := b.reject(frag.Model, fmt.Sprintf("units %q", u.Name), comp.AddUnits(cp)); err != nil {
			return nil, nil, err
		}
	}

	imp := &cellml.Import{Href: frag.File}
	err := imp.AddComponent(cellml.ImportComponent{Name: src.Name, ComponentRef: src.Name})
	if err == nil {
		err = b.iface.Model.AddImport(imp)
	}
	if err == nil {
		err = b.encapsulation.AddChild(&cellml.ComponentRef{Component: src.Name})
	}
	if err := b.reject(b.iface.Model, fmt.Sprintf("import of component %q", src.Name), err); err != nil {
		return nil, nil, err
	}
	return frag, comp, nil
}

// AddVariable places the fragment counterpart of v into comp according to
// role and registers whatever the role needs in the shared fragments.
func (b *Builder) AddVariable(frag *Fragment, comp *cellml.Component, v *cellml.Variable, role Role) error {
	switch role {
	case RoleVariableOfIntegration:
		if err := b.addVariable(frag.Model, comp, cellml.NewVariable(v.Name, v.Units, cellml.InterfaceIn, cellml.InterfaceOut)); err != nil {
			return err
		}
		return b.addBoundVariable(v)

	case RoleState:
		ivName := v.Name + b.opts.InitialSuffix
		state := cellml.NewVariable(v.Name, v.Units, cellml.InterfaceOut, cellml.InterfaceOut)
		state.SetInitialValue(ivName)
		if err := b.addVariable(frag.Model, comp, state); err != nil {
			return err
		}
		stateName, err := b.addCalculatedVariable(v)
		if err != nil {
			return err
		}
		if err := b.addVariable(frag.Model, comp, cellml.NewVariable(ivName, v.Units, cellml.InterfaceIn, cellml.InterfaceNone)); err != nil {
			return err
		}
		return b.addInitialValueVariable(v, stateName)

	case RoleParameter:
		if err := b.addVariable(frag.Model, comp, cellml.NewVariable(v.Name, v.Units, cellml.InterfaceIn, cellml.InterfaceOut)); err != nil {
			return err
		}
		return b.addParameterVariable(v)

	case RoleCalculated:
		if err := b.addVariable(frag.Model, comp, cellml.NewVariable(v.Name, v.Units, cellml.InterfaceOut, cellml.InterfaceOut)); err != nil {
			return err
		}
		if b.opts.Exposure(v) {
			_, err := b.addCalculatedVariable(v)
			return err
		}
		ctxlog.FromContext(b.ctx).Debug("Calculated variable kept private.", "variable", v.String())
		return b.linkConnectedSet(v)

	default:
		return b.addVariable(frag.Model, comp, cellml.NewVariable(v.Name, v.Units, cellml.InterfaceIn, cellml.InterfaceOut))
	}
}
