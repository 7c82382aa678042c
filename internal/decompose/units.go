package decompose

import (
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// CollectUnits copies every distinct units definition of src into the units
// fragment. Model-level definitions come first, then component-local ones in
// document order; the first definition of a name wins.
func (b *Builder) CollectUnits(src *cellml.Model) error {
	seen := make(map[string]struct{})
	for _, u := range src.AllUnits() {
		if _, ok := seen[u.Name]; ok {
			continue
		}
		seen[u.Name] = struct{}{}
		cp := &cellml.Units{Name: u.Name, Element: cellml.CopyElement(u.Element, b.opts.NamespaceRewrites)}
		if err := b.reject(b.units.Model, fmt.Sprintf("units %q", u.Name), b.units.Model.AddUnits(cp)); err != nil {
			return err
		}
		b.unitNames = append(b.unitNames, u.Name)
	}
	return nil
}

// UnitNames returns the names imported by PropagateUnits.
func (b *Builder) UnitNames() []string {
	return b.unitNames
}

// PropagateUnits gives every fragment that declares a variable one import of
// the units fragment covering all collected names.
func (b *Builder) PropagateUnits() error {
	if len(b.unitNames) == 0 {
		return nil
	}
	targets := append([]*Fragment{b.iface, b.values}, b.components...)
	for _, frag := range targets {
		if !declaresVariables(frag.Model) {
			continue
		}
		imp := &cellml.Import{Href: b.units.File}
		var err error
		for _, name := range b.unitNames {
			if err = imp.AddUnits(cellml.ImportUnits{Name: name, UnitsRef: name}); err != nil {
				break
			}
		}
		if err == nil {
			err = frag.Model.AddImport(imp)
		}
		if err := b.reject(frag.Model, "units import", err); err != nil {
			return err
		}
	}
	return nil
}

func declaresVariables(m *cellml.Model) bool {
	for _, c := range m.Components {
		if len(c.Variables) > 0 {
			return true
		}
	}
	return false
}
