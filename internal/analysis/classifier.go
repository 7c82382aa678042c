// Package analysis finds the state variables and the variable of integration
// of a model by reading the derivatives in its MathML.
package analysis

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
)

// Sets holds the classification result. Members are always source
// variables.
type Sets struct {
	State cellml.VariableSet
	Bound cellml.VariableSet
}

// ClassificationError reports math the classifier cannot interpret.
type ClassificationError struct {
	Component string
	Reason    string
}

func (e *ClassificationError) Error() string {
	if e.Component == "" {
		return "classification failed: " + e.Reason
	}
	return fmt.Sprintf("classification failed in component %q: %s", e.Component, e.Reason)
}

// Classifier inspects every <apply> whose operator is <diff>.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify walks the math of every component of m. Sources must already be
// linked.
func (c *Classifier) Classify(ctx context.Context, m *cellml.Model) (Sets, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting classification pass.", "model", m.Name)

	sets := Sets{State: cellml.NewVariableSet(), Bound: cellml.NewVariableSet()}
	for _, comp := range m.Components {
		for _, math := range comp.Math {
			for _, apply := range math.FindElements(".//apply") {
				if err := classifyApply(comp, apply, sets); err != nil {
					return Sets{}, err
				}
			}
		}
	}
	if len(sets.Bound) > 1 {
		names := make([]string, 0, len(sets.Bound))
		for v := range sets.Bound {
			names = append(names, v.String())
		}
		slices.Sort(names)
		return Sets{}, &ClassificationError{Reason: "more than one variable of integration: " + strings.Join(names, ", ")}
	}

	logger.Debug("Finished classification pass.", "states", len(sets.State), "bound", len(sets.Bound))
	return sets, nil
}

func classifyApply(comp *cellml.Component, apply *etree.Element, sets Sets) error {
	children := apply.ChildElements()
	if len(children) == 0 || children[0].Tag != "diff" {
		return nil
	}

	var bvar, operand *etree.Element
	for _, child := range children[1:] {
		switch {
		case child.Tag == "bvar" && bvar == nil:
			bvar = child
		case child.Tag != "bvar" && operand == nil:
			operand = child
		}
	}
	if bvar == nil {
		return &ClassificationError{Component: comp.Name, Reason: "derivative without <bvar>"}
	}
	bound, err := resolveCI(comp, bvar.SelectElement("ci"))
	if err != nil {
		return err
	}
	state, err := resolveCI(comp, operand)
	if err != nil {
		return err
	}
	sets.Bound.Add(bound.Source())
	sets.State.Add(state.Source())
	return nil
}

func resolveCI(comp *cellml.Component, ci *etree.Element) (*cellml.Variable, error) {
	if ci == nil || ci.Tag != "ci" {
		return nil, &ClassificationError{Component: comp.Name, Reason: "derivative operand is not a <ci>"}
	}
	name := strings.TrimSpace(ci.Text())
	v := comp.Variable(name)
	if v == nil {
		return nil, &ClassificationError{Component: comp.Name, Reason: fmt.Sprintf("unknown variable %q in <ci>", name)}
	}
	return v, nil
}
