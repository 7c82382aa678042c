package decompose

import (
	"context"
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/analysis"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/connectivity"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/nickerso/cellml-decompose/internal/naming"
)

// Phase is a step of a decomposition run.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseClassifyVariables
	PhasePerComponent
	PhaseCollectUnits
	PhasePropagateUnits
	PhaseMaterializeConnections
	PhaseEmit
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseClassifyVariables:
		return "classify_variables"
	case PhasePerComponent:
		return "per_component"
	case PhaseCollectUnits:
		return "collect_units"
	case PhasePropagateUnits:
		return "propagate_units"
	case PhaseMaterializeConnections:
		return "materialize_connections"
	case PhaseEmit:
		return "emit"
	default:
		return "done"
	}
}

// RoleClassifier finds the state variables and the variable of integration.
type RoleClassifier interface {
	Classify(ctx context.Context, m *cellml.Model) (analysis.Sets, error)
}

// Emitter serializes one fragment and stores it under file.
type Emitter interface {
	Emit(ctx context.Context, file string, m *cellml.Model) error
}

// Observer is told about the events a run counts.
type Observer interface {
	RoleAssigned(role string)
	ElementDropped(fragment string)
	ConnectionsMaterialized(n int)
	FragmentWritten(kind string)
	WriteFailed(kind string)
}

type nopObserver struct{}

func (nopObserver) RoleAssigned(string)         {}
func (nopObserver) ElementDropped(string)       {}
func (nopObserver) ConnectionsMaterialized(int) {}
func (nopObserver) FragmentWritten(string)      {}
func (nopObserver) WriteFailed(string)          {}

// Result describes a finished run.
type Result struct {
	Model       string
	Fragments   []*Fragment
	Written     []string
	Roles       map[Role]int
	Connections int
	Dropped     []*ElementError
	Failed      []error
}

// Degraded reports whether elements were dropped or writes failed.
func (r *Result) Degraded() bool {
	return len(r.Dropped) > 0 || len(r.Failed) > 0
}

// Status is "degraded" or "ok".
func (r *Result) Status() string {
	if r.Degraded() {
		return "degraded"
	}
	return "ok"
}

// Driver runs the decomposition passes over one model at a time.
type Driver struct {
	classifier RoleClassifier
	emitter    Emitter
	observer   Observer
	opts       Options
	phase      Phase
}

// NewDriver creates a Driver. A nil observer counts nothing.
func NewDriver(classifier RoleClassifier, emitter Emitter, opts Options, observer Observer) *Driver {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Driver{classifier: classifier, emitter: emitter, observer: observer, opts: opts}
}

// Phase returns the phase the driver is in or stopped in.
func (d *Driver) Phase() Phase {
	return d.phase
}

func (d *Driver) enter(ctx context.Context, p Phase) {
	d.phase = p
	ctxlog.FromContext(ctx).Debug("Entering phase.", "phase", p.String())
}

// Run decomposes m and emits every fragment. Load and classification
// failures, and element or write failures under the abort policy, stop the
// run and return a nil Result.
func (d *Driver) Run(ctx context.Context, m *cellml.Model) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("model", m.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	d.enter(ctx, PhaseInit)
	resolver, err := connectivity.New(m)
	if err != nil {
		return nil, fmt.Errorf("failed to index connections: %w", err)
	}
	b, err := NewBuilder(ctx, m.Name, resolver, naming.NewSet(), d.opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Model: m.Name, Roles: make(map[Role]int)}

	d.enter(ctx, PhaseClassifyVariables)
	sets, err := d.classifier.Classify(ctx, m)
	if err != nil {
		return nil, err
	}
	roles := make(map[*cellml.Variable]Role)
	for _, v := range m.Variables() {
		role := ClassifyRole(v, sets)
		roles[v] = role
		res.Roles[role]++
		d.observer.RoleAssigned(role.String())
		if role == RoleVariableOfIntegration && v.IsCanonical() {
			b.ClaimBoundName(v)
		}
	}

	d.enter(ctx, PhasePerComponent)
	for _, c := range m.Components {
		frag, comp, err := b.AddComponent(c)
		if err != nil {
			return nil, abort(err)
		}
		if frag == nil {
			continue
		}
		for _, v := range c.Variables {
			if err := b.AddVariable(frag, comp, v, roles[v]); err != nil {
				return nil, abort(err)
			}
		}
	}

	d.enter(ctx, PhaseCollectUnits)
	if err := b.CollectUnits(m); err != nil {
		return nil, abort(err)
	}

	d.enter(ctx, PhasePropagateUnits)
	if err := b.PropagateUnits(); err != nil {
		return nil, abort(err)
	}

	d.enter(ctx, PhaseMaterializeConnections)
	n, err := b.MaterializeConnections()
	if err != nil {
		return nil, abort(err)
	}
	res.Connections = n
	d.observer.ConnectionsMaterialized(n)
	res.Dropped = b.Dropped()
	for _, e := range res.Dropped {
		d.observer.ElementDropped(e.Fragment)
	}

	d.enter(ctx, PhaseEmit)
	res.Fragments = b.Fragments()
	for _, frag := range res.Fragments {
		if err := d.emitter.Emit(ctx, frag.File, frag.Model); err != nil {
			if d.opts.WriteErrors == config.PolicyAbort {
				return nil, fmt.Errorf("emission aborted: %w", err)
			}
			logger.Error("Failed to write fragment.", "file", frag.File, "kind", frag.Kind.String(), "error", err)
			res.Failed = append(res.Failed, err)
			d.observer.WriteFailed(frag.Kind.String())
			continue
		}
		res.Written = append(res.Written, frag.File)
		d.observer.FragmentWritten(frag.Kind.String())
	}

	d.enter(ctx, PhaseDone)
	if res.Degraded() {
		logger.Warn("Decomposition degraded.", "dropped", len(res.Dropped), "failed_writes", len(res.Failed))
	}
	return res, nil
}

func abort(err error) error {
	return fmt.Errorf("decomposition aborted: %w", err)
}
