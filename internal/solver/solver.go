package solver

import (
	"fmt"

	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// maxIterations bounds the fixpoint loop: constraints still
// pending after the cap are not errors, they become unresolved type
// variables.
const maxIterations = 100

// Solver drains a constraint list to a fixpoint, maintaining a
// substitution (for Equal, via unification) and a variable-bounds map
// (for Subtype(Var,T)).
type Solver struct {
	Sub     *Substitution
	classes *tenv.ClassRegistry
	bounds  map[uint64]types.Type
	errs    []Diagnostic
}

// New creates a Solver backed by the given shared class registry, used
// to resolve HasAttribute constraints.
func New(classes *tenv.ClassRegistry) *Solver {
	return &Solver{
		Sub:     NewSubstitution(),
		classes: classes,
		bounds:  map[uint64]types.Type{},
	}
}

// Bound returns the recorded upper bound for a variable id, if any.
func (s *Solver) Bound(id uint64) (types.Type, bool) {
	t, ok := s.bounds[id]
	return t, ok
}

// Solve runs a fixpoint: repeatedly attempt every
// still-pending constraint; a constraint reporting progress or failure
// is removed from the pending list (failures are recorded), one
// reporting Defer is re-enqueued for the next pass. The loop stops
// early once a full pass makes no progress, or after maxIterations
// passes. It returns the diagnostics for constraints that failed
// outright; constraints still deferred at the end are not errors —
// they stay unresolved type variables.
func (s *Solver) Solve(constraints []Constraint) []Diagnostic {
	pending := append([]Constraint(nil), constraints...)

	for iter := 0; iter < maxIterations && len(pending) > 0; iter++ {
		var next []Constraint
		progressed := false

		for _, c := range pending {
			switch status, diag := s.step(c); status {
			case StatusProgress:
				progressed = true
			case StatusDefer:
				next = append(next, c)
			case StatusFail:
				progressed = true
				s.errs = append(s.errs, diag)
			}
		}

		pending = next
		if !progressed {
			break
		}
	}

	return s.errs
}

func (s *Solver) step(c Constraint) (Status, Diagnostic) {
	switch c.Kind {
	case KindSubtype:
		return s.stepSubtype(c)
	case KindEqual:
		if err := Unify(s.Sub, c.A, c.B); err != nil {
			return StatusFail, Diagnostic{Message: err.Error()}
		}
		return StatusProgress, Diagnostic{}
	case KindHasAttribute:
		return s.stepHasAttribute(c)
	case KindCallable:
		return s.stepCallable(c)
	case KindProtocol:
		return s.stepProtocol(c)
	case KindBounded:
		return s.stepSubtype(Constraint{Kind: KindSubtype, A: c.Var, B: c.B})
	case KindNumeric:
		return s.stepNumeric(c)
	case KindComparable:
		return s.stepComparable(c)
	case KindHashable:
		return s.stepHashable(c)
	default:
		return StatusFail, Diagnostic{Message: "unknown constraint kind"}
	}
}

// stepSubtype implements Subtype(a,b): Var(id) <: T records T as an
// upper bound if absent, else requires the existing bound and T to
// relate (either direction satisfies).
func (s *Solver) stepSubtype(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	b := s.Sub.Apply(c.B)

	if va, ok := a.(*types.Var); ok {
		if existing, ok := s.bounds[va.ID]; ok {
			if types.IsSubtype(existing, b) || types.IsSubtype(b, existing) {
				if types.IsSubtype(existing, b) {
					return StatusProgress, Diagnostic{}
				}
				s.bounds[va.ID] = b
				return StatusProgress, Diagnostic{}
			}
			return StatusFail, Diagnostic{Message: fmt.Sprintf(
				"Var(%d) bound to %s is incompatible with required supertype %s", va.ID, types.Display(existing), types.Display(b))}
		}
		s.bounds[va.ID] = b
		return StatusProgress, Diagnostic{}
	}

	if _, ok := b.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}

	if types.IsSubtype(a, b) {
		return StatusProgress, Diagnostic{}
	}
	return StatusFail, Diagnostic{Message: fmt.Sprintf("%s is not a subtype of %s", types.Display(a), types.Display(b))}
}

func (s *Solver) stepHasAttribute(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	if _, ok := a.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}
	env := tenv.NewTypeEnv(s.classes)
	found, ok := env.HasAttribute(a, c.Attr)
	if !ok {
		return StatusFail, Diagnostic{Message: fmt.Sprintf("%s has no attribute %q", types.Display(a), c.Attr)}
	}
	if c.Result != nil {
		if err := Unify(s.Sub, c.Result, found); err != nil {
			return StatusFail, Diagnostic{Message: err.Error()}
		}
	}
	return StatusProgress, Diagnostic{}
}

// stepCallable requires parameter contravariance and return covariance
// against T's function shape, with exact arity.
func (s *Solver) stepCallable(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	fn, ok := a.(*types.Function)
	if !ok {
		if _, isVar := a.(*types.Var); isVar {
			return StatusDefer, Diagnostic{}
		}
		return StatusFail, Diagnostic{Message: fmt.Sprintf("%s is not callable", types.Display(a))}
	}
	if len(fn.Params) != len(c.Params) {
		return StatusFail, Diagnostic{Message: fmt.Sprintf("expected %d arguments, got %d", len(fn.Params), len(c.Params))}
	}
	for i, want := range c.Params {
		if !types.IsSubtype(want, fn.Params[i]) {
			return StatusFail, Diagnostic{Message: fmt.Sprintf(
				"argument %d of type %s is not assignable to parameter of type %s", i, types.Display(want), types.Display(fn.Params[i]))}
		}
	}
	if c.Ret != nil && !types.IsSubtype(fn.Return, c.Ret) {
		return StatusFail, Diagnostic{Message: fmt.Sprintf(
			"return type %s is not assignable to %s", types.Display(fn.Return), types.Display(c.Ret))}
	}
	return StatusProgress, Diagnostic{}
}

func (s *Solver) stepProtocol(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	if _, ok := a.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}
	env := tenv.NewTypeEnv(s.classes)
	for _, m := range c.Members {
		found, ok := env.HasAttribute(a, m.Name)
		if !ok {
			return StatusFail, Diagnostic{Message: fmt.Sprintf("%s does not satisfy protocol: missing %q", types.Display(a), m.Name)}
		}
		if !types.IsSubtype(found, m.Type) {
			return StatusFail, Diagnostic{Message: fmt.Sprintf("%s.%s has incompatible type", types.Display(a), m.Name)}
		}
	}
	return StatusProgress, Diagnostic{}
}

// stepNumeric succeeds for Int/Float and unions thereof, fails for
// non-numeric ground types, defers on Var.
func (s *Solver) stepNumeric(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	if _, ok := a.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}
	if isNumeric(a) {
		return StatusProgress, Diagnostic{}
	}
	return StatusFail, Diagnostic{Message: fmt.Sprintf("%s is not numeric", types.Display(a))}
}

func isNumeric(t types.Type) bool {
	switch v := t.(type) {
	case *types.Primitive:
		return v.Kind == types.KindInt || v.Kind == types.KindFloat
	case *types.UnionType:
		for _, m := range v.Members {
			if !isNumeric(m) {
				return false
			}
		}
		return len(v.Members) > 0
	default:
		return false
	}
}

func (s *Solver) stepComparable(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	if _, ok := a.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}
	switch a.(type) {
	case *types.Primitive, *types.Tuple:
		return StatusProgress, Diagnostic{}
	default:
		return StatusFail, Diagnostic{Message: fmt.Sprintf("%s is not comparable", types.Display(a))}
	}
}

// stepHashable succeeds for primitives and tuples whose elements are
// all hashable, fails for List/Dict/Set.
func (s *Solver) stepHashable(c Constraint) (Status, Diagnostic) {
	a := s.Sub.Apply(c.A)
	if _, ok := a.(*types.Var); ok {
		return StatusDefer, Diagnostic{}
	}
	if isHashable(a) {
		return StatusProgress, Diagnostic{}
	}
	return StatusFail, Diagnostic{Message: fmt.Sprintf("%s is not hashable", types.Display(a))}
}

func isHashable(t types.Type) bool {
	switch v := t.(type) {
	case *types.Primitive:
		return true
	case *types.Tuple:
		for _, e := range v.Elems {
			if !isHashable(e) {
				return false
			}
		}
		return true
	case *types.List, *types.Dict, *types.Set:
		return false
	default:
		return false
	}
}
