package tenv

import (
	"sync/atomic"

	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// globalVarID is the process-wide monotonic counter backing FreshVar:
// fresh type variable ids must never collide across modules analyzed
// in the same run, even in parallel.
var globalVarID atomic.Uint64

// FreshVar allocates a new, never-repeating type variable.
func FreshVar() *types.Var {
	return &types.Var{ID: globalVarID.Add(1)}
}

// TypeEnv is a single module's symbol table: a flat bindings map plus a
// pointer to the shared class registry. Unlike the class
// registry, a TypeEnv is never shared between modules — each module
// analysis gets its own, avoiding any need to synchronize symbol writes.
type TypeEnv struct {
	parent  *TypeEnv
	symbols map[string]types.Type
	classes *ClassRegistry
}

// NewTypeEnv creates a root environment backed by the given shared class
// registry.
func NewTypeEnv(classes *ClassRegistry) *TypeEnv {
	return &TypeEnv{symbols: map[string]types.Type{}, classes: classes}
}

// Child creates a nested scope (function body, comprehension clause,
// lambda) that shadows but falls back to its parent.
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{parent: e, symbols: map[string]types.Type{}, classes: e.classes}
}

// Bind introduces or shadows name in the current scope.
func (e *TypeEnv) Bind(name string, t types.Type) {
	e.symbols[name] = t
}

// Lookup resolves name by walking outward through parent scopes.
func (e *TypeEnv) Lookup(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.symbols[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Names returns every symbol visible from this scope, innermost
// shadowing outermost, for "did you mean" candidate generation.
func (e *TypeEnv) Names() []string {
	seen := map[string]bool{}
	var names []string
	for env := e; env != nil; env = env.parent {
		for n := range env.symbols {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// Classes returns the shared class registry backing this environment.
func (e *TypeEnv) Classes() *ClassRegistry {
	return e.classes
}

// HasAttribute resolves attr on t: Class/Nominal consult the
// class registry's MRO; UnionType requires every member to carry attr,
// yielding the union of result types; IntersectionType succeeds on the
// first member that carries it; Effect/Refinement/Dependent delegate to
// their base/inner type; Recursive unfolds one step; Any yields Any;
// Str/Bytes primitives and List/Set/Dict values resolve through their
// builtin class schemas; everything else fails.
func (e *TypeEnv) HasAttribute(t types.Type, attr string) (types.Type, bool) {
	switch v := t.(type) {
	case *types.Class:
		m, ok := e.classes.ResolveMember(v.Name, attr)
		if !ok {
			return nil, false
		}
		return m.Type, true
	case *types.Nominal:
		if m, ok := e.classes.ResolveMember(v.Name, attr); ok {
			return m.Type, true
		}
		return e.HasAttribute(v.Inner, attr)
	case *types.UnionType:
		var results []types.Type
		for _, member := range v.Members {
			mt, ok := e.HasAttribute(member, attr)
			if !ok {
				return nil, false
			}
			results = append(results, mt)
		}
		return types.Union(results), true
	case *types.IntersectionType:
		for _, member := range v.Members {
			if mt, ok := e.HasAttribute(member, attr); ok {
				return mt, true
			}
		}
		return nil, false
	case *types.Effect:
		return e.HasAttribute(v.Inner, attr)
	case *types.Refinement:
		return e.HasAttribute(v.Base, attr)
	case *types.Dependent:
		return e.HasAttribute(v.Base, attr)
	case *types.Recursive:
		return e.HasAttribute(types.Unfold(v), attr)
	case *types.Primitive:
		if v.Kind == types.KindAny {
			return types.Any, true
		}
	}
	// Str/Bytes primitives and the container types a literal actually
	// synthesizes resolve through the same schemas as their Class form.
	if name, ok := builtinClassName(t); ok {
		if m, ok := e.classes.ResolveMember(name, attr); ok {
			return m.Type, true
		}
	}
	return nil, false
}

// builtinClassName maps the concrete types synthesis produces for
// built-in values to the schema name registered for them, so attribute
// lookup on a string or list value reaches the same method table as
// Class("str") / Class("list").
func builtinClassName(t types.Type) (string, bool) {
	switch v := t.(type) {
	case *types.Primitive:
		switch v.Kind {
		case types.KindStr:
			return "str", true
		case types.KindBytes:
			return "bytes", true
		}
	case *types.List:
		return "list", true
	case *types.Set:
		return "set", true
	case *types.Dict:
		return "dict", true
	}
	return "", false
}

// AttributeCandidates returns suggestion candidates for a failed
// HasAttribute lookup, used by the edit-distance suggestion engine in
// internal/diag.
func (e *TypeEnv) AttributeCandidates(t types.Type) []string {
	switch v := t.(type) {
	case *types.Class:
		return e.classes.AllMemberNames(v.Name)
	case *types.Nominal:
		return e.classes.AllMemberNames(v.Name)
	case *types.UnionType:
		seen := map[string]bool{}
		var names []string
		for _, member := range v.Members {
			for _, n := range e.AttributeCandidates(member) {
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
			}
		}
		return names
	case *types.Effect:
		return e.AttributeCandidates(v.Inner)
	case *types.Refinement:
		return e.AttributeCandidates(v.Base)
	case *types.Dependent:
		return e.AttributeCandidates(v.Base)
	}
	if name, ok := builtinClassName(t); ok {
		return e.classes.AllMemberNames(name)
	}
	return nil
}
