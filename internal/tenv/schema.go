// Package tenv implements the type environment: per-module
// symbol tables, the shared class schema registry, built-in class
// schemas, and attribute resolution over the type algebra in
// internal/types.
package tenv

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// MemberKind enumerates the three member shapes a ClassSchema may carry.
type MemberKind struct {
	Tag    MemberTag
	Type   types.Type
}

// MemberTag distinguishes Method/Property/ClassVar.
type MemberTag uint8

const (
	MemberMethod MemberTag = iota
	MemberProperty
	MemberClassVar
)

// ClassSchema names a class, its ordered base-class list, and its member
// table. Member lookup walks the MRO left-to-right, depth-first.
type ClassSchema struct {
	Name    string
	Bases   []string
	Members map[string]MemberKind
}

// NewClassSchema creates an empty schema for name with the given bases.
func NewClassSchema(name string, bases ...string) *ClassSchema {
	return &ClassSchema{Name: name, Bases: bases, Members: map[string]MemberKind{}}
}

// WithMethod registers a method member and returns the schema for
// chaining.
func (s *ClassSchema) WithMethod(name string, t types.Type) *ClassSchema {
	s.Members[name] = MemberKind{Tag: MemberMethod, Type: t}
	return s
}

// WithProperty registers a property member.
func (s *ClassSchema) WithProperty(name string, t types.Type) *ClassSchema {
	s.Members[name] = MemberKind{Tag: MemberProperty, Type: t}
	return s
}

// WithClassVar registers a class-variable member.
func (s *ClassSchema) WithClassVar(name string, t types.Type) *ClassSchema {
	s.Members[name] = MemberKind{Tag: MemberClassVar, Type: t}
	return s
}

// ClassRegistry is the shared, concurrency-safe class schema table:
// one per project run, read-mostly, insert-if-absent across concurrent
// per-module analyses.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]*ClassSchema
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: map[string]*ClassSchema{}}
}

// RegisterIfAbsent inserts schema under its name unless already present,
// returning the schema that ends up registered (the existing one on a
// race, schema otherwise). Concurrent module analyses sharing one
// registry rely on this insert-if-absent discipline.
func (r *ClassRegistry) RegisterIfAbsent(schema *ClassSchema) *ClassSchema {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[schema.Name]; ok {
		return existing
	}
	r.classes[schema.Name] = schema
	return schema
}

// Lookup returns the schema for name, if registered.
func (r *ClassRegistry) Lookup(name string) (*ClassSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.classes[name]
	return s, ok
}

// MRO returns the method-resolution order for name: name itself, then
// its bases depth-first left-to-right, each base's bases likewise,
// skipping names already visited (so diamond inheritance never repeats
// a class).
func (r *ClassRegistry) MRO(name string) []string {
	visited := map[string]bool{}
	var order []string
	var walk func(string)
	walk = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		order = append(order, n)
		schema, ok := r.Lookup(n)
		if !ok {
			return
		}
		for _, base := range schema.Bases {
			walk(base)
		}
	}
	walk(name)
	return order
}

// ResolveMember looks up attr by walking name's MRO depth-first,
// left-to-right, returning the first match.
func (r *ClassRegistry) ResolveMember(name, attr string) (MemberKind, bool) {
	for _, n := range r.MRO(name) {
		schema, ok := r.Lookup(n)
		if !ok {
			continue
		}
		if m, ok := schema.Members[attr]; ok {
			return m, true
		}
	}
	return MemberKind{}, false
}

// AllMemberNames returns every member name reachable through name's MRO,
// sorted, for "did you mean" suggestion candidates.
func (r *ClassRegistry) AllMemberNames(name string) []string {
	seen := map[string]bool{}
	for _, n := range r.MRO(name) {
		schema, ok := r.Lookup(n)
		if !ok {
			continue
		}
		for m := range schema.Members {
			seen[m] = true
		}
	}
	names := make([]string, 0, len(seen))
	for m := range seen {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}
