// Package binder implements the Name-Resolver (spec §4.2): a per-query
// ordered table of bindings (vertex, edge, VLE-edge, scalar), declared as
// patterns and clauses are transformed and looked up wherever a later
// clause references an earlier variable.
package binder

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
)

// Kind is the binding's entity class (spec §3 "Binding{name, kind ...}").
type Kind int

const (
	KindVertex Kind = iota
	KindEdge
	KindVleEdge
	KindScalar
)

// Binding is one named entity visible in the current scope.
type Binding struct {
	Name                    string
	Kind                    Kind
	DeclaredInCurrentClause bool
	Expr                    ast.ExprID
}

// Binder holds the single flat binding table that accumulates across a
// query's clause chain (spec §4.2). Cypher bindings persist across clause
// boundaries by design, so one flat table with a per-clause "declared
// here" flag plays the role of the Design Notes' §9 "stack of scopes
// flattened into the parent at advance()" without needing a literal stack
// of maps.
type Binder struct {
	order    []string
	bindings map[string]*Binding
	arena    *ast.Arena
}

// New creates a Binder over arena, used to name anonymous entities.
func New(arena *ast.Arena) *Binder {
	return &Binder{bindings: map[string]*Binding{}, arena: arena}
}

// Declare inserts name with kind, or validates a reference to an
// already-bound name. fromCreate marks a declaration made by a CREATE
// pattern, which is forbidden from redeclaring a prior-clause variable
// under a different kind (spec §4.2).
func (b *Binder) Declare(name string, kind Kind, expr ast.ExprID, fromCreate bool) (*Binding, error) {
	if existing, ok := b.bindings[name]; ok {
		if existing.DeclaredInCurrentClause && existing.Kind != kind {
			return nil, cyphererr.ErrDuplicateBinding.New(name)
		}
		if fromCreate && !existing.DeclaredInCurrentClause && existing.Kind != kind {
			return nil, cyphererr.ErrDuplicateBinding.New(name)
		}
		existing.DeclaredInCurrentClause = true
		if expr != ast.NoExpr {
			existing.Expr = expr
		}
		return existing, nil
	}
	bd := &Binding{Name: name, Kind: kind, DeclaredInCurrentClause: true, Expr: expr}
	b.bindings[name] = bd
	b.order = append(b.order, name)
	return bd, nil
}

// Lookup resolves name to its binding, or ErrUnknownVariable if absent
// (spec §4.2).
func (b *Binder) Lookup(name string) (*Binding, error) {
	bd, ok := b.bindings[name]
	if !ok {
		return nil, cyphererr.ErrUnknownVariable.New(name)
	}
	return bd, nil
}

// Has reports whether name is currently bound, without erroring.
func (b *Binder) Has(name string) bool {
	_, ok := b.bindings[name]
	return ok
}

// Advance clears every binding's "declared in current clause" flag at a
// clause boundary (spec §4.2 "advance()").
func (b *Binder) Advance() {
	for _, name := range b.order {
		b.bindings[name].DeclaredInCurrentClause = false
	}
}

// KeepOnly drops every binding not named in keep, implementing the
// re-scoping a WITH clause performs (spec §4.2: only the projected items
// remain visible to clauses after WITH). Kept bindings are marked declared
// in the current clause, the same as a fresh Declare.
func (b *Binder) KeepOnly(keep []string) {
	want := make(map[string]bool, len(keep))
	for _, name := range keep {
		want[name] = true
	}
	order := make([]string, 0, len(keep))
	for _, name := range b.order {
		if !want[name] {
			delete(b.bindings, name)
			continue
		}
		b.bindings[name].DeclaredInCurrentClause = true
		order = append(order, name)
	}
	b.order = order
}

// All returns every binding in insertion order (first-bound wins lookup
// order per spec §4.2).
func (b *Binder) All() []*Binding {
	out := make([]*Binding, len(b.order))
	for i, name := range b.order {
		out[i] = b.bindings[name]
	}
	return out
}

// NameNode assigns node an anonymous name if it has none, and declares it
// as a vertex binding.
func (b *Binder) NameNode(node *ast.NodePattern, fromCreate bool) (*Binding, error) {
	if node.Name == "" {
		node.Name = b.arena.NextAnonName()
	}
	return b.Declare(node.Name, KindVertex, ast.NoExpr, fromCreate)
}

// NameRel assigns rel an anonymous name if it has none, and declares it as
// an edge or VLE-edge binding depending on whether it carries a VarLen
// quantifier.
func (b *Binder) NameRel(rel *ast.RelPattern, fromCreate bool) (*Binding, error) {
	if rel.Name == "" {
		rel.Name = b.arena.NextAnonName()
	}
	kind := KindEdge
	if rel.VarLen != nil {
		kind = KindVleEdge
	}
	return b.Declare(rel.Name, kind, ast.NoExpr, fromCreate)
}
