package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// Writer Directives (W, spec §4.8). CREATE/SET/REMOVE/DELETE/MERGE each
// lower to an opaque directive value wrapped in a plan.WriterCall; the
// host executor interprets the directive against its own storage, the
// front-end's job ends at describing the intent precisely. Directive
// shapes mirror the clause AST rather than inventing a second vocabulary.

// CreateVertexDirective creates one labeled, propertied vertex.
type CreateVertexDirective struct {
	Alias string
	Label string
	Props ast.ExprID
}

// CreateEdgeDirective creates one directed, labeled edge between two
// already-bound (or co-created) endpoints.
type CreateEdgeDirective struct {
	Alias           string
	Label           string
	Props           ast.ExprID
	StartAlias, EndAlias string
	Direction       ast.Direction
}

// CreateDirective is one CREATE clause's full set of vertex/edge creations,
// in pattern order (spec §4.8: "CREATE never matches; every pattern
// element not already bound is a new entity").
type CreateDirective struct {
	Vertices []CreateVertexDirective
	Edges    []CreateEdgeDirective
}

// SetPropertyDirective is `variable.property (= | +=) expr`.
type SetPropertyDirective struct {
	Alias    string
	Property string
	Value    ast.ExprID
	Append   bool
}

// SetLabelDirective is `variable:Label`.
type SetLabelDirective struct {
	Alias string
	Label string
}

// SetDirective is one SET (or, with IsRemove, REMOVE) clause.
type SetDirective struct {
	Properties []SetPropertyDirective
	Labels     []SetLabelDirective
	IsRemove   bool
}

// DeleteDirective is one `[DETACH] DELETE` clause.
type DeleteDirective struct {
	Detach  bool
	Aliases []string
}

// MergeDirective is one MERGE clause: the pattern to match-or-create plus
// the ON CREATE/ON MATCH SET directives to apply in each case.
type MergeDirective struct {
	Pattern     ast.Path
	OnCreateSet *SetDirective
	OnMatchSet  *SetDirective
}

// transformCreate implements spec §4.8's CREATE rule: every node not
// already bound is a new vertex (never matched); a node naming an
// already-bound variable only serves as an edge endpoint and may not carry
// a label or properties (ErrCreateRebind); and every relationship must be directed and
// labeled (ErrDirectedEdgeRequired / ErrMissingEdgeLabel), and may not take
// an entire property map from a bare parameter (ErrParamPropertyInCreate).
func transformCreate(arena *ast.Arena, b *binder.Binder, c *ast.Create) (*plan.WriterCall, error) {
	var directive CreateDirective
	for _, path := range c.Patterns {
		for i := range path.Nodes {
			n := &path.Nodes[i]
			bound := n.Name != "" && b.Has(n.Name)
			if bound && (n.Label != "" || n.Props != ast.NoExpr) {
				return nil, cyphererr.ErrCreateRebind.New(n.Name)
			}
			if err := checkCreateProps(n.Props, arena); err != nil {
				return nil, err
			}
			if _, err := b.NameNode(n, true); err != nil {
				return nil, err
			}
			if !bound {
				directive.Vertices = append(directive.Vertices, CreateVertexDirective{Alias: n.Name, Label: n.Label, Props: n.Props})
			}
		}
		for i := range path.Rels {
			r := &path.Rels[i]
			if r.Direction == ast.DirEither {
				return nil, cyphererr.ErrDirectedEdgeRequired.New()
			}
			if r.Label == "" {
				return nil, cyphererr.ErrMissingEdgeLabel.New()
			}
			if r.Name != "" && b.Has(r.Name) {
				return nil, cyphererr.ErrCreateRebind.New(r.Name)
			}
			if err := checkCreateProps(r.Props, arena); err != nil {
				return nil, err
			}
			if _, err := b.NameRel(r, true); err != nil {
				return nil, err
			}
			directive.Edges = append(directive.Edges, CreateEdgeDirective{
				Alias: r.Name, Label: r.Label, Props: r.Props,
				StartAlias: path.Nodes[i].Name, EndAlias: path.Nodes[i+1].Name,
				Direction: r.Direction,
			})
		}
	}
	return &plan.WriterCall{FuncName: "_create_clause", Directive: &directive}, nil
}

// checkCreateProps rejects a bare parameter standing in for an entire
// property map (spec §4.8 "CREATE cannot take a parameter as an entire
// property map" — a parameter nested inside a MapLiteral value is fine).
func checkCreateProps(props ast.ExprID, arena *ast.Arena) error {
	if props == ast.NoExpr {
		return nil
	}
	if _, ok := arena.Expr(props).(*ast.Parameter); ok {
		return cyphererr.ErrParamPropertyInCreate.New()
	}
	return nil
}

// transformSet implements SET/REMOVE (spec §4.8): every target must take
// the `variable.property` or `variable:Label` form.
func transformSet(arena *ast.Arena, b *binder.Binder, s *ast.Set) (*SetDirective, error) {
	d := &SetDirective{IsRemove: s.IsRemove}
	for _, item := range s.Items {
		if !b.Has(item.Variable) {
			return nil, cyphererr.ErrBadSetTarget.New(item.Variable)
		}
		if item.IsLabel {
			d.Labels = append(d.Labels, SetLabelDirective{Alias: item.Variable, Label: item.Label})
			continue
		}
		if item.Property == "" {
			return nil, cyphererr.ErrBadSetTarget.New(item.Variable)
		}
		d.Properties = append(d.Properties, SetPropertyDirective{
			Alias: item.Variable, Property: item.Property, Value: item.Value, Append: item.Append,
		})
	}
	return d, nil
}

// transformSetClause wraps transformSet in a plan.WriterCall for a
// top-level SET/REMOVE clause (as opposed to a MERGE's ON CREATE/ON MATCH
// SET, which stays embedded in MergeDirective). SET and REMOVE both use
// `_set_clause`; the directive's IsRemove flag tells them apart.
func transformSetClause(arena *ast.Arena, b *binder.Binder, s *ast.Set) (*plan.WriterCall, error) {
	d, err := transformSet(arena, b, s)
	if err != nil {
		return nil, err
	}
	return &plan.WriterCall{FuncName: "_set_clause", Directive: d}, nil
}

// transformDelete implements DELETE (spec §4.8): every deleted expression
// must be a bare variable already bound by an earlier clause
// (ErrDeleteBeforeBinding).
func transformDelete(arena *ast.Arena, b *binder.Binder, del *ast.Delete) (*plan.WriterCall, error) {
	d := &DeleteDirective{Detach: del.Detach}
	for _, id := range del.Exprs {
		v, ok := arena.Expr(id).(*ast.Variable)
		if !ok || !b.Has(v.Name) {
			name := ""
			if ok {
				name = v.Name
			}
			return nil, cyphererr.ErrDeleteBeforeBinding.New(name)
		}
		d.Aliases = append(d.Aliases, v.Name)
	}
	return &plan.WriterCall{FuncName: "_delete_clause", Directive: d}, nil
}

// transformMerge implements MERGE (spec §4.8): the pattern is matched if
// possible, else created; a relationship already bound by an earlier
// clause cannot be re-declared by MERGE (ErrEdgeReusedInMerge).
func transformMerge(arena *ast.Arena, b *binder.Binder, m *ast.Merge) (*plan.WriterCall, error) {
	for i := range m.Path.Rels {
		r := &m.Path.Rels[i]
		if r.Name != "" && b.Has(r.Name) {
			return nil, cyphererr.ErrEdgeReusedInMerge.New(r.Name)
		}
	}
	for i := range m.Path.Nodes {
		if _, err := b.NameNode(&m.Path.Nodes[i], false); err != nil {
			return nil, err
		}
	}
	for i := range m.Path.Rels {
		if _, err := b.NameRel(&m.Path.Rels[i], false); err != nil {
			return nil, err
		}
	}

	d := &MergeDirective{Pattern: m.Path}
	if len(m.OnCreateSet) > 0 {
		sd, err := transformSet(arena, b, &ast.Set{Items: m.OnCreateSet})
		if err != nil {
			return nil, err
		}
		d.OnCreateSet = sd
	}
	if len(m.OnMatchSet) > 0 {
		sd, err := transformSet(arena, b, &ast.Set{Items: m.OnMatchSet})
		if err != nil {
			return nil, err
		}
		d.OnMatchSet = sd
	}
	return &plan.WriterCall{FuncName: "_merge_clause", Directive: d}, nil
}
