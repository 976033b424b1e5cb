// Package transform implements the Expression Transformer (X),
// Pattern-to-Join Transformer (T), Clause Pipeline (C), UNION Planner (U),
// and Writer Directives (W) of spec §4.3-§4.8, lowering one parsed
// ast.Query into a pkg/cypher/plan tree. This file holds the pieces of X
// that are genuinely cross-cutting: building a single conjoined predicate
// out of several (possibly absent) ones, synthesizing the property-
// containment and label-id-filter expressions the Pattern-to-Join
// Transformer needs, and lowering a ChainCmp once at transform time
// (Design Notes §9).
package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
)

// and conjoins every non-NoExpr predicate in exprs into one maximally
// flattened ast.BoolTree (spec §8 "OR/AND trees ... maximally flattened"),
// reusing any existing BoolTree/AND operands rather than nesting.
func and(arena *ast.Arena, exprs ...ast.ExprID) ast.ExprID {
	var operands []ast.ExprID
	for _, e := range exprs {
		if e == ast.NoExpr {
			continue
		}
		if bt, ok := arena.Expr(e).(*ast.BoolTree); ok && bt.Op == ast.OpAnd {
			operands = append(operands, bt.Operands...)
			continue
		}
		operands = append(operands, e)
	}
	switch len(operands) {
	case 0:
		return ast.NoExpr
	case 1:
		return operands[0]
	default:
		return arena.NewExpr(&ast.BoolTree{Op: ast.OpAnd, Operands: operands})
	}
}

// lowerExpr implements spec §4.1/§8's chain-lowering rule: a ChainCmp
// `a ⊙1 b ⊙2 c` lowers to `(a⊙1 b) AND (b⊙2 c)`, built once here rather
// than when the comparison was first parsed (Design Notes §9). A ChainCmp
// may be nested arbitrarily deep inside a BoolTree/Binary/FuncCall/etc (e.g.
// `a<b AND b≤c<d` nests one inside an AND's operands), so lowerExpr walks
// every expression variant and rebuilds only the ancestors of a ChainCmp it
// actually finds; an expression with no ChainCmp anywhere in it is returned
// as the same ExprID, unchanged.
func lowerExpr(arena *ast.Arena, id ast.ExprID) ast.ExprID {
	if id == ast.NoExpr {
		return id
	}
	switch e := arena.Expr(id).(type) {
	case *ast.Literal, *ast.Parameter, *ast.Variable, *ast.WildcardStar, *ast.PathVar:
		return id
	case *ast.Binary:
		left, right := lowerExpr(arena, e.Left), lowerExpr(arena, e.Right)
		if left == e.Left && right == e.Right {
			return id
		}
		return arena.NewExpr(&ast.Binary{Op: e.Op, Left: left, Right: right})
	case *ast.Not:
		operand := lowerExpr(arena, e.Operand)
		if operand == e.Operand {
			return id
		}
		return arena.NewExpr(&ast.Not{Operand: operand})
	case *ast.ChainCmp:
		terms := make([]ast.ExprID, len(e.Terms))
		for i, t := range e.Terms {
			terms[i] = lowerExpr(arena, t)
		}
		parts := make([]ast.ExprID, len(e.Ops))
		for i, op := range e.Ops {
			parts[i] = arena.NewExpr(&ast.Binary{Op: op, Left: terms[i], Right: terms[i+1]})
		}
		return and(arena, parts...)
	case *ast.BoolTree:
		operands := make([]ast.ExprID, len(e.Operands))
		changed := false
		for i, o := range e.Operands {
			operands[i] = lowerExpr(arena, o)
			if operands[i] != o {
				changed = true
			}
		}
		if !changed {
			return id
		}
		if e.Op == ast.OpAnd {
			return and(arena, operands...)
		}
		return arena.NewExpr(&ast.BoolTree{Op: e.Op, Operands: operands})
	case *ast.IsNull:
		operand := lowerExpr(arena, e.Operand)
		if operand == e.Operand {
			return id
		}
		return arena.NewExpr(&ast.IsNull{Operand: operand, Negated: e.Negated})
	case *ast.PropertyAccess:
		target := lowerExpr(arena, e.Target)
		if target == e.Target {
			return id
		}
		return arena.NewExpr(&ast.PropertyAccess{Target: target, Key: e.Key})
	case *ast.Subscript:
		target, index := lowerExpr(arena, e.Target), lowerExpr(arena, e.Index)
		if target == e.Target && index == e.Index {
			return id
		}
		return arena.NewExpr(&ast.Subscript{Target: target, Index: index})
	case *ast.Slice:
		target, lo, hi := lowerExpr(arena, e.Target), lowerExpr(arena, e.Lo), lowerExpr(arena, e.Hi)
		if target == e.Target && lo == e.Lo && hi == e.Hi {
			return id
		}
		return arena.NewExpr(&ast.Slice{Target: target, Lo: lo, Hi: hi})
	case *ast.TypeCast:
		operand := lowerExpr(arena, e.Operand)
		if operand == e.Operand {
			return id
		}
		return arena.NewExpr(&ast.TypeCast{Operand: operand, Target: e.Target})
	case *ast.CaseExpr:
		operand := lowerExpr(arena, e.Operand)
		whens := make([]ast.ExprID, len(e.Whens))
		changed := operand != e.Operand
		for i, w := range e.Whens {
			whens[i] = lowerExpr(arena, w)
			if whens[i] != w {
				changed = true
			}
		}
		thens := make([]ast.ExprID, len(e.Thens))
		for i, t := range e.Thens {
			thens[i] = lowerExpr(arena, t)
			if thens[i] != t {
				changed = true
			}
		}
		els := lowerExpr(arena, e.Else)
		if els != e.Else {
			changed = true
		}
		if !changed {
			return id
		}
		return arena.NewExpr(&ast.CaseExpr{Operand: operand, Whens: whens, Thens: thens, Else: els})
	case *ast.ListLiteral:
		items := make([]ast.ExprID, len(e.Items))
		changed := false
		for i, it := range e.Items {
			items[i] = lowerExpr(arena, it)
			if items[i] != it {
				changed = true
			}
		}
		if !changed {
			return id
		}
		return arena.NewExpr(&ast.ListLiteral{Items: items})
	case *ast.MapLiteral:
		values := make([]ast.ExprID, len(e.Values))
		changed := false
		for i, v := range e.Values {
			values[i] = lowerExpr(arena, v)
			if values[i] != v {
				changed = true
			}
		}
		if !changed {
			return id
		}
		return arena.NewExpr(&ast.MapLiteral{Keys: e.Keys, Values: values})
	case *ast.FuncCall:
		args := make([]ast.ExprID, len(e.Args))
		changed := false
		for i, a := range e.Args {
			args[i] = lowerExpr(arena, a)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return id
		}
		return arena.NewExpr(&ast.FuncCall{Name: e.Name, Args: args, Distinct: e.Distinct})
	case *ast.ExistsPattern:
		where := lowerExpr(arena, e.Where)
		if where == e.Where {
			return id
		}
		return arena.NewExpr(&ast.ExistsPattern{Pattern: e.Pattern, Where: where})
	default:
		return id
	}
}

// propertiesOf builds the `entity.properties` column reference used by
// both property-containment predicates and writer-directive property
// constructors (spec §4.4.4).
func propertiesOf(arena *ast.Arena, entityName string) ast.ExprID {
	v := arena.NewExpr(&ast.Variable{Name: entityName})
	return arena.NewExpr(&ast.PropertyAccess{Target: v, Key: "properties"})
}

// idOf builds the `entity.id` column reference used by join predicates,
// the label-id filter, and edge-uniqueness (spec §4.4.2/§4.4.3/§4.4.5).
func idOf(arena *ast.Arena, entityName string) ast.ExprID {
	v := arena.NewExpr(&ast.Variable{Name: entityName})
	return arena.NewExpr(&ast.PropertyAccess{Target: v, Key: "id"})
}

// containmentPredicate builds `entity.properties ⊇ props` as a call to a
// single `contains` routine over the variant algebra, per Design Notes §9
// ("Property containment ... a single contains(a,b) routine ... rather
// than per-type branches") rather than as its own AST node kind.
func containmentPredicate(arena *ast.Arena, entityName string, props ast.ExprID) ast.ExprID {
	if props == ast.NoExpr {
		return ast.NoExpr
	}
	return arena.NewExpr(&ast.FuncCall{Name: "contains", Args: []ast.ExprID{propertiesOf(arena, entityName), props}})
}

// labelIDFilter builds `extract_label_id(x.id) = label_id(L)`, the scalar
// label filter transformOnePath adds for every labeled node and edge that
// has a range-table entry in the join tree.
func labelIDFilter(arena *ast.Arena, entityName, label string) ast.ExprID {
	extracted := arena.NewExpr(&ast.FuncCall{Name: "extract_label_id", Args: []ast.ExprID{idOf(arena, entityName)}})
	wanted := arena.NewExpr(&ast.FuncCall{Name: "label_id", Args: []ast.ExprID{
		arena.NewExpr(&ast.Literal{Kind: ast.LitString, Str: label}),
	}})
	return arena.NewExpr(&ast.Binary{Op: ast.OpEq, Left: extracted, Right: wanted})
}

// edgeUniqueness builds `enforce_edge_uniqueness(e0.id, e1.id, ...)` over
// every edge name in the pattern (spec §4.4.5); a VLE-edge name is passed
// through as a bare Variable reference since its handle already denotes
// the full set of edge ids the engine walked.
func edgeUniqueness(arena *ast.Arena, edgeNames []string, vleNames []string) ast.ExprID {
	if len(edgeNames)+len(vleNames) < 2 {
		return ast.NoExpr
	}
	var args []ast.ExprID
	for _, n := range edgeNames {
		args = append(args, idOf(arena, n))
	}
	for _, n := range vleNames {
		args = append(args, arena.NewExpr(&ast.Variable{Name: n}))
	}
	return arena.NewExpr(&ast.FuncCall{Name: "enforce_edge_uniqueness", Args: args})
}

// buildTraversal builds `build_traversal(n0, e0, n1, ...)` for a path
// carrying a var_name (spec §4.4.6).
func buildTraversal(arena *ast.Arena, names []string) ast.ExprID {
	args := make([]ast.ExprID, len(names))
	for i, n := range names {
		args[i] = arena.NewExpr(&ast.Variable{Name: n})
	}
	return arena.NewExpr(&ast.FuncCall{Name: "build_traversal", Args: args})
}
