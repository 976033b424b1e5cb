package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// chainCtx carries the state threaded through one clause chain walk: the
// arena/catalog/graph every clause needs, the binder (mutated clause by
// clause), and the accumulated EXISTS-subquery registry every predicate
// expression may contribute to (spec §4.3).
type chainCtx struct {
	arena     *ast.Arena
	cat       *catalog.Catalog
	graphName string
	b         *binder.Binder
	exists    map[ast.ExprID]*plan.Exists
}

func newChainCtx(arena *ast.Arena, cat *catalog.Catalog, graphName string, b *binder.Binder) *chainCtx {
	return &chainCtx{arena: arena, cat: cat, graphName: graphName, b: b, exists: map[ast.ExprID]*plan.Exists{}}
}

// lower rewrites id with lowerExpr (spec §4.1/§8's chain-comparison
// lowering) and then registers any EXISTS subquery the lowered tree
// contains (spec §4.3), returning the ExprID callers must use in place of
// id from here on.
func (cx *chainCtx) lower(id ast.ExprID) (ast.ExprID, error) {
	id = lowerExpr(cx.arena, id)
	if err := collectExists(cx.arena, cx.cat, cx.graphName, cx.b, id, cx.exists); err != nil {
		return ast.NoExpr, err
	}
	return id, nil
}

// transformChain implements the Clause Pipeline (C, spec §4.5): it walks
// one clause chain from head, building up a nested plan tree one clause at
// a time: MATCH cross-joins its pattern onto the plan so far under one
// Filter, OPTIONAL MATCH uses a lateral left join, WITH/RETURN wrap the
// plan in a Projection, and each writer clause, MERGE included, wraps it in
// a WriterCall. MERGE builds no join of its own.
func transformChain(cx *chainCtx, head ast.ClauseID) (plan.Node, error) {
	var node plan.Node
	for id := head; id != ast.NoClause; id = cx.arena.NextOf(id) {
		var err error
		node, err = transformOneClause(cx, node, cx.arena.Clause(id))
		if err != nil {
			return nil, err
		}
		cx.b.Advance()
	}
	return node, nil
}

func transformOneClause(cx *chainCtx, node plan.Node, c ast.Clause) (plan.Node, error) {
	switch cl := c.(type) {
	case *ast.Match:
		return transformMatchClause(cx, node, cl)
	case *ast.Create:
		wc, err := transformCreate(cx.arena, cx.b, cl)
		if err != nil {
			return nil, err
		}
		wc.Input = node
		return wc, nil
	case *ast.Merge:
		wc, err := transformMerge(cx.arena, cx.b, cl)
		if err != nil {
			return nil, err
		}
		wc.Input = node
		return wc, nil
	case *ast.Set:
		wc, err := transformSetClause(cx.arena, cx.b, cl)
		if err != nil {
			return nil, err
		}
		wc.Input = node
		return wc, nil
	case *ast.Delete:
		for _, id := range cl.Exprs {
			if _, err := cx.lower(id); err != nil {
				return nil, err
			}
		}
		wc, err := transformDelete(cx.arena, cx.b, cl)
		if err != nil {
			return nil, err
		}
		wc.Input = node
		return wc, nil
	case *ast.Unwind:
		expr, err := cx.lower(cl.Expr)
		if err != nil {
			return nil, err
		}
		if _, err := cx.b.Declare(cl.As, binder.KindScalar, ast.NoExpr, false); err != nil {
			return nil, err
		}
		return &plan.Unwind{Input: node, Expr: expr, As: cl.As}, nil
	case *ast.With:
		return transformWith(cx, node, cl)
	case *ast.Return:
		return transformReturn(cx, node, cl)
	case *ast.SubPattern:
		pr, err := transformPatterns(cx.arena, cx.cat, cx.graphName, cx.b, []ast.Path{cl.Pattern}, false)
		if err != nil {
			return nil, err
		}
		where, err := cx.lower(cl.Where)
		if err != nil {
			return nil, err
		}
		joined := crossJoin(node, pr.Node)
		return &plan.Filter{Input: joined, Predicate: and(cx.arena, pr.Predicate, where)}, nil
	case *ast.CallYield:
		return nil, cyphererr.ErrCallProcedures.New()
	default:
		return node, nil
	}
}

func transformMatchClause(cx *chainCtx, node plan.Node, m *ast.Match) (plan.Node, error) {
	pr, err := transformPatterns(cx.arena, cx.cat, cx.graphName, cx.b, m.Patterns, false)
	if err != nil {
		return nil, err
	}
	where, err := cx.lower(m.Where)
	if err != nil {
		return nil, err
	}
	pred := and(cx.arena, pr.Predicate, where)
	if m.Optional {
		return &plan.Join{Left: node, Right: pr.Node, On: pred, Kind: plan.JoinLateralLeft}, nil
	}
	joined := crossJoin(node, pr.Node)
	if pred == ast.NoExpr {
		return joined, nil
	}
	return &plan.Filter{Input: joined, Predicate: pred}, nil
}

// projectionItems lowers a WITH/RETURN item list, expanding `*` into one
// item per currently bound name (SPEC_FULL Open Question (b)). requireAlias
// is true for WITH only (spec §4.5: "every non-variable expression must
// carry an alias — otherwise MissingAlias"); RETURN has no such
// requirement and instead synthesizes a default alias from the item's own
// source text, same as openCypher's `RETURN a.k` producing a column
// literally named `a.k`.
func projectionItems(cx *chainCtx, star bool, items []ast.ReturnItem, requireAlias bool) ([]plan.ProjectItem, []string, error) {
	if star {
		all := cx.b.All()
		out := make([]plan.ProjectItem, len(all))
		names := make([]string, len(all))
		for i, bd := range all {
			out[i] = plan.ProjectItem{Expr: cx.arena.NewExpr(&ast.Variable{Name: bd.Name}), Alias: bd.Name}
			names[i] = bd.Name
		}
		return out, names, nil
	}
	out := make([]plan.ProjectItem, len(items))
	names := make([]string, len(items))
	for i, it := range items {
		expr, err := cx.lower(it.Expr)
		if err != nil {
			return nil, nil, err
		}
		alias := it.Alias
		if alias == "" {
			if v, ok := cx.arena.Expr(expr).(*ast.Variable); ok {
				alias = v.Name
			} else if requireAlias {
				return nil, nil, cyphererr.ErrMissingAlias.New(ast.Print(cx.arena, expr))
			} else {
				alias = ast.Print(cx.arena, expr)
			}
		}
		out[i] = plan.ProjectItem{Expr: expr, Alias: alias}
		names[i] = alias
	}
	return out, names, nil
}

func transformWith(cx *chainCtx, node plan.Node, w *ast.With) (plan.Node, error) {
	items, names, err := projectionItems(cx, w.Star, w.Items, true)
	if err != nil {
		return nil, err
	}
	proj := plan.Node(&plan.Projection{Input: node, Items: items, Distinct: w.Distinct})

	// WITH re-scopes: only the projected names remain bound afterward, each
	// as a plain scalar reference to its own projected expression.
	cx.b.KeepOnly(names)
	for i, n := range names {
		if _, err := cx.b.Declare(n, binder.KindScalar, items[i].Expr, false); err != nil {
			return nil, err
		}
	}

	if w.Where != ast.NoExpr {
		where, err := cx.lower(w.Where)
		if err != nil {
			return nil, err
		}
		proj = &plan.Filter{Input: proj, Predicate: where}
	}
	return applyOrderSkipLimit(cx, proj, w.OrderBy, w.Skip, w.Limit)
}

func transformReturn(cx *chainCtx, node plan.Node, r *ast.Return) (plan.Node, error) {
	if r.Op != ast.SetOpNone {
		return transformUnion(cx, r)
	}
	items, _, err := projectionItems(cx, r.Star, r.Items, false)
	if err != nil {
		return nil, err
	}
	proj := plan.Node(&plan.Projection{Input: node, Items: items, Distinct: r.Distinct})
	return applyOrderSkipLimit(cx, proj, r.OrderBy, r.Skip, r.Limit)
}

// applyOrderSkipLimit wraps node in Sort/LimitOffset per ORDER BY/SKIP/
// LIMIT. SKIP/LIMIT must reference only parameters/constants, never a
// visible variable (spec §4.5), checked by illegalLimitRef walking the
// full expression tree (a bare variable or any property access anywhere
// inside it, e.g. `LIMIT a.k + 1`, is equally illegal).
func applyOrderSkipLimit(cx *chainCtx, node plan.Node, orderBy []ast.OrderItem, skip, limit ast.ExprID) (plan.Node, error) {
	if len(orderBy) > 0 {
		items := make([]plan.SortItem, len(orderBy))
		for i, o := range orderBy {
			items[i] = plan.SortItem{Expr: o.Expr, Desc: o.Descending}
		}
		node = &plan.Sort{Input: node, Items: items}
	}
	if skip != ast.NoExpr || limit != ast.NoExpr {
		if illegalLimitRef(cx.arena, skip) || illegalLimitRef(cx.arena, limit) {
			return nil, cyphererr.ErrIllegalLimit.New()
		}
		node = &plan.LimitOffset{Input: node, Skip: skip, Limit: limit}
	}
	return node, nil
}

// illegalLimitRef reports whether id's expression tree contains any
// Variable or PropertyAccess reference (spec §4.5: SKIP/LIMIT may only
// reference parameters/constants).
func illegalLimitRef(arena *ast.Arena, id ast.ExprID) bool {
	if id == ast.NoExpr {
		return false
	}
	switch e := arena.Expr(id).(type) {
	case *ast.Variable, *ast.PropertyAccess:
		return true
	case *ast.Literal, *ast.Parameter, *ast.WildcardStar, *ast.PathVar:
		return false
	case *ast.Binary:
		return illegalLimitRef(arena, e.Left) || illegalLimitRef(arena, e.Right)
	case *ast.Not:
		return illegalLimitRef(arena, e.Operand)
	case *ast.ChainCmp:
		for _, t := range e.Terms {
			if illegalLimitRef(arena, t) {
				return true
			}
		}
		return false
	case *ast.BoolTree:
		for _, o := range e.Operands {
			if illegalLimitRef(arena, o) {
				return true
			}
		}
		return false
	case *ast.IsNull:
		return illegalLimitRef(arena, e.Operand)
	case *ast.Subscript:
		return illegalLimitRef(arena, e.Target) || illegalLimitRef(arena, e.Index)
	case *ast.Slice:
		return illegalLimitRef(arena, e.Target) || illegalLimitRef(arena, e.Lo) || illegalLimitRef(arena, e.Hi)
	case *ast.TypeCast:
		return illegalLimitRef(arena, e.Operand)
	case *ast.CaseExpr:
		if illegalLimitRef(arena, e.Operand) || illegalLimitRef(arena, e.Else) {
			return true
		}
		for _, w := range e.Whens {
			if illegalLimitRef(arena, w) {
				return true
			}
		}
		for _, t := range e.Thens {
			if illegalLimitRef(arena, t) {
				return true
			}
		}
		return false
	case *ast.ListLiteral:
		for _, it := range e.Items {
			if illegalLimitRef(arena, it) {
				return true
			}
		}
		return false
	case *ast.MapLiteral:
		for _, v := range e.Values {
			if illegalLimitRef(arena, v) {
				return true
			}
		}
		return false
	case *ast.FuncCall:
		for _, a := range e.Args {
			if illegalLimitRef(arena, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
