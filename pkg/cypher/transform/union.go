package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// transformUnion implements the UNION Planner (U, spec §4.6). r.Larg and
// r.Rarg are the heads of two fully independent clause chains (the parser
// resets its working Query per UNION branch, per parser.go's top-level
// loop), so each side gets its own fresh binder rather than sharing the
// outer scope. The recursion naturally handles a chain of more than two
// branches (`A UNION B UNION ALL C`) because the tail Return of one side
// may itself carry Op != SetOpNone, which transformOneClause routes back
// through this same function.
func transformUnion(cx *chainCtx, r *ast.Return) (plan.Node, error) {
	leftCtx := newChainCtx(cx.arena, cx.cat, cx.graphName, binder.New(cx.arena))
	rightCtx := newChainCtx(cx.arena, cx.cat, cx.graphName, binder.New(cx.arena))

	left, err := transformChain(leftCtx, r.Larg)
	if err != nil {
		return nil, err
	}
	right, err := transformChain(rightCtx, r.Rarg)
	if err != nil {
		return nil, err
	}
	mergeExists(cx, leftCtx.exists)
	mergeExists(cx, rightCtx.exists)

	lw, lok := projectionWidth(left)
	rw, rok := projectionWidth(right)
	if lok && rok && lw != rw {
		return nil, cyphererr.ErrUnionColumnType.New(1, min(lw, rw)+1, "column count", "matching branch")
	}

	kind := plan.SetOpUnion
	if r.Op == ast.SetOpUnionAll {
		kind = plan.SetOpUnionAll
	}
	var node plan.Node = &plan.SetOp{Left: left, Right: right, Kind: kind}

	for _, o := range r.OrderBy {
		if _, ok := cx.arena.Expr(o.Expr).(*ast.Variable); !ok {
			return nil, cyphererr.ErrInvalidUnionOrderBy.New()
		}
	}
	return applyOrderSkipLimit(cx, node, r.OrderBy, r.Skip, r.Limit)
}

// projectionWidth reports how many columns node's nearest enclosing
// Projection/SetOp produces, unwrapping the Filter/Sort/LimitOffset
// wrappers a branch's own ORDER BY/WHERE may have added.
func projectionWidth(node plan.Node) (int, bool) {
	switch n := node.(type) {
	case *plan.Projection:
		return len(n.Items), true
	case *plan.Filter:
		return projectionWidth(n.Input)
	case *plan.Sort:
		return projectionWidth(n.Input)
	case *plan.LimitOffset:
		return projectionWidth(n.Input)
	case *plan.SetOp:
		return projectionWidth(n.Left)
	default:
		return 0, false
	}
}

func mergeExists(cx *chainCtx, extra map[ast.ExprID]*plan.Exists) {
	for k, v := range extra {
		cx.exists[k] = v
	}
}
