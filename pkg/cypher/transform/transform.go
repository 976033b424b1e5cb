package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// Result is everything Transform produces from one parsed query: the plan
// tree itself, plus the correlated EXISTS subqueries gathered from every
// predicate expression along the way (spec §4.3), keyed by the
// ast.ExistsPattern's own ExprID so a host evaluator can resolve one
// without re-walking the expression tree.
type Result struct {
	Plan   plan.Node
	Exists map[ast.ExprID]*plan.Exists
}

// Transform lowers query into a plan tree rooted at graphName, running the
// full X/T/C/U/W pipeline (spec §4.3-§4.8) over its clause chain.
func Transform(query *ast.Query, cat *catalog.Catalog, graphName string) (*Result, error) {
	b := binder.New(query.Arena)
	cx := newChainCtx(query.Arena, cat, graphName, b)
	node, err := transformChain(cx, query.Head)
	if err != nil {
		return nil, err
	}
	return &Result{Plan: node, Exists: cx.exists}, nil
}
